package geo_test

import (
	"testing"

	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/Roadgraphx/pkg/geo"
	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	cases := []struct {
		name                             string
		latOne, longOne, latTwo, longTwo float64
		expectedDist                     float64
		delta                            float64
	}{
		{
			name:         "solo",
			latOne:       -7.557155997491524,
			longOne:      110.77170252731288,
			latTwo:       -7.550209300671982,
			longTwo:      110.78942094938256,
			expectedDist: 2.1,
			delta:        0.1,
		},
		{
			name:         "jogja",
			latOne:       -7.759889166547908,
			longOne:      110.36689459108496,
			latTwo:       -7.760335932763678,
			longTwo:      110.37671195413539,
			expectedDist: 1.08,
			delta:        0.1,
		},
		{
			name:         "one degree of longitude on the equator",
			latOne:       0,
			longOne:      0,
			latTwo:       0,
			longTwo:      1,
			expectedDist: 111.19492664455873,
			delta:        1e-9,
		},
		{
			name:         "identical points",
			latOne:       52.5,
			longOne:      13.4,
			latTwo:       52.5,
			longTwo:      13.4,
			expectedDist: 0,
			delta:        0,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dist := geo.CalculateHaversineDistance(c.latOne, c.longOne, c.latTwo, c.longTwo)
			assert.InDelta(t, c.expectedDist, dist, c.delta)
			assert.GreaterOrEqual(t, dist, 0.0)
		})
	}
}

func TestHaversineMatchesGreatCircleAngle(t *testing.T) {
	pairs := [][4]float64{
		{0, 0, 1, 1},
		{-7.55, 110.77, -7.76, 110.37},
		{51.5, -0.12, 40.7, -74.0},
		{-33.9, 151.2, 35.7, 139.7},
	}

	for _, p := range pairs {
		want := s2.LatLngFromDegrees(p[0], p[1]).Distance(s2.LatLngFromDegrees(p[2], p[3])).Radians() * 6371.0
		got := geo.HaversineDistance(geo.NewCoordinate(p[0], p[1]), geo.NewCoordinate(p[2], p[3]))
		assert.InDelta(t, want, got, 1e-6)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := geo.NewCoordinate(-7.7, 110.37)
	b := geo.NewCoordinate(-7.76, 110.376)
	assert.InDelta(t, geo.HaversineDistance(a, b), geo.HaversineDistance(b, a), 1e-12)
}

func TestHaversineNearCoincidentPoints(t *testing.T) {
	cases := []struct {
		name                             string
		latOne, longOne, latTwo, longTwo float64
		expectedMeters                   float64
	}{
		{name: "1e-7 degree of longitude at 0.5N", latOne: 0.5, longOne: 0.5, latTwo: 0.5, longTwo: 0.5000001, expectedMeters: 0.011119},
		{name: "1e-6 degree of longitude at 0.5N", latOne: 0.5, longOne: 0.5, latTwo: 0.5, longTwo: 0.500001, expectedMeters: 0.111187},
		{name: "1e-6 degree of latitude in java", latOne: -7.7598891, longOne: 110.3668945, latTwo: -7.7598881, longTwo: 110.3668945, expectedMeters: 0.111195},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			meters := geo.CalculateHaversineDistance(c.latOne, c.longOne, c.latTwo, c.longTwo) * 1000
			assert.Greater(t, meters, 0.0)
			assert.InEpsilon(t, c.expectedMeters, meters, 1e-3)
		})
	}
}
