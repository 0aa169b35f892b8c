package geo

import (
	"math"

	"github.com/lintang-b-s/Roadgraphx/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

const (
	earthRadiusKM = 6371.0
)

// hav is sin²(θ/2).
func hav(angleRad float64) float64 {
	s := math.Sin(angleRad / 2.0)
	return s * s
}

// CalculateHaversineDistance returns the great circle distance in km between two points given in degrees.
// Distinct points always yield a positive distance.
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	phiOne := util.DegreeToRadians(latOne)
	phiTwo := util.DegreeToRadians(latTwo)
	dPhi := phiTwo - phiOne
	dLambda := util.DegreeToRadians(longTwo - longOne)

	a := hav(dPhi) + math.Cos(phiOne)*math.Cos(phiTwo)*hav(dLambda)
	a = math.Min(1, math.Max(0, a))
	return 2.0 * earthRadiusKM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// HaversineDistance is CalculateHaversineDistance over two coordinates.
func HaversineDistance(from, to Coordinate) float64 {
	return CalculateHaversineDistance(from.Lat, from.Lon, to.Lat, to.Lon)
}
