package datastructure

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSmallReducedGraph() *ReducedGraph {
	rg := NewReducedGraph()

	b := NewVertex(2, 0, 1)
	b.AppendNeighbor(NewNeighbor(1, 111.19492664455873))
	b.AppendNeighbor(NewNeighbor(3, 111.19492664455873))
	b.AppendNeighbor(NewNeighbor(4, 111.19492664455873))
	rg.AddVertex(b)

	c := NewVertex(7, -7.7595806, 110.3668946)
	c.AppendNeighbor(NewNeighbor(8, 0.25))
	c.AppendNeighbor(NewNeighbor(9, 0.125))
	c.AppendNeighbor(NewNeighbor(8, 0.25))
	rg.AddVertex(c)
	return rg
}

func TestEncodeDecodeGraph(t *testing.T) {
	rg := buildSmallReducedGraph()

	var buf bytes.Buffer
	require.NoError(t, rg.Encode(&buf))

	got, bb, err := Decode(&buf)
	require.NoError(t, err)
	require.NotNil(t, bb)

	assert.Equal(t, rg.NumberOfVertices(), got.NumberOfVertices())
	assert.Equal(t, rg.NumberOfAdjacencyEntries(), got.NumberOfAdjacencyEntries())
	for _, want := range rg.Intersections() {
		v, ok := got.GetVertex(want.GetID())
		require.True(t, ok)
		assert.Equal(t, want.GetLat(), v.GetLat())
		assert.Equal(t, want.GetLon(), v.GetLon())
		assert.Equal(t, want.GetNeighbors(), v.GetNeighbors())
	}
	assert.InDelta(t, -7.7595806, bb.GetMinLat(), 1e-5)
}

func TestWriteReadGraphFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "reduced.graph")
	rg := buildSmallReducedGraph()

	require.NoError(t, rg.WriteGraph(filename))

	got, _, err := ReadGraph(filename)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumberOfVertices())
}

func TestEncodeEmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReducedGraph().Encode(&buf))

	got, bb, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, got.NumberOfVertices())
	assert.Equal(t, 0.0, bb.GetMaxLat())
}

func bzip2Text(t *testing.T, text string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	bz, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{})
	require.NoError(t, err)
	_, err = bz.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, bz.Close())
	return &buf
}

func TestDecodeRejectsCorruptCounts(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{name: "negative degree", text: "1 3\n0 0 1 1\n2 0 1 -1\n"},
		{name: "degree above header total", text: "1 3\n0 0 1 1\n2 0 1 4000000000\n"},
		{name: "degrees sum above header total", text: "2 3\n0 0 1 1\n2 0 1 2\n1 0.5\n3 0.5\n5 0 0 2\n"},
		{name: "negative vertex count", text: "-1 0\n0 0 1 1\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, _, err := Decode(bzip2Text(t, tc.text))
				assert.ErrorIs(t, err, ErrCorruptGraphFile)
			})
		})
	}
}
