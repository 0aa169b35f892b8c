package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdgeForwardReference(t *testing.T) {
	g := NewFullGraph()

	g.AddEdge(1, 2)

	v1, ok := g.GetVertex(1)
	require.True(t, ok)
	assert.False(t, v1.IsResolved())
	assert.Equal(t, 2, g.NumberOfUnresolved())

	g.UpsertPoint(1, -7.55, 110.77)
	g.UpsertPoint(2, -7.56, 110.78)

	v1, _ = g.GetVertex(1)
	assert.True(t, v1.IsResolved())
	assert.Equal(t, []Neighbor{NewNeighbor(2, 0)}, v1.GetNeighbors(), "upsert must keep the adjacency list")
	assert.Equal(t, float32(-7.55), v1.GetLat())
	assert.Equal(t, 0, g.NumberOfUnresolved())
}

func TestAddEdgeMirrored(t *testing.T) {
	g := NewFullGraph()
	g.UpsertPoint(1, 0, 0)
	g.UpsertPoint(2, 0, 1)
	g.UpsertPoint(3, 0, 2)

	g.AddEdge(1, 2)
	g.AddEdge(2, 3)

	assert.Equal(t, 4, g.NumberOfAdjacencyEntries())

	count := 0
	g.ForEachVertex(func(v *Vertex) {
		for _, n := range v.GetNeighbors() {
			other, ok := g.GetVertex(n.GetID())
			require.True(t, ok)
			mirrored := false
			for _, back := range other.GetNeighbors() {
				if back.GetID() == v.GetID() {
					mirrored = true
				}
			}
			assert.Truef(t, mirrored, "edge %d->%d has no mirror", v.GetID(), n.GetID())
			count++
		}
	})
	assert.Equal(t, g.NumberOfAdjacencyEntries(), count)
}

func TestAddEdgeKeepsDuplicates(t *testing.T) {
	g := NewFullGraph()
	g.AddEdge(1, 2)
	g.AddEdge(1, 2)

	v, _ := g.GetVertex(1)
	assert.Equal(t, 2, v.Degree())
	assert.Equal(t, 4, g.NumberOfAdjacencyEntries())
}

func TestUpsertPointLastWriteWins(t *testing.T) {
	g := NewFullGraph()
	g.UpsertPoint(10, 1, 1)
	g.UpsertPoint(10, 2, 3)

	lat, lon, ok := g.GetCoordinate(10)
	require.True(t, ok)
	assert.Equal(t, 2.0, lat)
	assert.Equal(t, 3.0, lon)
	assert.Equal(t, 1, g.NumberOfVertices())

	_, _, ok = g.GetCoordinate(11)
	assert.False(t, ok)
}

func TestReducedGraphAddVertexCopies(t *testing.T) {
	v := NewVertex(5, 1, 2)
	v.AppendNeighbor(NewNeighbor(6, 0))

	rg := NewReducedGraph()
	rg.AddVertex(v)
	v.SetNeighborDist(0, 42)

	stored, ok := rg.GetVertex(5)
	require.True(t, ok)
	assert.Equal(t, 0.0, stored.GetNeighbors()[0].GetDist())
	assert.Equal(t, 1, rg.NumberOfAdjacencyEntries())
}

func TestReducedGraphIntersectionsOrderedAndBoundingBox(t *testing.T) {
	rg := NewReducedGraph()
	rg.AddVertex(NewVertex(30, -7.5, 110.5))
	rg.AddVertex(NewVertex(10, -7.9, 110.1))
	rg.AddVertex(NewVertex(20, -7.6, 110.9))

	ids := []int64{}
	for _, v := range rg.Intersections() {
		ids = append(ids, v.GetID())
	}
	assert.Equal(t, []int64{10, 20, 30}, ids)

	bb := rg.BoundingBox()
	require.NotNil(t, bb)
	assert.InDelta(t, -7.9, bb.GetMinLat(), 1e-5)
	assert.InDelta(t, 110.1, bb.GetMinLon(), 1e-5)
	assert.InDelta(t, -7.5, bb.GetMaxLat(), 1e-5)
	assert.InDelta(t, 110.9, bb.GetMaxLon(), 1e-5)

	assert.Nil(t, NewReducedGraph().BoundingBox())
}

func TestReducedGraphTopByDegree(t *testing.T) {
	rg := NewReducedGraph()
	for id, degree := range map[int64]int{1: 3, 2: 5, 3: 4, 4: 5} {
		v := NewVertex(id, 0, 0)
		for i := 0; i < degree; i++ {
			v.AppendNeighbor(NewNeighbor(int64(100+i), 0))
		}
		rg.AddVertex(v)
	}

	ids := []int64{}
	for _, v := range rg.TopByDegree(3) {
		ids = append(ids, v.GetID())
	}
	assert.Equal(t, []int64{2, 4, 3}, ids)
	assert.Len(t, rg.TopByDegree(10), 4)
	assert.Empty(t, rg.TopByDegree(0))
}
