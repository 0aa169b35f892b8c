package datastructure

import (
	"sort"

	"github.com/golang/geo/s2"
)

type BoundingBox struct {
	minLat, minLon float64
	maxLat, maxLon float64
}

func NewBoundingBox(minLat, minLon, maxLat, maxLon float64) *BoundingBox {
	return &BoundingBox{minLat: minLat,
		minLon: minLon,
		maxLat: maxLat,
		maxLon: maxLon}
}

func (b *BoundingBox) GetMinLat() float64 {
	return b.minLat
}

func (b *BoundingBox) GetMinLon() float64 {
	return b.minLon
}

func (b *BoundingBox) GetMaxLat() float64 {
	return b.maxLat
}

func (b *BoundingBox) GetMaxLon() float64 {
	return b.maxLon
}

// ReducedGraph holds copies of the intersection vertices of a FullGraph.
// Neighbor ids may point at vertices that are not part of the ReducedGraph.
type ReducedGraph struct {
	vertices   map[int64]*Vertex
	adjEntries int
}

func NewReducedGraph() *ReducedGraph {
	return &ReducedGraph{
		vertices: make(map[int64]*Vertex),
	}
}

// AddVertex stores a deep copy of v.
func (g *ReducedGraph) AddVertex(v *Vertex) {
	if old, ok := g.vertices[v.id]; ok {
		g.adjEntries -= len(old.adj)
	}
	g.vertices[v.id] = v.Clone()
	g.adjEntries += len(v.adj)
}

func (g *ReducedGraph) GetVertex(id int64) (*Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

func (g *ReducedGraph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *ReducedGraph) NumberOfAdjacencyEntries() int {
	return g.adjEntries
}

// Intersections returns the retained vertices ordered by osm id.
func (g *ReducedGraph) Intersections() []*Vertex {
	ids := make([]int64, 0, len(g.vertices))
	for id := range g.vertices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})

	vertices := make([]*Vertex, len(ids))
	for i, id := range ids {
		vertices[i] = g.vertices[id]
	}
	return vertices
}

// BoundingBox returns the lat/lon rectangle covering every retained vertex, nil for an empty graph.
func (g *ReducedGraph) BoundingBox() *BoundingBox {
	if len(g.vertices) == 0 {
		return nil
	}
	rect := s2.EmptyRect()
	for _, v := range g.vertices {
		rect = rect.AddPoint(s2.LatLngFromDegrees(float64(v.lat), float64(v.lon)))
	}
	return NewBoundingBox(rect.Lo().Lat.Degrees(), rect.Lo().Lng.Degrees(),
		rect.Hi().Lat.Degrees(), rect.Hi().Lng.Degrees())
}

// TopByDegree returns up to k intersections with the most adjacency entries, ties broken by osm id.
func (g *ReducedGraph) TopByDegree(k int) []*Vertex {
	vertices := g.Intersections()
	sort.SliceStable(vertices, func(i, j int) bool {
		return len(vertices[i].adj) > len(vertices[j].adj)
	})
	if k < len(vertices) {
		vertices = vertices[:max(k, 0)]
	}
	return vertices
}
