package datastructure

// Neighbor is one adjacency entry: the other endpoint of an undirected edge and its length in km.
// dist stays 0 until the reducer resolves it.
type Neighbor struct {
	id   int64
	dist float64
}

func NewNeighbor(id int64, dist float64) Neighbor {
	return Neighbor{id: id, dist: dist}
}

func (n Neighbor) GetID() int64 {
	return n.id
}

func (n Neighbor) GetDist() float64 {
	return n.dist
}

// Vertex is an osm point together with its adjacency list.
type Vertex struct {
	id       int64
	lat      float32
	lon      float32
	resolved bool // false while the vertex is only a placeholder created by a forward reference
	adj      []Neighbor
}

func NewVertex(id int64, lat, lon float32) *Vertex {
	return &Vertex{
		id:       id,
		lat:      lat,
		lon:      lon,
		resolved: true,
	}
}

func newPlaceholderVertex(id int64) *Vertex {
	return &Vertex{id: id}
}

func (v *Vertex) GetID() int64 {
	return v.id
}

func (v *Vertex) GetLat() float32 {
	return v.lat
}

func (v *Vertex) GetLon() float32 {
	return v.lon
}

func (v *Vertex) IsResolved() bool {
	return v.resolved
}

func (v *Vertex) GetNeighbors() []Neighbor {
	return v.adj
}

func (v *Vertex) Degree() int {
	return len(v.adj)
}

func (v *Vertex) SetNeighborDist(i int, dist float64) {
	v.adj[i].dist = dist
}

func (v *Vertex) AppendNeighbor(n Neighbor) {
	v.adj = append(v.adj, n)
}

// Clone returns a deep copy, the adjacency list is not shared.
func (v *Vertex) Clone() *Vertex {
	adj := make([]Neighbor, len(v.adj))
	copy(adj, v.adj)
	return &Vertex{
		id:       v.id,
		lat:      v.lat,
		lon:      v.lon,
		resolved: v.resolved,
		adj:      adj,
	}
}

// FullGraph is the complete undirected graph accumulated while decoding an osm pbf stream.
// It is owned by a single pipeline run and is not safe for concurrent use.
type FullGraph struct {
	vertices   map[int64]*Vertex
	adjEntries int
}

func NewFullGraph() *FullGraph {
	return &FullGraph{
		vertices: make(map[int64]*Vertex),
	}
}

// UpsertPoint creates the point or overwrites its coordinates (last write wins).
// The adjacency list of an existing entry is kept, so placeholders created by AddEdge are completed here.
func (g *FullGraph) UpsertPoint(id int64, lat, lon float32) {
	v, ok := g.vertices[id]
	if !ok {
		g.vertices[id] = NewVertex(id, lat, lon)
		return
	}
	v.lat = lat
	v.lon = lon
	v.resolved = true
}

// AddEdge records the undirected edge (u,v) as two mirrored adjacency entries.
// Unknown endpoints get placeholder entries. Duplicate edges are not merged.
func (g *FullGraph) AddEdge(u, v int64) {
	g.getOrCreate(u).AppendNeighbor(NewNeighbor(v, 0))
	g.getOrCreate(v).AppendNeighbor(NewNeighbor(u, 0))
	g.adjEntries += 2
}

func (g *FullGraph) getOrCreate(id int64) *Vertex {
	v, ok := g.vertices[id]
	if !ok {
		v = newPlaceholderVertex(id)
		g.vertices[id] = v
	}
	return v
}

func (g *FullGraph) GetVertex(id int64) (*Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

// GetCoordinate returns the coordinate of id in degrees. ok is false if the id was never referenced.
func (g *FullGraph) GetCoordinate(id int64) (lat, lon float64, ok bool) {
	v, ok := g.vertices[id]
	if !ok {
		return 0, 0, false
	}
	return float64(v.lat), float64(v.lon), true
}

func (g *FullGraph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *FullGraph) NumberOfAdjacencyEntries() int {
	return g.adjEntries
}

// NumberOfUnresolved counts placeholder vertices whose coordinates were never decoded.
func (g *FullGraph) NumberOfUnresolved() int {
	count := 0
	for _, v := range g.vertices {
		if !v.resolved {
			count++
		}
	}
	return count
}

func (g *FullGraph) ForEachVertex(handle func(v *Vertex)) {
	for _, v := range g.vertices {
		handle(v)
	}
}
