package preprocesser

import (
	"github.com/lintang-b-s/Roadgraphx/pkg"
	"github.com/lintang-b-s/Roadgraphx/pkg/datastructure"
	"github.com/lintang-b-s/Roadgraphx/pkg/geo"
)

// Reduce keeps the intersections of full: every vertex with at least INTERSECTION_MIN_DEGREE adjacency entries.
// Dead ends and pass-through points are dropped. Distances are left at zero, see ResolveDistances.
func Reduce(full *datastructure.FullGraph) *datastructure.ReducedGraph {
	reduced := datastructure.NewReducedGraph()
	full.ForEachVertex(func(v *datastructure.Vertex) {
		if v.Degree() >= pkg.INTERSECTION_MIN_DEGREE {
			reduced.AddVertex(v)
		}
	})
	return reduced
}

// ResolveDistances returns a copy of reduced whose adjacency entries carry the haversine distance in km
// between both endpoints. Neighbor coordinates are looked up in full, so neighbors that were not kept still resolve.
// unresolved counts adjacency entries whose neighbor never got coordinates; those are measured from (0, 0).
func ResolveDistances(reduced *datastructure.ReducedGraph, full *datastructure.FullGraph) (resolved *datastructure.ReducedGraph, unresolved int) {
	resolved = datastructure.NewReducedGraph()
	for _, v := range reduced.Intersections() {
		c := v.Clone()
		lat, lon := float64(c.GetLat()), float64(c.GetLon())

		for i, n := range c.GetNeighbors() {
			nv, ok := full.GetVertex(n.GetID())
			if !ok || !nv.IsResolved() {
				unresolved++
			}
			var nLat, nLon float64
			if ok {
				nLat, nLon = float64(nv.GetLat()), float64(nv.GetLon())
			}
			c.SetNeighborDist(i, geo.CalculateHaversineDistance(lat, lon, nLat, nLon))
		}
		resolved.AddVertex(c)
	}
	return resolved, unresolved
}
