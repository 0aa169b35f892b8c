package osmparser

import (
	"errors"

	"github.com/lintang-b-s/Roadgraphx/pkg"
	"github.com/lintang-b-s/Roadgraphx/pkg/datastructure"
	"github.com/lintang-b-s/Roadgraphx/pkg/pbf"
	"github.com/lintang-b-s/Roadgraphx/pkg/util"
)

var ErrDenseColumns = errors.New("dense node columns differ in length")

// WayStats counts what DecodeWays did with one way group.
type WayStats struct {
	Ways      int
	Edges     int
	SelfLoops int
}

// DecodeDenseNodes accumulates the delta coded columns of a dense group and upserts every point into graph.
// Each step adds NANO_DEGREE * (offset + granularity*delta) to the running coordinate.
// The columns are checked before graph is touched, a malformed group leaves it unchanged.
func DecodeDenseNodes(dense *pbf.DenseNodes, granularity, latOffset, lonOffset int64,
	graph *datastructure.FullGraph) (int, error) {
	if dense == nil {
		return 0, nil
	}
	if len(dense.IDs) != len(dense.Lats) || len(dense.IDs) != len(dense.Lons) {
		return 0, util.WrapErrorf(ErrDenseColumns, util.ErrMalformedBlock,
			"dense nodes with %d ids, %d lats and %d lons", len(dense.IDs), len(dense.Lats), len(dense.Lons))
	}

	var (
		id       int64
		lat, lon float64
	)
	for i := range dense.IDs {
		id += dense.IDs[i]
		lat += pkg.NANO_DEGREE * float64(latOffset+granularity*dense.Lats[i])
		lon += pkg.NANO_DEGREE * float64(lonOffset+granularity*dense.Lons[i])

		graph.UpsertPoint(id, float32(lat), float32(lon))
	}
	return len(dense.IDs), nil
}

// DecodeNodes upserts non dense nodes, whose coordinates are absolute.
func DecodeNodes(nodes []pbf.Node, granularity, latOffset, lonOffset int64,
	graph *datastructure.FullGraph) int {
	for _, node := range nodes {
		lat := pkg.NANO_DEGREE * float64(latOffset+granularity*node.Lat)
		lon := pkg.NANO_DEGREE * float64(lonOffset+granularity*node.Lon)
		graph.UpsertPoint(node.ID, float32(lat), float32(lon))
	}
	return len(nodes)
}

// DecodeWays adds an undirected edge for every consecutive pair of referenced points.
// Segments whose endpoints are the same point are dropped.
func DecodeWays(ways []pbf.Way, graph *datastructure.FullGraph) WayStats {
	stats := WayStats{}
	for _, way := range ways {
		stats.Ways++
		forEachWaySegment(way.Refs, func(from, to int64) {
			if from == to {
				stats.SelfLoops++
				return
			}
			graph.AddEdge(from, to)
			stats.Edges++
		})
	}
	return stats
}

// WaySegments returns the (from, to) pair of every segment of a way, self loops included.
func WaySegments(refs []int64) [][2]int64 {
	segments := make([][2]int64, 0, len(refs))
	forEachWaySegment(refs, func(from, to int64) {
		segments = append(segments, [2]int64{from, to})
	})
	return segments
}

// forEachWaySegment decodes delta coded refs with two accumulators,
// from trailing to by one position.
func forEachWaySegment(refs []int64, handle func(from, to int64)) {
	if len(refs) < 2 {
		return
	}
	from := int64(0)
	to := refs[0]
	for k := 0; k < len(refs)-1; k++ {
		from += refs[k]
		to += refs[k+1]
		handle(from, to)
	}
}
