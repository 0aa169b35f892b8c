package preprocesser

import (
	"github.com/lintang-b-s/Roadgraphx/pkg/datastructure"
	"github.com/lintang-b-s/Roadgraphx/pkg/metrics"
	"go.uber.org/zap"
)

type ReductionStats struct {
	FullVertices         int
	FullAdjacencyEntries int
	UnresolvedPoints     int

	Intersections       int
	AdjacencyEntries    int
	UnresolvedNeighbors int
}

type Preprocessor struct {
	logger  *zap.Logger
	metrics *metrics.PipelineMetrics
}

func NewPreprocessor(logger *zap.Logger, m *metrics.PipelineMetrics) *Preprocessor {
	if m == nil {
		m = metrics.NewPipelineMetrics()
	}
	return &Preprocessor{
		logger:  logger,
		metrics: m,
	}
}

// PreProcessing reduces full to its intersections and fills in every edge distance.
// full is only read, it can be dropped once this returns.
func (p *Preprocessor) PreProcessing(full *datastructure.FullGraph) (*datastructure.ReducedGraph, ReductionStats) {
	p.logger.Info("Starting reduction of the full graph to intersections...",
		zap.Int("vertices", full.NumberOfVertices()),
		zap.Int("adjacency_entries", full.NumberOfAdjacencyEntries()))

	reduced := Reduce(full)

	p.logger.Info("Resolving haversine distances of the intersection edges...",
		zap.Int("intersections", reduced.NumberOfVertices()))
	reduced, unresolved := ResolveDistances(reduced, full)

	stats := ReductionStats{
		FullVertices:         full.NumberOfVertices(),
		FullAdjacencyEntries: full.NumberOfAdjacencyEntries(),
		UnresolvedPoints:     full.NumberOfUnresolved(),
		Intersections:        reduced.NumberOfVertices(),
		AdjacencyEntries:     reduced.NumberOfAdjacencyEntries(),
		UnresolvedNeighbors:  unresolved,
	}
	if unresolved > 0 {
		p.logger.Warn("some intersection neighbors never got coordinates, their distances are measured from (0, 0)",
			zap.Int("unresolved_neighbors", unresolved),
			zap.Int("unresolved_points", stats.UnresolvedPoints))
	}

	p.metrics.ReducedVertices.Set(float64(stats.Intersections))
	p.metrics.ReducedEdges.Set(float64(stats.AdjacencyEntries))
	return reduced, stats
}
