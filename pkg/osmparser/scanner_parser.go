package osmparser

import (
	"context"
	"io"

	"github.com/lintang-b-s/Roadgraphx/pkg/datastructure"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"
)

// ParseWithScanner builds the same FullGraph as Parse but lets osmpbf do the framing, decompression and decoding.
// osmpbf stops at the first bad block, so a scanner error ends the scan and is reported as truncation.
func (p *OsmParser) ParseWithScanner(ctx context.Context, r io.Reader) (*datastructure.FullGraph, ParseStats, error) {
	graph := datastructure.NewFullGraph()
	stats := ParseStats{}

	scanner := osmpbf.New(ctx, r, 1)
	scanner.SkipRelations = true
	defer scanner.Close()

	objects := 0
	for scanner.Scan() {
		applyObject(scanner.Object(), graph, &stats)
		objects++
		if objects%(p.progressEvery*8000) == 0 {
			p.logger.Sugar().Infof("processing openstreetmap objects: %d, points: %d, ways: %d...",
				objects, stats.Points, stats.Ways)
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return graph, stats, ctx.Err()
		}
		stats.Truncated = true
		p.logger.Warn("osmpbf scanner stopped, keeping the objects decoded so far", zap.Error(err))
	}

	p.observe(graph, stats)
	p.logger.Info("finished scanning pbf stream",
		zap.Int("points", stats.Points),
		zap.Int("ways", stats.Ways),
		zap.Int("vertices", graph.NumberOfVertices()),
		zap.Int("adjacency_entries", graph.NumberOfAdjacencyEntries()),
		zap.Bool("truncated", stats.Truncated))
	return graph, stats, nil
}

// applyObject folds one decoded osm object into graph with the same rules as the native decoder.
func applyObject(o osm.Object, graph *datastructure.FullGraph, stats *ParseStats) {
	switch obj := o.(type) {
	case *osm.Node:
		graph.UpsertPoint(int64(obj.ID), float32(obj.Lat), float32(obj.Lon))
		stats.Points++
	case *osm.Way:
		stats.Ways++
		for i := 1; i < len(obj.Nodes); i++ {
			from, to := int64(obj.Nodes[i-1].ID), int64(obj.Nodes[i].ID)
			if from == to {
				stats.SelfLoops++
				continue
			}
			graph.AddEdge(from, to)
			stats.Edges++
		}
	}
}
