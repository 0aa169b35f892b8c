package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "roadgraphx"

// block outcomes
const (
	BLOCK_DECODED  = "decoded"
	BLOCK_HEADER   = "header"
	BLOCK_IGNORED  = "ignored"
	BLOCK_REJECTED = "rejected"
)

// PipelineMetrics counts what one extraction run decoded and kept. Every instance owns its registry.
type PipelineMetrics struct {
	registry *prometheus.Registry

	Blocks        *prometheus.CounterVec
	SkippedGroups prometheus.Counter
	Points        prometheus.Counter
	Ways          prometheus.Counter
	Edges         prometheus.Counter
	SelfLoops     prometheus.Counter

	FullVertices     prometheus.Gauge
	UnresolvedPoints prometheus.Gauge
	ReducedVertices  prometheus.Gauge
	ReducedEdges     prometheus.Gauge
	PersistedDocs    *prometheus.CounterVec
}

func NewPipelineMetrics() *PipelineMetrics {
	m := &PipelineMetrics{
		registry: prometheus.NewRegistry(),
		Blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pbf_blocks_total",
			Help:      "pbf blocks read, by outcome.",
		}, []string{"outcome"}),
		SkippedGroups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pbf_skipped_groups_total",
			Help:      "primitive groups skipped because their kind is not decoded or they are malformed.",
		}),
		Points: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decoded_points_total",
			Help:      "points upserted into the full graph.",
		}),
		Ways: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decoded_ways_total",
			Help:      "ways folded into the full graph.",
		}),
		Edges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decoded_edges_total",
			Help:      "undirected edges added to the full graph.",
		}),
		SelfLoops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discarded_self_loops_total",
			Help:      "way segments dropped because both endpoints are the same point.",
		}),
		FullVertices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "full_graph_vertices",
			Help:      "vertices in the full graph.",
		}),
		UnresolvedPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "full_graph_unresolved_points",
			Help:      "referenced points whose coordinates never appeared in the stream.",
		}),
		ReducedVertices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reduced_graph_vertices",
			Help:      "intersections kept in the reduced graph.",
		}),
		ReducedEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reduced_graph_adjacency_entries",
			Help:      "adjacency entries of the reduced graph.",
		}),
		PersistedDocs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persisted_documents_total",
			Help:      "intersection documents written, by sink.",
		}, []string{"sink"}),
	}

	m.registry.MustRegister(m.Blocks, m.SkippedGroups, m.Points, m.Ways, m.Edges, m.SelfLoops,
		m.FullVertices, m.UnresolvedPoints, m.ReducedVertices, m.ReducedEdges, m.PersistedDocs)
	return m
}

func (m *PipelineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile dumps the registry in the text exposition format, for the node exporter textfile collector.
func (m *PipelineMetrics) WriteToTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.registry)
}
