package storage

import (
	"context"
	"time"

	"github.com/lintang-b-s/Roadgraphx/pkg/datastructure"
	"github.com/lintang-b-s/Roadgraphx/pkg/metrics"
	"github.com/lintang-b-s/Roadgraphx/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sink is one destination of the finished reduced graph.
type Sink interface {
	Name() string
	// Write returns how many intersections it persisted.
	Write(ctx context.Context, reduced *datastructure.ReducedGraph, docs []IntersectionDocument) (int, error)
}

type storeSink struct {
	store Store
	opts  BulkOptions
}

func NewStoreSink(store Store, opts BulkOptions) Sink {
	return &storeSink{store: store, opts: opts}
}

func (s *storeSink) Name() string {
	return s.store.Name()
}

func (s *storeSink) Write(ctx context.Context, _ *datastructure.ReducedGraph, docs []IntersectionDocument) (int, error) {
	return BulkInsert(ctx, s.store, docs, s.opts)
}

type graphFileSink struct {
	filename string
}

// NewGraphFileSink writes the reduced graph as a bzip2 compressed graph file.
func NewGraphFileSink(filename string) Sink {
	return &graphFileSink{filename: filename}
}

func (s *graphFileSink) Name() string {
	return "graph_file"
}

func (s *graphFileSink) Write(_ context.Context, reduced *datastructure.ReducedGraph, _ []IntersectionDocument) (int, error) {
	if err := reduced.WriteGraph(s.filename); err != nil {
		return 0, err
	}
	return reduced.NumberOfVertices(), nil
}

type geoJSONSink struct {
	filename string
}

func NewGeoJSONSink(filename string) Sink {
	return &geoJSONSink{filename: filename}
}

func (s *geoJSONSink) Name() string {
	return "geojson"
}

func (s *geoJSONSink) Write(_ context.Context, _ *datastructure.ReducedGraph, docs []IntersectionDocument) (int, error) {
	if err := WriteGeoJSON(s.filename, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

type Persister struct {
	logger  *zap.Logger
	metrics *metrics.PipelineMetrics
}

func NewPersister(logger *zap.Logger, m *metrics.PipelineMetrics) *Persister {
	if m == nil {
		m = metrics.NewPipelineMetrics()
	}
	return &Persister{logger: logger, metrics: m}
}

// Persist hands reduced to every sink concurrently. The first failing sink cancels the others.
func (p *Persister) Persist(ctx context.Context, reduced *datastructure.ReducedGraph,
	docs []IntersectionDocument, sinks ...Sink) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, sink := range sinks {
		sink := sink
		g.Go(func() error {
			start := time.Now()
			n, err := sink.Write(ctx, reduced, docs)
			if err != nil {
				p.logger.Error("failed to persist reduced graph", zap.String("sink", sink.Name()), zap.Error(err))
				return util.WrapErrorf(err, util.ErrPersistenceSink, "sink %s", sink.Name())
			}

			p.metrics.PersistedDocs.WithLabelValues(sink.Name()).Add(float64(n))
			p.logger.Info("persisted reduced graph",
				zap.String("sink", sink.Name()),
				zap.Int("intersections", n),
				zap.Duration("took", time.Since(start)))
			return nil
		})
	}
	return g.Wait()
}
