package extractor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lintang-b-s/Roadgraphx/pkg"
	"github.com/lintang-b-s/Roadgraphx/pkg/metrics"
	"github.com/lintang-b-s/Roadgraphx/pkg/osmparser"
	preprocessor "github.com/lintang-b-s/Roadgraphx/pkg/preprocessor"
	"github.com/lintang-b-s/Roadgraphx/pkg/storage"
	"github.com/lintang-b-s/Roadgraphx/pkg/util"
	"go.uber.org/zap"
)

type Result struct {
	RunID     string
	Parse     osmparser.ParseStats
	Reduction preprocessor.ReductionStats
	Took      time.Duration
}

// Extractor runs one pbf file through parsing, reduction and persistence.
type Extractor struct {
	cfg     util.ExtractorConfig
	logger  *zap.Logger
	metrics *metrics.PipelineMetrics
}

func NewExtractor(cfg util.ExtractorConfig, logger *zap.Logger) *Extractor {
	return &Extractor{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewPipelineMetrics(),
	}
}

func (e *Extractor) Metrics() *metrics.PipelineMetrics {
	return e.metrics
}

func (e *Extractor) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.New().String()}
	e.logger.Info("starting extraction", zap.String("run_id", res.RunID), zap.String("map_file", e.cfg.MapFile),
		zap.String("engine", e.cfg.ParserEngine))

	parser := osmparser.NewOSMParser(e.logger, e.metrics, e.cfg.ProgressEvery)
	full, parseStats, err := parser.ParseFile(ctx, e.cfg.MapFile, pkg.ParserEngine(e.cfg.ParserEngine))
	parser.Close()
	res.Parse = parseStats
	if err != nil {
		return res, err
	}

	reduced, reductionStats := preprocessor.NewPreprocessor(e.logger, e.metrics).PreProcessing(full)
	res.Reduction = reductionStats

	docs := storage.NewDocuments(reduced, res.RunID, e.cfg.H3Resolution)

	sinks, closeSinks, err := e.openSinks(ctx)
	if err != nil {
		return res, err
	}
	err = storage.NewPersister(e.logger, e.metrics).Persist(ctx, reduced, docs, sinks...)
	err = errors.Join(err, closeSinks())
	if err != nil {
		return res, err
	}

	if e.cfg.MetricsTextfile != "" {
		if err := e.metrics.WriteToTextfile(e.cfg.MetricsTextfile); err != nil {
			return res, err
		}
	}

	res.Took = time.Since(start)
	e.logger.Info("extraction done", zap.String("run_id", res.RunID),
		zap.Int("intersections", reductionStats.Intersections), zap.Duration("took", res.Took))
	return res, nil
}

// openSinks opens every sink that is configured. The returned func closes the stores that were opened.
func (e *Extractor) openSinks(ctx context.Context) ([]storage.Sink, func() error, error) {
	var (
		sinks  []storage.Sink
		stores []storage.Store
	)
	closeStores := func() error {
		var errs []error
		for _, s := range stores {
			errs = append(errs, s.Close())
		}
		return errors.Join(errs...)
	}
	bulkOpts := storage.BulkOptions{BatchSize: e.cfg.BulkBatchSize, RatePerSecond: e.cfg.BulkRateLimit}

	if e.cfg.OutputGraphFile != "" {
		sinks = append(sinks, storage.NewGraphFileSink(e.cfg.OutputGraphFile))
	}
	if e.cfg.GeoJSONFile != "" {
		sinks = append(sinks, storage.NewGeoJSONSink(e.cfg.GeoJSONFile))
	}
	if e.cfg.BadgerDir != "" {
		store, err := storage.OpenBadgerStore(e.cfg.BadgerDir, e.logger)
		if err != nil {
			return nil, nil, errors.Join(err, closeStores())
		}
		stores = append(stores, store)
	}
	if e.cfg.FirestoreProject != "" {
		client, err := storage.NewFirestoreClient(ctx, e.cfg.FirestoreProject, e.logger)
		if err != nil {
			return nil, nil, errors.Join(err, closeStores())
		}
		stores = append(stores, storage.NewFirestoreStore(client, e.cfg.FirestoreCollection))
	}
	if e.cfg.PostgresDSN != "" {
		store, err := storage.OpenPostgresStore(ctx, e.cfg.PostgresDSN, e.cfg.PostgresTable)
		if err != nil {
			return nil, nil, errors.Join(err, closeStores())
		}
		stores = append(stores, store)
	}

	for _, s := range stores {
		sinks = append(sinks, storage.NewStoreSink(s, bulkOpts))
	}
	if len(sinks) == 0 {
		e.logger.Warn("no output configured, the reduced graph is discarded")
	}
	return sinks, closeStores, nil
}
