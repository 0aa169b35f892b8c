package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/lintang-b-s/Roadgraphx/pkg/datastructure"
	"github.com/lintang-b-s/Roadgraphx/pkg/geo"
	"github.com/lintang-b-s/Roadgraphx/pkg/metrics"
	"github.com/lintang-b-s/Roadgraphx/pkg/util"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func scenarioReduced() *datastructure.ReducedGraph {
	b := datastructure.NewVertex(2, 0, 1)
	b.AppendNeighbor(datastructure.NewNeighbor(1, geo.CalculateHaversineDistance(0, 1, 0, 0)))
	b.AppendNeighbor(datastructure.NewNeighbor(3, geo.CalculateHaversineDistance(0, 1, 0, 2)))
	b.AppendNeighbor(datastructure.NewNeighbor(4, geo.CalculateHaversineDistance(0, 1, 1, 1)))

	e := datastructure.NewVertex(10, -7.5502, 110.8231)
	e.AppendNeighbor(datastructure.NewNeighbor(11, 0.12))
	e.AppendNeighbor(datastructure.NewNeighbor(12, 0.3))
	e.AppendNeighbor(datastructure.NewNeighbor(13, 0.05))

	reduced := datastructure.NewReducedGraph()
	reduced.AddVertex(e)
	reduced.AddVertex(b)
	return reduced
}

func TestNewDocuments(t *testing.T) {
	docs := NewDocuments(scenarioReduced(), "run-1", 9)
	require.Len(t, docs, 2)

	assert.Equal(t, int64(2), docs[0].ID)
	assert.Equal(t, int64(10), docs[1].ID)
	assert.Equal(t, "2", docs[0].Key())
	assert.Equal(t, "run-1", docs[0].RunID)
	assert.InDelta(t, 1.0, docs[0].Lon, 1e-9)
	assert.Len(t, docs[0].Neighbors, 3)
	assert.Equal(t, NeighborDocument{ID: 1, Distance: geo.CalculateHaversineDistance(0, 1, 0, 0)}, docs[0].Neighbors[0])

	assert.Len(t, docs[0].Cell, 15)
	assert.NotEqual(t, docs[0].Cell, docs[1].Cell)

	again := NewDocuments(scenarioReduced(), "run-1", 9)
	assert.Equal(t, docs, again)
}

func TestBadgerStore(t *testing.T) {
	store, err := OpenBadgerStore("", zaptest.NewLogger(t))
	require.NoError(t, err)
	defer store.Close()

	docs := NewDocuments(scenarioReduced(), "run-1", 9)
	require.NoError(t, store.InsertMany(context.Background(), docs))

	for _, want := range docs {
		got, err := store.Get(want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = store.Get(999)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

type memoryStore struct {
	mu      sync.Mutex
	batches [][]IntersectionDocument
	failOn  int
}

func (s *memoryStore) Name() string {
	return "memory"
}

func (s *memoryStore) InsertMany(_ context.Context, docs []IntersectionDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn > 0 && len(s.batches)+1 == s.failOn {
		return errors.New("connection reset")
	}
	s.batches = append(s.batches, docs)
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}

func manyDocuments(n int) []IntersectionDocument {
	docs := make([]IntersectionDocument, n)
	for i := range docs {
		docs[i] = IntersectionDocument{ID: int64(i)}
	}
	return docs
}

func TestBulkInsertBatches(t *testing.T) {
	store := &memoryStore{}
	written, err := BulkInsert(context.Background(), store, manyDocuments(25), BulkOptions{BatchSize: 10})
	require.NoError(t, err)

	assert.Equal(t, 25, written)
	require.Len(t, store.batches, 3)
	assert.Len(t, store.batches[0], 10)
	assert.Len(t, store.batches[2], 5)
	assert.Equal(t, int64(24), store.batches[2][4].ID)
}

func TestBulkInsertStopsOnError(t *testing.T) {
	store := &memoryStore{failOn: 2}
	written, err := BulkInsert(context.Background(), store, manyDocuments(25), BulkOptions{BatchSize: 10, RatePerSecond: 1000})

	assert.Equal(t, 10, written)
	assert.Equal(t, util.ErrPersistenceSink, util.ErrorCode(err))
}

func TestBulkInsertCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &memoryStore{}
	written, err := BulkInsert(ctx, store, manyDocuments(5), BulkOptions{BatchSize: 1, RatePerSecond: 1})
	assert.Error(t, err)
	assert.Equal(t, 0, written)
	assert.Empty(t, store.batches)
}

func TestWriteGeoJSON(t *testing.T) {
	docs := NewDocuments(scenarioReduced(), "run-1", 9)
	filename := filepath.Join(t.TempDir(), "intersections.geojson")
	require.NoError(t, WriteGeoJSON(filename, docs))

	bb, err := os.ReadFile(filename)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(bb)
	require.NoError(t, err)

	require.Len(t, fc.Features, 2)
	point, ok := fc.Features[0].Geometry.(orb.Point)
	require.True(t, ok)
	assert.InDelta(t, 1.0, point.Lon(), 1e-9)
	assert.InDelta(t, 0.0, point.Lat(), 1e-9)
	assert.Equal(t, 3.0, fc.Features[0].Properties.MustFloat64("degree"))
	assert.Equal(t, docs[0].Cell, fc.Features[0].Properties.MustString("h3_cell"))
}

type failingSink struct{}

func (failingSink) Name() string {
	return "failing"
}

func (failingSink) Write(context.Context, *datastructure.ReducedGraph, []IntersectionDocument) (int, error) {
	return 0, errors.New("disk full")
}

func TestPersist(t *testing.T) {
	reduced := scenarioReduced()
	docs := NewDocuments(reduced, "run-1", 9)
	dir := t.TempDir()

	m := metrics.NewPipelineMetrics()
	p := NewPersister(zaptest.NewLogger(t), m)
	store := &memoryStore{}

	err := p.Persist(context.Background(), reduced, docs,
		NewStoreSink(store, BulkOptions{BatchSize: 1}),
		NewGraphFileSink(filepath.Join(dir, "reduced.graph")),
		NewGeoJSONSink(filepath.Join(dir, "reduced.geojson")))
	require.NoError(t, err)

	assert.Len(t, store.batches, 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PersistedDocs.WithLabelValues("memory")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PersistedDocs.WithLabelValues("graph_file")))

	readBack, _, err := datastructure.ReadGraph(filepath.Join(dir, "reduced.graph"))
	require.NoError(t, err)
	assert.Equal(t, reduced.Intersections(), readBack.Intersections())
}

func TestPersistReportsFailingSink(t *testing.T) {
	reduced := scenarioReduced()
	p := NewPersister(zaptest.NewLogger(t), nil)

	err := p.Persist(context.Background(), reduced, NewDocuments(reduced, "run-1", 9),
		NewGeoJSONSink(filepath.Join(t.TempDir(), "reduced.geojson")), failingSink{})
	require.Error(t, err)
	assert.Equal(t, util.ErrPersistenceSink, util.ErrorCode(err))
}

func TestNeighborsJSON(t *testing.T) {
	s, err := neighborsJSON([]NeighborDocument{{ID: 1, Distance: 0.5}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"distance":0.5}]`, s)

	s, err = neighborsJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	store, err := OpenPostgresStore(ctx, dsn, "roadgraphx_test_intersections")
	require.NoError(t, err)
	defer store.Close()

	docs := NewDocuments(scenarioReduced(), uuid.New().String(), 9)
	require.NoError(t, store.InsertMany(ctx, docs))
}
