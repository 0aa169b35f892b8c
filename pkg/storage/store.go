package storage

import (
	"context"

	"github.com/lintang-b-s/Roadgraphx/pkg"
	"github.com/lintang-b-s/Roadgraphx/pkg/util"
	"golang.org/x/time/rate"
)

// Store is a document database the intersections are written to.
type Store interface {
	Name() string
	InsertMany(ctx context.Context, docs []IntersectionDocument) error
	Close() error
}

type BulkOptions struct {
	BatchSize int
	// RatePerSecond caps the number of batches sent per second, zero means unlimited.
	RatePerSecond float64
}

// BulkInsert writes docs to store in batches and returns how many documents were written before any error.
func BulkInsert(ctx context.Context, store Store, docs []IntersectionDocument, opts BulkOptions) (int, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = pkg.DEFAULT_BULK_BATCH_SIZE
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}

	written := 0
	for start := 0; start < len(docs); start += batchSize {
		if err := limiter.Wait(ctx); err != nil {
			return written, err
		}

		end := min(start+batchSize, len(docs))
		if err := store.InsertMany(ctx, docs[start:end]); err != nil {
			return written, util.WrapErrorf(err, util.ErrPersistenceSink,
				"%s: insert documents %d to %d", store.Name(), start, end)
		}
		written = end
	}
	return written, nil
}
