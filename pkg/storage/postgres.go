package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
)

// PostgresStore bulk loads intersections with COPY, neighbors are stored as jsonb.
type PostgresStore struct {
	db    *sql.DB
	table string
}

func OpenPostgresStore(ctx context.Context, dsn, table string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	s := &PostgresStore{db: db, table: table}
	if err := s.createTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) createTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGINT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		h3_cell TEXT NOT NULL,
		run_id TEXT NOT NULL,
		neighbors JSONB NOT NULL,
		PRIMARY KEY (run_id, id)
	)`, pq.QuoteIdentifier(s.table)))
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresStore) Name() string {
	return "postgres"
}

// InsertMany copies docs in a single transaction.
func (s *PostgresStore) InsertMany(ctx context.Context, docs []IntersectionDocument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(s.table, "id", "lat", "lon", "h3_cell", "run_id", "neighbors"))
	if err != nil {
		return err
	}

	for _, doc := range docs {
		neighbors, err := neighborsJSON(doc.Neighbors)
		if err != nil {
			stmt.Close()
			return err
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.Lat, doc.Lon, doc.Cell, doc.RunID, neighbors); err != nil {
			stmt.Close()
			return err
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return err
	}
	if err := stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func neighborsJSON(neighbors []NeighborDocument) (string, error) {
	if neighbors == nil {
		neighbors = []NeighborDocument{}
	}
	bb, err := json.Marshal(neighbors)
	if err != nil {
		return "", err
	}
	return string(bb), nil
}
