// Package store records completed summary runs in Postgres.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS summary_runs (
	id                  uuid PRIMARY KEY,
	source              text NOT NULL,
	year                integer,
	total_messages      integer NOT NULL,
	total_conversations integer NOT NULL,
	total_words         integer NOT NULL,
	summary             jsonb NOT NULL,
	created_at          timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS summary_runs_created_at_idx ON summary_runs (created_at DESC);`

// EnsureSchema creates the summary_runs table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
