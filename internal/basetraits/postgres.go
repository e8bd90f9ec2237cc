package basetraits

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore shares cached base traits between processes, e.g. Lambda
// instances that cannot share memory.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and creates the cache table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS respec_base_traits (
		token_id   TEXT PRIMARY KEY,
		traits     INTEGER[] NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, tokenID string) ([]int, bool, error) {
	var raw []int32
	err := s.pool.QueryRow(ctx,
		`SELECT traits FROM respec_base_traits WHERE token_id = $1`, tokenID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	v := make([]int, len(raw))
	for i, n := range raw {
		v[i] = int(n)
	}
	return v, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, tokenID string, traits []int) error {
	raw := make([]int32, len(traits))
	for i, n := range traits {
		raw[i] = int32(n)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO respec_base_traits (token_id, traits, fetched_at) VALUES ($1, $2, now())
		 ON CONFLICT (token_id) DO UPDATE SET traits = EXCLUDED.traits, fetched_at = EXCLUDED.fetched_at`,
		tokenID, raw)
	return err
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
