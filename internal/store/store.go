// Package store persists archived conversations to Postgres. It is the
// persistence collaborator the pipeline hands its final turn sequence to:
// it accepts a canonical turn list plus attribution metadata and returns a
// stored record with an identifier and share URL.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool    *pgxpool.Pool
	baseURL string
}

// New connects to the database. baseURL is the public prefix share URLs
// are built from.
func New(ctx context.Context, databaseURL, baseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// ShareURL builds the public URL for a stored conversation id.
func (s *Store) ShareURL(id string) string {
	return s.baseURL + "/c/" + id
}
