package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the slice of pgxpool.Pool the store uses: one connection acquired
// per statement, released when the call returns. pgxmock satisfies it in
// tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type Store struct {
	db DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: pool}, nil
}

// NewWithDB wraps an existing pool or a mock.
func NewWithDB(db DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() {
	s.db.Close()
}

// InitSchema creates the logs table if it does not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS logs (
			id VARCHAR(255) PRIMARY KEY,
			date VARCHAR(50) NOT NULL,
			food TEXT NOT NULL,
			calories INTEGER NOT NULL DEFAULT 0,
			protein INTEGER NOT NULL DEFAULT 0,
			carbs INTEGER NOT NULL DEFAULT 0,
			fats INTEGER NOT NULL DEFAULT 0,
			water_ml INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("create logs table: %w", err)
	}
	return nil
}
