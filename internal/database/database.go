package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool interface for database connection pool operations
type Pool interface {
	Ping(ctx context.Context) error
	Close()
}

// PoolConfig sizes the connection pool. Zero values fall back to the
// defaults below.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
	MaxIdle  time.Duration
	MaxLife  time.Duration
}

const (
	defaultMaxConns = 10
	defaultMaxIdle  = 5 * time.Minute
	defaultMaxLife  = 30 * time.Minute
)

// NewPool creates a new PostgreSQL connection pool and verifies it with
// a ping before returning.
func NewPool(ctx context.Context, connString string, pc PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}

	if pc.MaxConns <= 0 {
		pc.MaxConns = defaultMaxConns
	}
	if pc.MinConns <= 0 {
		pc.MinConns = DefaultMinConnections
	}
	if pc.MaxIdle <= 0 {
		pc.MaxIdle = defaultMaxIdle
	}
	if pc.MaxLife <= 0 {
		pc.MaxLife = defaultMaxLife
	}

	config.MaxConns = pc.MaxConns
	config.MinConns = pc.MinConns
	config.MaxConnLifetime = pc.MaxLife
	config.MaxConnIdleTime = pc.MaxIdle

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.Default().Info(LogMsgConnectedToDatabase, "max_conns", pc.MaxConns)
	return pool, nil
}
