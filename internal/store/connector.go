// Package store implements the warehouse side of the pipeline: connection
// establishment with retry on transient failures, and the transactional
// session the loader writes through.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tlind-29/dfmload/internal/retry"
	"github.com/tlind-29/dfmload/pkg/dfmload"
)

// Connection pool configuration constants. The pipeline is a single writer
// holding one connection for the whole batch, so the pool stays small.
const (
	defaultMaxConns        = 2
	defaultMinConns        = 1
	defaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = defaultMaxConns
	poolConfig.MinConns = defaultMinConns
	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
}

// Connector establishes pgx connection pools.
type Connector interface {
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// StandardConnector implements Connector for username/password
// authentication with automatic retry on transient failures.
type StandardConnector struct {
	config        *dfmload.ConnectionConfig
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a StandardConnector with dfmload retry
// defaults: DefaultRetryMaxAttempts attempts, exponential backoff starting at
// DefaultRetryInitialDelay, capped at DefaultRetryMaxDelay.
func NewStandardConnector(config *dfmload.ConnectionConfig) *StandardConnector {
	classifier := retry.NewPostgreSQLErrorClassifier()
	strategy := retry.NewExponentialBackoff(dfmload.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(dfmload.DefaultRetryInitialDelay),
		retry.WithMaxDelay(dfmload.DefaultRetryMaxDelay),
	)

	return &StandardConnector{
		config:        config,
		retryExecutor: retry.NewExecutor(classifier, strategy),
	}
}

// Connect establishes a connection pool, retrying transient failures.
// The pool is pinged once so a failed connection surfaces here, not at the
// first insert.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	connStr := BuildConnectionString(c.config)

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		poolConfig, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}

		configurePool(poolConfig)

		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to %s:%d/%s: %v: %w",
				c.config.Host, c.config.Port, c.config.Database, err, dfmload.ErrConnectionFailed)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			pool = nil
			return fmt.Errorf("failed to connect to %s:%d/%s: %v: %w",
				c.config.Host, c.config.Port, c.config.Database, err, dfmload.ErrConnectionFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}
