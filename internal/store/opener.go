package store

import (
	"context"
	"fmt"

	"github.com/tlind-29/dfmload/pkg/dfmload"
)

// Opener implements dfmload.SessionOpener with a pgx pool and a single
// transaction per run.
type Opener struct {
	logger           dfmload.Logger
	connectorFactory func(*dfmload.ConnectionConfig) Connector
}

// NewOpener creates an Opener. Panics if logger is nil.
func NewOpener(logger dfmload.Logger) *Opener {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Opener{
		logger:           logger,
		connectorFactory: func(cfg *dfmload.ConnectionConfig) Connector { return NewStandardConnector(cfg) },
	}
}

// Open connects to the warehouse, acquires one connection for the whole
// batch, and begins the run's transaction. The returned cleanup rolls back
// the transaction if still open, then releases the connection and pool.
func (o *Opener) Open(ctx context.Context, connConfig *dfmload.ConnectionConfig) (dfmload.StoreSession, func(), error) {
	if err := connConfig.Validate(); err != nil {
		return nil, nil, err
	}

	o.logger.Verbose("Connecting to warehouse '%s' at %s:%d", connConfig.Database, connConfig.Host, connConfig.Port)

	connector := o.connectorFactory(connConfig)
	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to acquire connection: %v: %w", err, dfmload.ErrConnectionFailed)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Release()
		pool.Close()
		return nil, nil, fmt.Errorf("failed to begin transaction: %v: %w", err, dfmload.ErrConnectionFailed)
	}

	session := NewTxSession(tx)
	cleanup := func() {
		// Harmless when the harness already committed or rolled back.
		_ = session.Rollback(context.Background())
		conn.Release()
		pool.Close()
	}
	return session, cleanup, nil
}
