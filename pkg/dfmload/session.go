package dfmload

import "context"

// StoreSession is one open warehouse transaction. All inserts of a run go
// through a single session; the run harness decides commit or rollback.
// Implementations are not safe for concurrent use: the pipeline is strictly
// single-threaded and there is exactly one writer.
type StoreSession interface {
	// ExecuteBatch inserts rows into table with a single multi-row statement
	// (one round trip regardless of row count). Every row must have one value
	// per column. Returns the number of rows inserted.
	ExecuteBatch(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error)

	// ExecuteOne executes a single prepared-style statement with bound
	// parameters. Used for rows carrying embedded semi-structured literals
	// that cannot go through batched binding. Returns rows affected.
	ExecuteOne(ctx context.Context, sql string, args ...interface{}) (int64, error)

	// Commit makes the whole run visible.
	Commit(ctx context.Context) error

	// Rollback discards everything staged in this session.
	// Safe to call after a failed Commit.
	Rollback(ctx context.Context) error
}

// SessionOpener establishes a warehouse connection and opens the single
// transaction a run lives in. The returned cleanup releases the underlying
// connection resources and must be called exactly once; it rolls back the
// transaction if it is still open.
type SessionOpener interface {
	Open(ctx context.Context, connConfig *ConnectionConfig) (StoreSession, func(), error)
}
