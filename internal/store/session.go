package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tlind-29/dfmload/internal/sqltext"
	"github.com/tlind-29/dfmload/pkg/dfmload"
)

// TxSession implements dfmload.StoreSession over one open pgx transaction.
// Not safe for concurrent use; the pipeline has exactly one writer.
type TxSession struct {
	tx pgx.Tx
}

// NewTxSession wraps an open transaction. Panics if tx is nil.
func NewTxSession(tx pgx.Tx) *TxSession {
	if tx == nil {
		panic("tx cannot be nil")
	}
	return &TxSession{tx: tx}
}

// ExecuteBatch inserts all rows with a single multi-row INSERT statement.
func (s *TxSession) ExecuteBatch(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	sql, err := sqltext.MultiRowInsert(table, columns, len(rows))
	if err != nil {
		return 0, fmt.Errorf("build batch insert for %s: %w", table, err)
	}

	args := make([]interface{}, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("batch insert for %s: row %d has %d values, want %d", table, i, len(row), len(columns))
		}
		args = append(args, row...)
	}

	tag, err := s.tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("batch insert into %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

// ExecuteOne executes a single statement with bound parameters.
func (s *TxSession) ExecuteOne(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	tag, err := s.tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("execute %s: %w", preview(sql), err)
	}
	return tag.RowsAffected(), nil
}

// Commit commits the transaction.
func (s *TxSession) Commit(ctx context.Context) error {
	if err := s.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback discards the transaction. Calling it after Commit, or twice, is a
// no-op so the harness can always roll back on the error path.
func (s *TxSession) Rollback(ctx context.Context) error {
	err := s.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// preview truncates statement text for error messages so a failed multi-row
// insert does not flood the console.
func preview(sql string) string {
	if len(sql) <= dfmload.MaxErrorPreviewLength {
		return sql
	}
	return sql[:dfmload.MaxErrorPreviewLength] + "..."
}
