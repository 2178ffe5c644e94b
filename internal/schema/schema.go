// Package schema carries the warehouse DDL and applies it.
package schema

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// DDL returns the CREATE TABLE statements for all target tables.
func DDL() string {
	return schemaSQL
}

// Apply creates the target tables if they do not exist.
func Apply(ctx context.Context, conn *pgxpool.Conn) error {
	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
