package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the embedded schema. Statements use IF NOT EXISTS so
// re-running is safe. Requires a connection opened with multi statements
// enabled, which Open does.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("db.ExecContext(schema) > %w", err)
	}
	return nil
}
