package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"log"
)

//go:embed schema.sql
var schema string

// migrationLockID serializes concurrent Migrate calls across instances.
const migrationLockID = 7_420_311

// Migrate applies the schema. Every statement is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	err := db.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLockID); err != nil {
			return fmt.Errorf("failed to acquire migration lock: %w", err)
		}
		if _, err := db.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Println("Database schema is up to date")
	return nil
}
