package database

import (
	"context"
	"fmt"
)

const engineReportsSchema = `
CREATE TABLE IF NOT EXISTS engine_reports (
	run_id               UUID PRIMARY KEY,
	created_at           TIMESTAMPTZ NOT NULL,
	kelly_fraction       DOUBLE PRECISION NOT NULL,
	optimal_f            DOUBLE PRECISION NOT NULL,
	twr                  DOUBLE PRECISION NOT NULL,
	recommended_fraction DOUBLE PRECISION NOT NULL,
	pass_rate            DOUBLE PRECISION NOT NULL,
	metrics              JSONB NOT NULL,
	recommendation       JSONB NOT NULL,
	warnings             JSONB
);
CREATE INDEX IF NOT EXISTS idx_engine_reports_created_at ON engine_reports (created_at DESC);
`

// EnsureSchema creates the report tables when they do not exist yet. The
// CLI calls this before persisting; a dedicated migration tool is not
// warranted for a single-table store.
func EnsureSchema(ctx context.Context, db *DB) error {
	if _, err := db.pool.Exec(ctx, engineReportsSchema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
