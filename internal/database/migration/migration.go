package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// sentinelTable is checked first; when it exists the schema is considered current.
const sentinelTable = "public.onboarding_submissions"

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_onboarding_submissions",
		SQL: `CREATE TABLE IF NOT EXISTS onboarding_submissions (
  id           UUID        PRIMARY KEY,
  company_name TEXT        NOT NULL,
  folder_id    TEXT        NOT NULL,
  form_data    JSONB       NOT NULL DEFAULT '{}'::jsonb,
  files        JSONB       NOT NULL DEFAULT '[]'::jsonb,
  forwarded    BOOLEAN     NOT NULL DEFAULT false,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_onboarding_submissions_company_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_onboarding_submissions_company_name ON onboarding_submissions (company_name);`,
	},
	{
		Name: "create_index_onboarding_submissions_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_onboarding_submissions_created_at ON onboarding_submissions (created_at);`,
	},
	{
		Name: "create_index_onboarding_submissions_not_forwarded",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_onboarding_submissions_not_forwarded ON onboarding_submissions (created_at) WHERE NOT forwarded;`,
	},
}

// EnsureMigrated checks for the submissions table and creates the schema when it is missing.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))
	start := time.Now()

	log.Info("checking schema", zap.String("event", "db_migration_check"), zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists); err != nil {
		log.Error("sentinel check failed",
			zap.String("event", "db_migration_failed"),
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("schema already exists, skipping migration",
			zap.String("event", "db_migration_skip"),
			zap.String("status", "success"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("migrating", zap.String("event", "db_migration_start"), zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("migration step failed",
				zap.String("event", "db_migration_failed"),
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("migration step applied",
			zap.String("event", "db_migration_step"),
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("migration complete",
		zap.String("event", "db_migration_success"),
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
