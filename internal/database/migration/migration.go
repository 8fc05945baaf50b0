package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_plans",
		SQL: `CREATE TABLE IF NOT EXISTS plans (
  id            UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  name          TEXT             NOT NULL,
  site_name     TEXT             NOT NULL,
  latitude      DOUBLE PRECISION NOT NULL CHECK (latitude BETWEEN -90 AND 90),
  longitude     DOUBLE PRECISION NOT NULL CHECK (longitude BETWEEN -180 AND 180),
  timezone      TEXT             NOT NULL,
  project_start TIMESTAMPTZ      NOT NULL,
  created_at    TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_activities",
		SQL: `CREATE TABLE IF NOT EXISTS activities (
  plan_id           UUID             NOT NULL REFERENCES plans (id) ON DELETE CASCADE,
  id                TEXT             NOT NULL,
  seq               INT              NOT NULL,
  name              TEXT             NOT NULL,
  description       TEXT             NOT NULL DEFAULT '',
  predecessors      TEXT             NOT NULL DEFAULT '',
  duration_hours    DOUBLE PRECISION NOT NULL DEFAULT 0,
  duration_ref      TEXT             NOT NULL DEFAULT '',
  group_name        TEXT             NOT NULL DEFAULT '',
  daylight_required BOOLEAN          NOT NULL DEFAULT FALSE,
  tide_requirement  TEXT             NOT NULL DEFAULT '',
  max_wind_speed    DOUBLE PRECISION,
  max_wave_height   DOUBLE PRECISION,
  max_wave_period   DOUBLE PRECISION,
  max_tidal_current DOUBLE PRECISION,
  min_tidal_level   DOUBLE PRECISION,
  min_visibility    DOUBLE PRECISION,
  start_at          TIMESTAMPTZ,
  end_at            TIMESTAMPTZ,
  earliest_start    TIMESTAMPTZ,
  latest_end        TIMESTAMPTZ,
  float_hours       DOUBLE PRECISION,
  critical          BOOLEAN          NOT NULL DEFAULT FALSE,
  PRIMARY KEY (plan_id, id)
);`,
	},
	{
		Name: "create_index_activities_plan_seq",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_activities_plan_seq ON activities (plan_id, seq);`,
	},
	{
		Name: "create_table_tide_points",
		SQL: `CREATE TABLE IF NOT EXISTS tide_points (
  plan_id UUID             NOT NULL REFERENCES plans (id) ON DELETE CASCADE,
  ts      TIMESTAMPTZ      NOT NULL,
  height  DOUBLE PRECISION NOT NULL,
  PRIMARY KEY (plan_id, ts)
);`,
	},
	{
		Name: "create_table_tide_windows",
		SQL: `CREATE TABLE IF NOT EXISTS tide_windows (
  plan_id  UUID        NOT NULL REFERENCES plans (id) ON DELETE CASCADE,
  kind     TEXT        NOT NULL CHECK (kind IN ('HW', 'LW')),
  start_at TIMESTAMPTZ NOT NULL,
  end_at   TIMESTAMPTZ NOT NULL,
  PRIMARY KEY (plan_id, kind, start_at)
);`,
	},
	{
		Name: "create_table_artifacts",
		SQL: `CREATE TABLE IF NOT EXISTS artifacts (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  plan_id      UUID        NOT NULL REFERENCES plans (id) ON DELETE CASCADE,
  kind         TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_artifacts_plan",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_artifacts_plan ON artifacts (plan_id, created_at);`,
	},
}

// EnsureMigrated checks for the 'plans' sentinel table and runs the schema
// steps if it is missing. Steps are idempotent, so a partially applied
// schema is completed on the next start.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	start := time.Now()

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.plans') IS NOT NULL").Scan(&exists); err != nil {
		log.Error().Err(err).Str("component", "database").Msg("migration sentinel check failed")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}
	if exists {
		log.Info().Str("component", "database").
			Dur("duration", time.Since(start)).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("component", "database").Msg("running schema migration")
	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().Err(err).
				Str("component", "database").
				Str("migration_step", step.Name).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Debug().Str("component", "database").
			Str("migration_step", step.Name).
			Dur("duration", time.Since(stepStart)).
			Msg("migration step applied")
	}

	log.Info().Str("component", "database").
		Dur("duration", time.Since(start)).
		Msg("schema migration complete")
	return nil
}
