package postgres

import (
	"context"
	"database/sql"
	"strings"

	"weatherops/internal/model"
	"weatherops/internal/repository"
)

// ActivityPostgres is a PostgreSQL implementation of
// repository.ActivityRepository. Predecessor lists are stored as a
// comma-joined column; successors are derived at load time by the planner
// and never stored.
type ActivityPostgres struct {
	db *sql.DB
}

// NewActivityPostgres creates a new ActivityPostgres repository.
func NewActivityPostgres(db *sql.DB) *ActivityPostgres {
	return &ActivityPostgres{db: db}
}

var _ repository.ActivityRepository = (*ActivityPostgres)(nil)

const activityColumns = `id, name, description, predecessors, duration_hours, duration_ref,
		group_name, daylight_required, tide_requirement,
		max_wind_speed, max_wave_height, max_wave_period, max_tidal_current, min_tidal_level, min_visibility,
		start_at, end_at, earliest_start, latest_end, float_hours, critical`

// Replace swaps the plan's activity set inside a single transaction.
func (r *ActivityPostgres) Replace(ctx context.Context, planID string, activities []*model.Activity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE plan_id = $1`, planID); err != nil {
		return err
	}

	const q = `
		INSERT INTO activities (
			plan_id, seq, id, name, description, predecessors, duration_hours, duration_ref,
			group_name, daylight_required, tide_requirement,
			max_wind_speed, max_wave_height, max_wave_period, max_tidal_current, min_tidal_level, min_visibility
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	for seq, a := range activities {
		if _, err := tx.ExecContext(ctx, q,
			planID,
			seq,
			a.ID,
			a.Name,
			a.Description,
			strings.Join(a.Predecessors, ","),
			a.DurationHours,
			a.DurationRef,
			a.Group,
			a.DaylightRequired,
			string(a.TideRequirement),
			a.Weather.MaxWindSpeed,
			a.Weather.MaxWaveHeight,
			a.Weather.MaxWavePeriod,
			a.Weather.MaxTidalCurrent,
			a.Weather.MinTidalLevel,
			a.Weather.MinVisibility,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ByPlan returns the plan's activities in sheet order.
func (r *ActivityPostgres) ByPlan(ctx context.Context, planID string) ([]*model.Activity, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE plan_id = $1
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, q, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveSchedule writes the computed schedule columns for each activity.
// Duration is included because until-reference activities derive theirs
// during scheduling.
func (r *ActivityPostgres) SaveSchedule(ctx context.Context, planID string, activities []*model.Activity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	const q = `
		UPDATE activities
		SET start_at = $3, end_at = $4, earliest_start = $5, latest_end = $6,
		    float_hours = $7, critical = $8, duration_hours = $9
		WHERE plan_id = $1 AND id = $2
	`
	for _, a := range activities {
		if _, err := tx.ExecContext(ctx, q,
			planID,
			a.ID,
			a.Start,
			a.End,
			a.EarliestStart,
			a.LatestEnd,
			a.FloatHours,
			a.Critical,
			a.DurationHours,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func scanActivity(rows *sql.Rows) (*model.Activity, error) {
	var (
		a     model.Activity
		preds string
		tide  string
	)
	if err := rows.Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&preds,
		&a.DurationHours,
		&a.DurationRef,
		&a.Group,
		&a.DaylightRequired,
		&tide,
		&a.Weather.MaxWindSpeed,
		&a.Weather.MaxWaveHeight,
		&a.Weather.MaxWavePeriod,
		&a.Weather.MaxTidalCurrent,
		&a.Weather.MinTidalLevel,
		&a.Weather.MinVisibility,
		&a.Start,
		&a.End,
		&a.EarliestStart,
		&a.LatestEnd,
		&a.FloatHours,
		&a.Critical,
	); err != nil {
		return nil, err
	}
	a.TideRequirement = model.TideRequirement(tide)
	if preds != "" {
		a.Predecessors = strings.Split(preds, ",")
	}
	return &a, nil
}
