package postgres

import (
	"context"
	"database/sql"

	"weatherops/internal/model"
	"weatherops/internal/repository"
)

// TidePostgres is a PostgreSQL implementation of repository.TideRepository.
type TidePostgres struct {
	db *sql.DB
}

// NewTidePostgres creates a new TidePostgres repository.
func NewTidePostgres(db *sql.DB) *TidePostgres {
	return &TidePostgres{db: db}
}

var _ repository.TideRepository = (*TidePostgres)(nil)

// ReplacePoints swaps the plan's tide height series in one transaction.
func (r *TidePostgres) ReplacePoints(ctx context.Context, planID string, points []model.TidePoint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM tide_points WHERE plan_id = $1`, planID); err != nil {
		return err
	}
	const q = `INSERT INTO tide_points (plan_id, ts, height) VALUES ($1, $2, $3)`
	for _, p := range points {
		if _, err := tx.ExecContext(ctx, q, planID, p.Time, p.Height); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// PointsByPlan returns the tide series in time order.
func (r *TidePostgres) PointsByPlan(ctx context.Context, planID string) ([]model.TidePoint, error) {
	const q = `SELECT ts, height FROM tide_points WHERE plan_id = $1 ORDER BY ts`
	rows, err := r.db.QueryContext(ctx, q, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TidePoint, 0)
	for rows.Next() {
		var p model.TidePoint
		if err := rows.Scan(&p.Time, &p.Height); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ReplaceWindows swaps the plan's slack windows in one transaction.
func (r *TidePostgres) ReplaceWindows(ctx context.Context, planID string, windows []model.TideWindow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM tide_windows WHERE plan_id = $1`, planID); err != nil {
		return err
	}
	const q = `INSERT INTO tide_windows (plan_id, kind, start_at, end_at) VALUES ($1, $2, $3, $4)`
	for _, w := range windows {
		if _, err := tx.ExecContext(ctx, q, planID, string(w.Type), w.Start, w.End); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// WindowsByPlan returns the plan's slack windows in time order.
func (r *TidePostgres) WindowsByPlan(ctx context.Context, planID string) ([]model.TideWindow, error) {
	const q = `SELECT kind, start_at, end_at FROM tide_windows WHERE plan_id = $1 ORDER BY start_at`
	rows, err := r.db.QueryContext(ctx, q, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TideWindow, 0)
	for rows.Next() {
		var (
			w    model.TideWindow
			kind string
		)
		if err := rows.Scan(&kind, &w.Start, &w.End); err != nil {
			return nil, err
		}
		w.Type = model.TideWindowType(kind)
		out = append(out, w)
	}
	return out, rows.Err()
}
