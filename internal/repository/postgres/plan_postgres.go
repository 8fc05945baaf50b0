package postgres

import (
	"context"
	"database/sql"

	"weatherops/internal/model"
	"weatherops/internal/repository"
)

// PlanPostgres is a PostgreSQL implementation of repository.PlanRepository
// using database/sql with parameterized queries.
type PlanPostgres struct {
	db *sql.DB
}

// NewPlanPostgres creates a new PlanPostgres repository.
func NewPlanPostgres(db *sql.DB) *PlanPostgres {
	return &PlanPostgres{db: db}
}

var _ repository.PlanRepository = (*PlanPostgres)(nil)

// Create inserts a new plan row and returns the stored record.
func (r *PlanPostgres) Create(ctx context.Context, p *model.Plan) (*model.Plan, error) {
	const q = `
		INSERT INTO plans (id, name, site_name, latitude, longitude, timezone, project_start, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, site_name, latitude, longitude, timezone, project_start, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.Name,
		p.Site.Name,
		p.Site.Latitude,
		p.Site.Longitude,
		p.Site.Timezone,
		p.ProjectStart,
		p.CreatedAt,
	)
	return scanPlan(row)
}

// FindByID fetches a single plan by its ID.
func (r *PlanPostgres) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	const q = `
		SELECT id, name, site_name, latitude, longitude, timezone, project_start, created_at
		FROM plans
		WHERE id = $1
	`
	return scanPlan(r.db.QueryRowContext(ctx, q, id))
}

// List returns plans using LIMIT/OFFSET pagination and a total count.
func (r *PlanPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Plan], error) {
	const qCount = `SELECT COUNT(*) FROM plans`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, name, site_name, latitude, longitude, timezone, project_start, created_at
		FROM plans
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Plan, 0)
	for rows.Next() {
		var p model.Plan
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Site.Name,
			&p.Site.Latitude,
			&p.Site.Longitude,
			&p.Site.Timezone,
			&p.ProjectStart,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Plan]{Items: items, Total: total}, nil
}

// Delete removes a plan by ID. Dependent rows cascade at the schema level.
func (r *PlanPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM plans WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*model.Plan, error) {
	var p model.Plan
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Site.Name,
		&p.Site.Latitude,
		&p.Site.Longitude,
		&p.Site.Timezone,
		&p.ProjectStart,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
