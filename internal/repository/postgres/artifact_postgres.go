package postgres

import (
	"context"
	"database/sql"

	"weatherops/internal/model"
	"weatherops/internal/repository"
)

// ArtifactPostgres is a PostgreSQL implementation of
// repository.ArtifactRepository.
type ArtifactPostgres struct {
	db *sql.DB
}

// NewArtifactPostgres creates a new ArtifactPostgres repository.
func NewArtifactPostgres(db *sql.DB) *ArtifactPostgres {
	return &ArtifactPostgres{db: db}
}

var _ repository.ArtifactRepository = (*ArtifactPostgres)(nil)

// Create inserts a new artifact row and returns the stored record.
func (r *ArtifactPostgres) Create(ctx context.Context, a *model.Artifact) (*model.Artifact, error) {
	const q = `
		INSERT INTO artifacts (id, plan_id, kind, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, plan_id, kind, storage_path, size, content_type, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.PlanID,
		string(a.Kind),
		a.StoragePath,
		a.Size,
		a.ContentType,
		a.CreatedAt,
	)
	return scanArtifact(row)
}

// FindByID fetches a single artifact by its ID.
func (r *ArtifactPostgres) FindByID(ctx context.Context, id string) (*model.Artifact, error) {
	const q = `
		SELECT id, plan_id, kind, storage_path, size, content_type, created_at
		FROM artifacts
		WHERE id = $1
	`
	return scanArtifact(r.db.QueryRowContext(ctx, q, id))
}

// ByPlan returns a plan's artifacts newest first.
func (r *ArtifactPostgres) ByPlan(ctx context.Context, planID string) ([]model.Artifact, error) {
	const q = `
		SELECT id, plan_id, kind, storage_path, size, content_type, created_at
		FROM artifacts
		WHERE plan_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Artifact, 0)
	for rows.Next() {
		var (
			a    model.Artifact
			kind string
		)
		if err := rows.Scan(&a.ID, &a.PlanID, &kind, &a.StoragePath, &a.Size, &a.ContentType, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Kind = model.ArtifactKind(kind)
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanArtifact(row rowScanner) (*model.Artifact, error) {
	var (
		a    model.Artifact
		kind string
	)
	if err := row.Scan(&a.ID, &a.PlanID, &kind, &a.StoragePath, &a.Size, &a.ContentType, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Kind = model.ArtifactKind(kind)
	return &a, nil
}
