package repository

import (
	"context"

	"weatherops/internal/model"
)

// PlanRepository defines persistence for plans. Strictly SQL access, no
// business logic.
type PlanRepository interface {
	// Create inserts a new plan record and returns the stored row.
	Create(ctx context.Context, p *model.Plan) (*model.Plan, error)

	// FindByID returns a plan by its ID.
	FindByID(ctx context.Context, id string) (*model.Plan, error)

	// List returns a page of plans newest first, plus the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Plan], error)

	// Delete removes a plan by ID; dependent rows cascade. Returns nil if
	// the row did not exist.
	Delete(ctx context.Context, id string) error
}

// ActivityRepository persists a plan's activity set and its computed
// schedule.
type ActivityRepository interface {
	// Replace swaps the plan's entire activity set in one transaction.
	// Any previously computed schedule is discarded with the old rows.
	Replace(ctx context.Context, planID string, activities []*model.Activity) error

	// ByPlan returns the plan's activities in their sheet order.
	ByPlan(ctx context.Context, planID string) ([]*model.Activity, error)

	// SaveSchedule writes the computed columns (start, end, earliest
	// start, latest end, float, critical, derived duration) for each
	// activity.
	SaveSchedule(ctx context.Context, planID string, activities []*model.Activity) error
}

// TideRepository persists tide height series and the slack windows derived
// from them.
type TideRepository interface {
	ReplacePoints(ctx context.Context, planID string, points []model.TidePoint) error
	PointsByPlan(ctx context.Context, planID string) ([]model.TidePoint, error)
	ReplaceWindows(ctx context.Context, planID string, windows []model.TideWindow) error
	WindowsByPlan(ctx context.Context, planID string) ([]model.TideWindow, error)
}

// ArtifactRepository persists export artifact metadata; the bytes live in
// object storage.
type ArtifactRepository interface {
	Create(ctx context.Context, a *model.Artifact) (*model.Artifact, error)
	FindByID(ctx context.Context, id string) (*model.Artifact, error)
	ByPlan(ctx context.Context, planID string) ([]model.Artifact, error)
}
