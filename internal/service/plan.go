package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"weatherops/internal/config"
	"weatherops/internal/ingest"
	"weatherops/internal/model"
	"weatherops/internal/planner"
	"weatherops/internal/repository"
	"weatherops/internal/solar"
	"weatherops/internal/storage"
	"weatherops/internal/tide"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrNoActivities     = errors.New("plan has no activities")
	ErrNoSchedule       = errors.New("plan has no computed schedule")
	ErrBadTimezone      = errors.New("unknown timezone")

	// ErrInvalidInput wraps user-correctable errors (malformed CSV,
	// inconsistent activity networks, bad scheduling parameters) so the
	// transport layer can surface them instead of masking them as
	// internal failures.
	ErrInvalidInput = errors.New("invalid input")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// CreatePlanInput carries a new plan's fields. Field validation happens at
// the transport layer; the service checks semantic constraints (loadable
// timezone).
type CreatePlanInput struct {
	Name         string
	SiteName     string
	Latitude     float64
	Longitude    float64
	Timezone     string
	ProjectStart time.Time
}

// ScheduleInput selects the scheduling mode. Forward mode schedules from
// the plan's project start; anchor mode pins one activity and schedules the
// network around it.
type ScheduleInput struct {
	Mode        string
	AnchorID    string
	AnchorStart time.Time
	// HorizonDays overrides the configured daylight horizon when positive.
	HorizonDays int
}

const (
	ModeForward = "forward"
	ModeAnchor  = "anchor"
)

// PlanListResult is the service-level DTO for paginated plans.
type PlanListResult struct {
	Items []model.Plan `json:"data"`
	Total int          `json:"total"`
}

// TideImportResult reports what a tide upload produced.
type TideImportResult struct {
	Points  int                `json:"points"`
	Windows []model.TideWindow `json:"windows"`
}

// WindowsResult carries the admissible windows for a plan's horizon.
type WindowsResult struct {
	Daylight []model.Window     `json:"daylight"`
	Tide     []model.TideWindow `json:"tide"`
}

// PlanService defines the use cases for building and scheduling plans.
type PlanService interface {
	Create(ctx context.Context, in CreatePlanInput) (*model.Plan, error)
	Get(ctx context.Context, id string) (*model.Plan, error)
	List(ctx context.Context, limit, offset int) (*PlanListResult, error)
	// Delete removes the plan, its rows, and any exported artifacts from
	// object storage.
	Delete(ctx context.Context, id string) error

	// ImportActivities replaces the plan's activity set from the activity
	// and constraint CSV tables. The network is validated before anything
	// is persisted.
	ImportActivities(ctx context.Context, planID string, activities, constraints io.Reader) ([]*model.Activity, error)

	// ImportTide replaces the plan's tide series and derives slack
	// windows of the given total width (zero means the configured
	// default).
	ImportTide(ctx context.Context, planID string, r io.Reader, slackWidth time.Duration) (*TideImportResult, error)

	// Windows returns the daylight and tidal windows over the plan
	// horizon.
	Windows(ctx context.Context, planID string, horizonDays int) (*WindowsResult, error)

	// Schedule computes and persists the plan's schedule.
	Schedule(ctx context.Context, planID string, in ScheduleInput) ([]*model.Activity, error)

	// GetSchedule returns the last computed schedule.
	GetSchedule(ctx context.Context, planID string) ([]*model.Activity, error)

	// CheckWeather evaluates the computed schedule against a forecast CSV.
	CheckWeather(ctx context.Context, planID string, forecast io.Reader) ([]model.WeatherViolation, error)

	// Export renders the schedule, stores the artifact, and returns its
	// metadata with a presigned download URL.
	Export(ctx context.Context, planID string, kind model.ArtifactKind, zeroHourID string) (*ExportResult, error)

	// GetArtifact returns artifact metadata with a fresh presigned URL.
	GetArtifact(ctx context.Context, id string) (*ExportResult, error)
}

// planService is the concrete PlanService.
type planService struct {
	plans     repository.PlanRepository
	acts      repository.ActivityRepository
	tides     repository.TideRepository
	artifacts repository.ArtifactRepository
	store     storage.Storage
	cfg       config.PlannerConfig
	now       func() time.Time
}

// NewPlanService constructs a PlanService.
func NewPlanService(
	plans repository.PlanRepository,
	acts repository.ActivityRepository,
	tides repository.TideRepository,
	artifacts repository.ArtifactRepository,
	store storage.Storage,
	cfg config.PlannerConfig,
) PlanService {
	return &planService{
		plans:     plans,
		acts:      acts,
		tides:     tides,
		artifacts: artifacts,
		store:     store,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *planService) Create(ctx context.Context, in CreatePlanInput) (*model.Plan, error) {
	if _, err := time.LoadLocation(in.Timezone); err != nil {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrBadTimezone, in.Timezone)
	}
	p := &model.Plan{
		ID:   uuid.New().String(),
		Name: in.Name,
		Site: model.Site{
			Name:      in.SiteName,
			Latitude:  in.Latitude,
			Longitude: in.Longitude,
			Timezone:  in.Timezone,
		},
		ProjectStart: in.ProjectStart.UTC().Truncate(time.Minute),
		CreatedAt:    s.now().UTC(),
	}
	stored, err := s.plans.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return stored, nil
}

func (s *planService) Get(ctx context.Context, id string) (*model.Plan, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.plans.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *planService) List(ctx context.Context, limit, offset int) (*PlanListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.plans.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &PlanListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *planService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	// Remove exported objects first so DB rows are not lost while their
	// objects linger. Artifact rows themselves cascade with the plan.
	arts, err := s.artifacts.ByPlan(ctx, id)
	if err != nil {
		return err
	}
	for _, a := range arts {
		if err := s.store.Delete(ctx, a.StoragePath); err != nil {
			return fmt.Errorf("delete artifact object %s: %w", a.StoragePath, err)
		}
	}
	return s.plans.Delete(ctx, id)
}

func (s *planService) ImportActivities(ctx context.Context, planID string, activities, constraints io.Reader) ([]*model.Activity, error) {
	if _, err := s.Get(ctx, planID); err != nil {
		return nil, err
	}
	acts, err := ingest.Activities(activities, constraints)
	if err != nil {
		return nil, invalid(err)
	}
	// Validate the network (duplicates, unknown references, cycles)
	// before touching the database. This also links successors for the
	// response.
	if _, err := planner.New(acts, planner.Options{}); err != nil {
		return nil, invalid(err)
	}
	if err := s.acts.Replace(ctx, planID, acts); err != nil {
		return nil, fmt.Errorf("replace activities: %w", err)
	}
	return acts, nil
}

func (s *planService) ImportTide(ctx context.Context, planID string, r io.Reader, slackWidth time.Duration) (*TideImportResult, error) {
	if _, err := s.Get(ctx, planID); err != nil {
		return nil, err
	}
	points, err := ingest.TideSeries(r)
	if err != nil {
		return nil, invalid(err)
	}
	if slackWidth <= 0 {
		slackWidth = time.Duration(s.cfg.SlackMinutes) * time.Minute
	}
	windows, err := tide.SlackWindows(points, slackWidth)
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.tides.ReplacePoints(ctx, planID, points); err != nil {
		return nil, fmt.Errorf("replace tide points: %w", err)
	}
	if err := s.tides.ReplaceWindows(ctx, planID, windows); err != nil {
		return nil, fmt.Errorf("replace tide windows: %w", err)
	}
	return &TideImportResult{Points: len(points), Windows: windows}, nil
}

func (s *planService) Windows(ctx context.Context, planID string, horizonDays int) (*WindowsResult, error) {
	p, err := s.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if horizonDays <= 0 {
		horizonDays = s.cfg.HorizonDays
	}
	daylight := solar.DaylightWindows(
		p.Site.Latitude, p.Site.Longitude,
		p.ProjectStart, p.ProjectStart.AddDate(0, 0, horizonDays),
	)
	tw, err := s.tides.WindowsByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return &WindowsResult{Daylight: daylight, Tide: tw}, nil
}

func (s *planService) Schedule(ctx context.Context, planID string, in ScheduleInput) ([]*model.Activity, error) {
	p, err := s.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	acts, err := s.acts.ByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if len(acts) == 0 {
		return nil, ErrNoActivities
	}

	horizon := in.HorizonDays
	if horizon <= 0 {
		horizon = s.cfg.HorizonDays
	}
	daylight := solar.DaylightWindows(
		p.Site.Latitude, p.Site.Longitude,
		p.ProjectStart, p.ProjectStart.AddDate(0, 0, horizon),
	)
	tw, err := s.tides.WindowsByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	sched, err := planner.New(acts, planner.Options{
		ProjectStart: p.ProjectStart,
		Daylight:     daylight,
		Tide:         tw,
		Now:          s.now,
	})
	if err != nil {
		return nil, invalid(err)
	}
	switch in.Mode {
	case ModeForward, "":
		err = sched.Forward()
	case ModeAnchor:
		err = sched.AroundAnchor(in.AnchorID, in.AnchorStart)
	default:
		err = fmt.Errorf("unknown schedule mode %q", in.Mode)
	}
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.acts.SaveSchedule(ctx, planID, acts); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}
	return acts, nil
}

func (s *planService) GetSchedule(ctx context.Context, planID string) ([]*model.Activity, error) {
	if _, err := s.Get(ctx, planID); err != nil {
		return nil, err
	}
	acts, err := s.acts.ByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if len(acts) == 0 {
		return nil, ErrNoActivities
	}
	for _, a := range acts {
		if !a.Scheduled() {
			return nil, ErrNoSchedule
		}
	}
	linkSuccessors(acts)
	return acts, nil
}

func (s *planService) CheckWeather(ctx context.Context, planID string, forecast io.Reader) ([]model.WeatherViolation, error) {
	acts, err := s.GetSchedule(ctx, planID)
	if err != nil {
		return nil, err
	}
	points, err := ingest.ForecastSeries(forecast)
	if err != nil {
		return nil, invalid(err)
	}
	return planner.CheckWeather(acts, points), nil
}

// linkSuccessors rebuilds successor lists from predecessor lists. Stored
// rows carry predecessors only.
func linkSuccessors(acts []*model.Activity) {
	byID := make(map[string]*model.Activity, len(acts))
	for _, a := range acts {
		a.Successors = nil
		byID[a.ID] = a
	}
	for _, a := range acts {
		for _, pid := range a.Predecessors {
			if p, ok := byID[pid]; ok {
				p.Successors = append(p.Successors, a.ID)
			}
		}
	}
}
