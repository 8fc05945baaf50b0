package mocks

import (
	"context"
	"io"
	"time"

	"weatherops/internal/model"
	"weatherops/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockPlanService struct {
	mock.Mock
}

func (m *MockPlanService) Create(ctx context.Context, in service.CreatePlanInput) (*model.Plan, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *MockPlanService) Get(ctx context.Context, id string) (*model.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

func (m *MockPlanService) List(ctx context.Context, limit, offset int) (*service.PlanListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PlanListResult), args.Error(1)
}

func (m *MockPlanService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPlanService) ImportActivities(ctx context.Context, planID string, activities, constraints io.Reader) ([]*model.Activity, error) {
	args := m.Called(ctx, planID, activities, constraints)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Activity), args.Error(1)
}

func (m *MockPlanService) ImportTide(ctx context.Context, planID string, r io.Reader, slackWidth time.Duration) (*service.TideImportResult, error) {
	args := m.Called(ctx, planID, r, slackWidth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TideImportResult), args.Error(1)
}

func (m *MockPlanService) Windows(ctx context.Context, planID string, horizonDays int) (*service.WindowsResult, error) {
	args := m.Called(ctx, planID, horizonDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WindowsResult), args.Error(1)
}

func (m *MockPlanService) Schedule(ctx context.Context, planID string, in service.ScheduleInput) ([]*model.Activity, error) {
	args := m.Called(ctx, planID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Activity), args.Error(1)
}

func (m *MockPlanService) GetSchedule(ctx context.Context, planID string) ([]*model.Activity, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Activity), args.Error(1)
}

func (m *MockPlanService) CheckWeather(ctx context.Context, planID string, forecast io.Reader) ([]model.WeatherViolation, error) {
	args := m.Called(ctx, planID, forecast)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WeatherViolation), args.Error(1)
}

func (m *MockPlanService) Export(ctx context.Context, planID string, kind model.ArtifactKind, zeroHourID string) (*service.ExportResult, error) {
	args := m.Called(ctx, planID, kind, zeroHourID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

func (m *MockPlanService) GetArtifact(ctx context.Context, id string) (*service.ExportResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
