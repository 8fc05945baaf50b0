package mocks

import (
	"context"

	"weatherops/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTideRepository struct {
	mock.Mock
}

func (m *MockTideRepository) ReplacePoints(ctx context.Context, planID string, points []model.TidePoint) error {
	args := m.Called(ctx, planID, points)
	return args.Error(0)
}

func (m *MockTideRepository) PointsByPlan(ctx context.Context, planID string) ([]model.TidePoint, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TidePoint), args.Error(1)
}

func (m *MockTideRepository) ReplaceWindows(ctx context.Context, planID string, windows []model.TideWindow) error {
	args := m.Called(ctx, planID, windows)
	return args.Error(0)
}

func (m *MockTideRepository) WindowsByPlan(ctx context.Context, planID string) ([]model.TideWindow, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TideWindow), args.Error(1)
}
