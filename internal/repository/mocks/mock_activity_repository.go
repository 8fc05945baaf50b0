package mocks

import (
	"context"

	"weatherops/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Replace(ctx context.Context, planID string, activities []*model.Activity) error {
	args := m.Called(ctx, planID, activities)
	return args.Error(0)
}

func (m *MockActivityRepository) ByPlan(ctx context.Context, planID string) ([]*model.Activity, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Activity), args.Error(1)
}

func (m *MockActivityRepository) SaveSchedule(ctx context.Context, planID string, activities []*model.Activity) error {
	args := m.Called(ctx, planID, activities)
	return args.Error(0)
}
