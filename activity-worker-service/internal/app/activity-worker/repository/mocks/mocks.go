package mocks

import (
	"context"

	"teamhub/activity-worker-service/internal/app/activity-worker/entity"

	"github.com/stretchr/testify/mock"
)

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Insert(ctx context.Context, record *entity.ActivityRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockActivityRepository) GetBySubject(ctx context.Context, subjectID string, limit int) ([]entity.ActivityRecord, error) {
	args := m.Called(ctx, subjectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ActivityRecord), args.Error(1)
}

func (m *MockActivityRepository) CountByType(ctx context.Context, eventType string) (int64, error) {
	args := m.Called(ctx, eventType)
	return args.Get(0).(int64), args.Error(1)
}

type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) IncrementUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRepository) GetUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterRepository) ResetUnread(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
