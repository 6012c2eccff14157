package repository

import (
	"context"

	"teamhub/activity-worker-service/internal/app/activity-worker/entity"
)

// ActivityRepository журнал активности в PostgreSQL
type ActivityRepository interface {
	Insert(ctx context.Context, record *entity.ActivityRecord) error
	GetBySubject(ctx context.Context, subjectID string, limit int) ([]entity.ActivityRecord, error)
	CountByType(ctx context.Context, eventType string) (int64, error)
}

// CounterRepository счётчики непрочитанной активности в Redis
type CounterRepository interface {
	IncrementUnread(ctx context.Context, userID string) (int64, error)
	GetUnread(ctx context.Context, userID string) (int64, error)
	ResetUnread(ctx context.Context, userID string) error
}
