package repository

import (
	"context"
	"errors"
	"fmt"

	"teamhub/activity-worker-service/internal/app/activity-worker/entity"
	"teamhub/pkg/metrics"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrDuplicateActivity = errors.New("activity record already consumed")
)

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Insert(ctx context.Context, record *entity.ActivityRecord) error {
	timer := metrics.NewDbTimer("activity-worker", metrics.DbOpInsert, "activity_records")
	defer timer.ObserveDuration()

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateActivity
		}
		metrics.RecordDbError("activity-worker", metrics.DbOpInsert)
		return fmt.Errorf("failed to insert activity record: %w", err)
	}
	return nil
}

func (r *activityRepository) GetBySubject(ctx context.Context, subjectID string, limit int) ([]entity.ActivityRecord, error) {
	timer := metrics.NewDbTimer("activity-worker", metrics.DbOpSelect, "activity_records")
	defer timer.ObserveDuration()

	var records []entity.ActivityRecord
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get activity records: %w", err)
	}
	return records, nil
}

func (r *activityRepository) CountByType(ctx context.Context, eventType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ActivityRecord{}).
		Where("event_type = ?", eventType).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count activity records: %w", err)
	}
	return count, nil
}
