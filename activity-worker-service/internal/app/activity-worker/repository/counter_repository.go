package repository

import (
	"context"
	"fmt"

	"teamhub/activity-worker-service/internal/app/activity-worker/entity"

	"github.com/redis/go-redis/v9"
)

type counterRepository struct {
	client *redis.Client
}

func NewCounterRepository(client *redis.Client) CounterRepository {
	return &counterRepository{client: client}
}

func (r *counterRepository) IncrementUnread(ctx context.Context, userID string) (int64, error) {
	value, err := r.client.Incr(ctx, entity.UnreadCounterKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment unread counter: %w", err)
	}
	return value, nil
}

func (r *counterRepository) GetUnread(ctx context.Context, userID string) (int64, error) {
	value, err := r.client.Get(ctx, entity.UnreadCounterKey(userID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get unread counter: %w", err)
	}
	return value, nil
}

func (r *counterRepository) ResetUnread(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, entity.UnreadCounterKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to reset unread counter: %w", err)
	}
	return nil
}
