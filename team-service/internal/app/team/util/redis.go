package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"teamhub/pkg/metrics"
	"teamhub/team-service/internal/app/team/entity"

	"github.com/redis/go-redis/v9"
)

const summaryCacheTTL = 10 * time.Minute

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

func summaryCacheKey(creatorID, receiverID string) string {
	return fmt.Sprintf("summary:%s:%s", creatorID, receiverID)
}

// Get возвращает сводку пары из кэша, nil при промахе
func (r *RedisClient) Get(ctx context.Context, creatorID, receiverID string) (*entity.FeedbackSummary, error) {
	timer := metrics.NewRedisTimer("team-service", metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, summaryCacheKey(creatorID, receiverID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		metrics.RecordRedisError("team-service", metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get summary from cache: %w", err)
	}

	var summary entity.FeedbackSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return &summary, nil
}

func (r *RedisClient) Set(ctx context.Context, summary *entity.FeedbackSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	timer := metrics.NewRedisTimer("team-service", metrics.RedisOpSet)
	defer timer.ObserveDuration()

	key := summaryCacheKey(summary.CreatorID, summary.ReceiverID)
	if err := r.client.Set(ctx, key, data, summaryCacheTTL).Err(); err != nil {
		metrics.RecordRedisError("team-service", metrics.RedisOpSet)
		return fmt.Errorf("failed to set summary in cache: %w", err)
	}

	return nil
}

// Invalidate сбрасывает кэш пары после пересчёта сводки
func (r *RedisClient) Invalidate(ctx context.Context, creatorID, receiverID string) error {
	timer := metrics.NewRedisTimer("team-service", metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, summaryCacheKey(creatorID, receiverID)).Err(); err != nil {
		metrics.RecordRedisError("team-service", metrics.RedisOpDel)
		return fmt.Errorf("failed to delete summary from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
