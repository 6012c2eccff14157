package util

import (
	"context"

	"teamhub/team-service/internal/app/team/entity"
)

// SummaryCache интерфейс для кэша сводок обратной связи
// Используется для dependency injection и упрощения тестирования
type SummaryCache interface {
	Get(ctx context.Context, creatorID, receiverID string) (*entity.FeedbackSummary, error)
	Set(ctx context.Context, summary *entity.FeedbackSummary) error
	Invalidate(ctx context.Context, creatorID, receiverID string) error
	Close() error
}
