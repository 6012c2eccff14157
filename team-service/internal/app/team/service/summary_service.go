package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamhub/pkg/metrics"
	"teamhub/team-service/internal/app/team/entity"
	"teamhub/team-service/internal/app/team/infrastructure"
	"teamhub/team-service/internal/app/team/repository"
	"teamhub/team-service/internal/app/team/util"
)

var (
	ErrSummaryNotFound = errors.New("feedback summary not found")
)

// RecomputeStatus результат пересчёта сводки пары
type RecomputeStatus string

const (
	SummaryUpdated RecomputeStatus = "updated"
	SummaryDeleted RecomputeStatus = "deleted"
)

// Фиксированные тексты сводки при деградации генератора
const (
	summaryNoComments  = "No specific observations."
	summaryUnavailable = "Summary temporarily unavailable."
)

// FeedbackPair пара (автор, игрок), для которой нужно пересчитать сводку
type FeedbackPair struct {
	CreatorID  string
	ReceiverID string
}

// DistinctPairs извлекает уникальные пары из снимка записей обратной связи
// Снимок делается до удаления, порядок пар соответствует порядку первого вхождения
func DistinctPairs(records []entity.Feedback) []FeedbackPair {
	seen := make(map[FeedbackPair]struct{}, len(records))
	pairs := make([]FeedbackPair, 0, len(records))

	for _, record := range records {
		pair := FeedbackPair{CreatorID: record.CreatorID, ReceiverID: record.ReceiverID}
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		pairs = append(pairs, pair)
	}

	return pairs
}

// SummaryService пересчитывает и отдает сводки обратной связи
// Единственная точка, которая пишет в коллекцию feedback_summaries
type SummaryService struct {
	feedbackRepo repository.FeedbackRepository
	summaryRepo  repository.SummaryRepository
	generator    infrastructure.SummaryGenerator
	cache        util.SummaryCache
}

// NewSummaryService создает новый сервис сводок с внедрением зависимостей
func NewSummaryService(
	feedbackRepo repository.FeedbackRepository,
	summaryRepo repository.SummaryRepository,
	generator infrastructure.SummaryGenerator,
	cache util.SummaryCache,
) *SummaryService {
	return &SummaryService{
		feedbackRepo: feedbackRepo,
		summaryRepo:  summaryRepo,
		generator:    generator,
		cache:        cache,
	}
}

// Recompute полностью пересчитывает сводку пары из актуальных записей
// Повторный вызов без изменения записей дает тот же документ (идемпотентность)
// Ошибки хранилища возвращаются наверх, отказ генератора - нет
func (s *SummaryService) Recompute(ctx context.Context, creatorID, receiverID string) (RecomputeStatus, error) {
	records, err := s.feedbackRepo.GetByPair(ctx, creatorID, receiverID)
	if err != nil {
		return "", fmt.Errorf("failed to load feedback for recompute: %w", err)
	}

	// Записей не осталось - сводка удаляется целиком, не обнуляется
	if len(records) == 0 {
		if err := s.summaryRepo.DeleteByPair(ctx, creatorID, receiverID); err != nil {
			return "", fmt.Errorf("failed to delete summary: %w", err)
		}
		s.invalidateCache(ctx, creatorID, receiverID)
		metrics.SummaryRecomputes.WithLabelValues(string(SummaryDeleted)).Inc()
		return SummaryDeleted, nil
	}

	total := 0
	comments := make([]string, 0, len(records))
	for _, record := range records {
		total += entity.SatisfactionScore(record.Satisfaction)
		if record.Comment != "" {
			comments = append(comments, record.Comment)
		}
	}
	average := float64(total) / float64(len(records))

	summaryText := s.generateText(ctx, comments)

	summary := &entity.FeedbackSummary{
		CreatorID:           creatorID,
		ReceiverID:          receiverID,
		AverageSatisfaction: average,
		Summary:             summaryText,
		FeedbackCount:       len(records),
		LastUpdated:         time.Now(),
	}

	if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
		return "", fmt.Errorf("failed to upsert summary: %w", err)
	}

	s.invalidateCache(ctx, creatorID, receiverID)
	metrics.SummaryRecomputes.WithLabelValues(string(SummaryUpdated)).Inc()

	return SummaryUpdated, nil
}

// RecomputePairs пересчитывает сводки набора пар после каскадного удаления
// Best-effort: упавшая пара логируется и считается, остальные пересчитываются
func (s *SummaryService) RecomputePairs(ctx context.Context, pairs []FeedbackPair, trigger string) {
	for _, pair := range pairs {
		if _, err := s.Recompute(ctx, pair.CreatorID, pair.ReceiverID); err != nil {
			metrics.CascadePairFailures.WithLabelValues(trigger).Inc()
			fmt.Printf("failed to recompute summary for pair (%s, %s): %v\n",
				pair.CreatorID, pair.ReceiverID, err)
		}
	}
}

// GetSummary получает сводку пары, сначала из Redis, потом из MongoDB
func (s *SummaryService) GetSummary(ctx context.Context, creatorID, receiverID string) (*entity.FeedbackSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, creatorID, receiverID)
		if err != nil {
			// Проблемы с кэшем не мешают чтению из основного хранилища
			fmt.Printf("failed to read summary cache: %v\n", err)
		}
		if cached != nil {
			metrics.RecordCacheHit("team-service", "summary")
			return cached, nil
		}
		metrics.RecordCacheMiss("team-service", "summary")
	}

	summary, err := s.summaryRepo.GetByPair(ctx, creatorID, receiverID)
	if err != nil {
		if errors.Is(err, repository.ErrSummaryNotFound) {
			return nil, ErrSummaryNotFound
		}
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			fmt.Printf("failed to cache summary: %v\n", err)
		}
	}

	return summary, nil
}

// GetSummariesForReceiver получает все сводки об игроке от разных авторов
func (s *SummaryService) GetSummariesForReceiver(ctx context.Context, receiverID string) ([]entity.FeedbackSummary, error) {
	summaries, err := s.summaryRepo.GetByReceiverID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get summaries: %w", err)
	}

	return summaries, nil
}

// generateText строит текст сводки по комментариям
// Отказ генератора деградирует в фиксированную заглушку и не прерывает пересчёт
func (s *SummaryService) generateText(ctx context.Context, comments []string) string {
	if len(comments) == 0 {
		return summaryNoComments
	}

	text, err := s.generator.Generate(ctx, comments)
	if err != nil {
		metrics.SummaryGenerationFailures.Inc()
		fmt.Printf("summary generation failed, using fallback: %v\n", err)
		return summaryUnavailable
	}

	return text
}

func (s *SummaryService) invalidateCache(ctx context.Context, creatorID, receiverID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, creatorID, receiverID); err != nil {
		fmt.Printf("failed to invalidate summary cache: %v\n", err)
	}
}
