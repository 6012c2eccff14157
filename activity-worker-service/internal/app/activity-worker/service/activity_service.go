package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamhub/activity-worker-service/internal/app/activity-worker/entity"
	"teamhub/activity-worker-service/internal/app/activity-worker/repository"
	"teamhub/pkg/metrics"

	"github.com/google/uuid"
)

type ActivityService struct {
	activityRepo repository.ActivityRepository
	counterRepo  repository.CounterRepository
}

func NewActivityService(activityRepo repository.ActivityRepository, counterRepo repository.CounterRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		counterRepo:  counterRepo,
	}
}

// ProcessTeamEvent записывает событие в журнал и обновляет счётчики непрочитанного.
// Повторная доставка того же события определяется по уникальному ключу и
// завершается без ошибки, чтобы consumer закоммитил offset.
func (s *ActivityService) ProcessTeamEvent(ctx context.Context, event *entity.TeamEvent) error {
	start := time.Now()

	record := &entity.ActivityRecord{
		ID:         uuid.New(),
		EventKey:   event.Key(),
		EventType:  event.EventType,
		ActorID:    event.ActorID,
		SubjectID:  event.SubjectID,
		ActionLink: event.ActionLink,
		OccurredAt: event.Timestamp,
	}

	if err := s.activityRepo.Insert(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateActivity) {
			metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "duplicate").Inc()
			return nil
		}
		metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "failed").Inc()
		return fmt.Errorf("failed to process team event: %w", err)
	}

	s.updateCounters(ctx, event)

	metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "success").Inc()
	metrics.WorkerProcessingDuration.Observe(time.Since(start).Seconds())
	return nil
}

// Счётчики вторичны по отношению к журналу: их сбой не должен
// блокировать commit, иначе запись задублируется при повторе
func (s *ActivityService) updateCounters(ctx context.Context, event *entity.TeamEvent) {
	switch event.EventType {
	case entity.EventTypeFeedbackCreated, entity.EventTypeAnnouncementCreated:
		if event.SubjectID == "" {
			return
		}
		if _, err := s.counterRepo.IncrementUnread(ctx, event.SubjectID); err != nil {
			fmt.Printf("Warning: failed to increment unread counter for user %s: %v\n", event.SubjectID, err)
		}
	case entity.EventTypeUserDeleted:
		if err := s.counterRepo.ResetUnread(ctx, event.SubjectID); err != nil {
			fmt.Printf("Warning: failed to reset unread counter for user %s: %v\n", event.SubjectID, err)
		}
	}
}
