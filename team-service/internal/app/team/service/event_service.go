package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"teamhub/pkg/metrics"
	"teamhub/team-service/internal/app/team/entity"
	"teamhub/team-service/internal/app/team/infrastructure"
	"teamhub/team-service/internal/app/team/repository"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidStartTime = errors.New("invalid event start time")
	ErrNotEventOwner    = errors.New("only the event creator or admin can delete the event")
)

// EventService обрабатывает события клуба и каскад их удаления
type EventService struct {
	eventRepo        repository.EventRepository
	feedbackRepo     repository.FeedbackRepository
	notificationRepo repository.NotificationRepository
	summaries        SummaryRecomputer
	kafkaProducer    infrastructure.MessagePublisher
}

// NewEventService создает новый сервис событий с внедрением зависимостей
func NewEventService(
	eventRepo repository.EventRepository,
	feedbackRepo repository.FeedbackRepository,
	notificationRepo repository.NotificationRepository,
	summaries SummaryRecomputer,
	kafkaProducer infrastructure.MessagePublisher,
) *EventService {
	return &EventService{
		eventRepo:        eventRepo,
		feedbackRepo:     feedbackRepo,
		notificationRepo: notificationRepo,
		summaries:        summaries,
		kafkaProducer:    kafkaProducer,
	}
}

// CreateEvent создает событие и уведомляет заявленных игроков
func (s *EventService) CreateEvent(ctx context.Context, creatorID string, req *entity.CreateEventRequest) (*entity.Event, error) {
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, ErrInvalidStartTime
	}

	event := &entity.Event{
		Title:     req.Title,
		Type:      req.Type,
		CreatedBy: creatorID,
		Players:   req.Players,
		StartsAt:  startsAt,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	// Уведомления игрокам: событие уже создано, отказы не критичны
	for _, playerID := range event.Players {
		notification := &entity.Notification{
			UserID:     playerID,
			Type:       entity.NotificationTypeEvent,
			ActionLink: event.ID.Hex(),
			Section:    "events",
			Message:    "You have been enrolled in a new event",
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			fmt.Printf("failed to create event notification: %v\n", err)
			continue
		}
		metrics.NotificationsCreated.WithLabelValues(entity.NotificationTypeEvent).Inc()
	}

	return event, nil
}

// GetEvent получает событие по ID
func (s *EventService) GetEvent(ctx context.Context, eventID string) (*entity.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// GetEvents получает все события клуба
func (s *EventService) GetEvents(ctx context.Context) ([]entity.Event, error) {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	return events, nil
}

// DeleteEvent удаляет событие со всеми зависимыми данными
// Порядок жёсткий: снимок пар ДО удаления записей, пересчёт - после
// 1. Снимок записей обратной связи события и уникальных пар из них
// 2. Удаление записей обратной связи
// 3. Удаление всех уведомлений, ссылающихся на событие
// 4. Удаление документа события
// 5. Best-effort пересчёт каждой пары из снимка ровно один раз
// 6. Событие EVENT_DELETED в Kafka
func (s *EventService) DeleteEvent(ctx context.Context, eventID, userID, role string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to get event: %w", err)
	}

	if event.CreatedBy != userID && role != entity.RoleAdmin {
		return ErrNotEventOwner
	}

	records, err := s.feedbackRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to snapshot event feedback: %w", err)
	}
	pairs := DistinctPairs(records)

	if _, err := s.feedbackRepo.DeleteByEventID(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event feedback: %w", err)
	}

	filter := entity.NotificationFilter{ActionLink: eventID}
	if _, err := s.notificationRepo.DeleteMany(ctx, filter); err != nil {
		fmt.Printf("failed to delete event notifications: %v\n", err)
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	// Ноль записей - ноль пересчётов
	s.summaries.RecomputePairs(ctx, pairs, "event_deleted")

	s.publishTeamEvent(ctx, entity.TeamEvent{
		EventType:  entity.TeamEventEventDeleted,
		ActorID:    userID,
		ActionLink: eventID,
		Timestamp:  time.Now(),
	})

	return nil
}

func (s *EventService) publishTeamEvent(ctx context.Context, event entity.TeamEvent) {
	eventData, err := json.Marshal(event)
	if err != nil {
		fmt.Printf("failed to marshal team event: %v\n", err)
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.ActionLink, eventData); err != nil {
		fmt.Printf("failed to publish team event: %v\n", err)
	}
}
