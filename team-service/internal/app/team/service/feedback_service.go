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
	// Ошибки бизнес-логики для обработки в handlers
	ErrFeedbackNotFound  = errors.New("feedback not found")
	ErrNotEventCreator   = errors.New("only the event creator can manage feedback")
	ErrPlayerNotEnrolled = errors.New("player is not enrolled in the event")
	ErrDuplicateFeedback = errors.New("feedback already exists for this event and player")
)

// FeedbackService обрабатывает жизненный цикл обратной связи
// Каждое изменение записей завершается пересчётом сводки затронутой пары
type FeedbackService struct {
	feedbackRepo     repository.FeedbackRepository
	eventRepo        repository.EventRepository
	notificationRepo repository.NotificationRepository
	summaries        SummaryRecomputer
	kafkaProducer    infrastructure.MessagePublisher
}

// NewFeedbackService создает новый сервис обратной связи с внедрением зависимостей
func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	eventRepo repository.EventRepository,
	notificationRepo repository.NotificationRepository,
	summaries SummaryRecomputer,
	kafkaProducer infrastructure.MessagePublisher,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepo:     feedbackRepo,
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		summaries:        summaries,
		kafkaProducer:    kafkaProducer,
	}
}

// CreateFeedback создает запись обратной связи и запускает каскад
// 1. Проверяет, что автор - создатель события, а игрок заявлен на него
// 2. Сохраняет запись (дубликат по (событие, игрок) отклоняется)
// 3. Создает уведомление игроку - ошибка логируется и не прерывает каскад
// 4. Пересчитывает сводку пары - ошибка возвращается наверх
// 5. Отправляет событие FEEDBACK_CREATED в Kafka
func (s *FeedbackService) CreateFeedback(ctx context.Context, creatorID string, req *entity.CreateFeedbackRequest) (*entity.Feedback, error) {
	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if event.CreatedBy != creatorID {
		return nil, ErrNotEventCreator
	}

	if !isEnrolled(event, req.ReceiverID) {
		return nil, ErrPlayerNotEnrolled
	}

	feedback := &entity.Feedback{
		EventID:      req.EventID,
		CreatorID:    creatorID,
		ReceiverID:   req.ReceiverID,
		Satisfaction: req.Satisfaction,
		Comment:      req.Comment,
	}

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		if errors.Is(err, repository.ErrDuplicateFeedback) {
			return nil, ErrDuplicateFeedback
		}
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	metrics.FeedbackCreated.WithLabelValues(feedback.Satisfaction).Inc()

	// Уведомление игроку: запись уже создана, отказ уведомления не критичен
	notification := &entity.Notification{
		UserID:     feedback.ReceiverID,
		Type:       entity.NotificationTypeFeedback,
		ActionLink: feedback.EventID,
		Section:    "feedback",
		Message:    "You have received new feedback",
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		fmt.Printf("failed to create feedback notification: %v\n", err)
	} else {
		metrics.NotificationsCreated.WithLabelValues(entity.NotificationTypeFeedback).Inc()
	}

	// Сводка обязана сойтись с записями: ошибка пересчёта возвращается наверх
	if _, err := s.summaries.Recompute(ctx, feedback.CreatorID, feedback.ReceiverID); err != nil {
		return nil, fmt.Errorf("feedback created but summary recompute failed: %w", err)
	}

	s.publishTeamEvent(ctx, entity.TeamEvent{
		EventType:  entity.TeamEventFeedbackCreated,
		ActorID:    feedback.CreatorID,
		SubjectID:  feedback.ReceiverID,
		ActionLink: feedback.EventID,
		Timestamp:  time.Now(),
	})

	return feedback, nil
}

// DeleteFeedback удаляет запись обратной связи и запускает каскад
// Удалять может только автор записи
func (s *FeedbackService) DeleteFeedback(ctx context.Context, feedbackID, userID string) error {
	feedback, err := s.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, repository.ErrFeedbackNotFound) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("failed to get feedback: %w", err)
	}

	if feedback.CreatorID != userID {
		return ErrNotEventCreator
	}

	if err := s.feedbackRepo.Delete(ctx, feedbackID); err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	// Подчищаем уведомления, созданные этой записью
	filter := entity.NotificationFilter{
		UserID:     feedback.ReceiverID,
		Type:       entity.NotificationTypeFeedback,
		ActionLink: feedback.EventID,
	}
	if _, err := s.notificationRepo.DeleteMany(ctx, filter); err != nil {
		fmt.Printf("failed to delete feedback notifications: %v\n", err)
	}

	if _, err := s.summaries.Recompute(ctx, feedback.CreatorID, feedback.ReceiverID); err != nil {
		return fmt.Errorf("feedback deleted but summary recompute failed: %w", err)
	}

	s.publishTeamEvent(ctx, entity.TeamEvent{
		EventType:  entity.TeamEventFeedbackDeleted,
		ActorID:    feedback.CreatorID,
		SubjectID:  feedback.ReceiverID,
		ActionLink: feedback.EventID,
		Timestamp:  time.Now(),
	})

	return nil
}

// GetFeedbackByEvent получает все записи обратной связи по событию
func (s *FeedbackService) GetFeedbackByEvent(ctx context.Context, eventID string) ([]entity.Feedback, error) {
	feedback, err := s.feedbackRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return feedback, nil
}

// GetFeedbackForReceiver получает все записи обратной связи об игроке
func (s *FeedbackService) GetFeedbackForReceiver(ctx context.Context, receiverID string) ([]entity.Feedback, error) {
	feedback, err := s.feedbackRepo.GetByReceiverID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return feedback, nil
}

// publishTeamEvent отправляет доменное событие в Kafka
// Fire-and-forget: отказ Kafka логируется и не ломает основной путь
func (s *FeedbackService) publishTeamEvent(ctx context.Context, event entity.TeamEvent) {
	eventData, err := json.Marshal(event)
	if err != nil {
		fmt.Printf("failed to marshal team event: %v\n", err)
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.SubjectID, eventData); err != nil {
		fmt.Printf("failed to publish team event: %v\n", err)
	}
}

func isEnrolled(event *entity.Event, playerID string) bool {
	for _, id := range event.Players {
		if id == playerID {
			return true
		}
	}
	return false
}
