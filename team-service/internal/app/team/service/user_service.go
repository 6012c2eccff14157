package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"teamhub/team-service/internal/app/team/entity"
	"teamhub/team-service/internal/app/team/infrastructure"
	"teamhub/team-service/internal/app/team/repository"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
)

// UserService обрабатывает пользователей клуба и каскад их удаления
type UserService struct {
	userRepo         repository.UserRepository
	feedbackRepo     repository.FeedbackRepository
	notificationRepo repository.NotificationRepository
	summaries        SummaryRecomputer
	kafkaProducer    infrastructure.MessagePublisher
}

// NewUserService создает новый сервис пользователей с внедрением зависимостей
func NewUserService(
	userRepo repository.UserRepository,
	feedbackRepo repository.FeedbackRepository,
	notificationRepo repository.NotificationRepository,
	summaries SummaryRecomputer,
	kafkaProducer infrastructure.MessagePublisher,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		feedbackRepo:     feedbackRepo,
		notificationRepo: notificationRepo,
		summaries:        summaries,
		kafkaProducer:    kafkaProducer,
	}
}

// CreateUser создает нового пользователя клуба
func (s *UserService) CreateUser(ctx context.Context, req *entity.CreateUserRequest) (*entity.User, error) {
	user := &entity.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser получает пользователя по ID
func (s *UserService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetUsers получает всех пользователей клуба
func (s *UserService) GetUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	return users, nil
}

// DeleteUser удаляет пользователя со всеми зависимыми данными
// Порядок жёсткий: снимок пар и событий ДО удаления записей, пересчёт - после
// 1. Снимок записей, где пользователь автор ИЛИ получатель; уникальные пары
//    и уникальные ID событий из снимка
// 2. Удаление записей обратной связи
// 3. Удаление feedback-уведомлений, ссылающихся на события из снимка
// 4. Удаление всех уведомлений, адресованных пользователю
// 5. Удаление документа пользователя
// 6. Best-effort пересчёт каждой пары из снимка
// 7. Событие USER_DELETED в Kafka
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	records, err := s.feedbackRepo.GetByParticipant(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to snapshot user feedback: %w", err)
	}
	pairs := DistinctPairs(records)
	eventIDs := distinctEventIDs(records)

	if _, err := s.feedbackRepo.DeleteByParticipant(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user feedback: %w", err)
	}

	if len(eventIDs) > 0 {
		filter := entity.NotificationFilter{
			Type:        entity.NotificationTypeFeedback,
			ActionLinks: eventIDs,
		}
		if _, err := s.notificationRepo.DeleteMany(ctx, filter); err != nil {
			fmt.Printf("failed to delete feedback notifications: %v\n", err)
		}
	}

	if _, err := s.notificationRepo.DeleteMany(ctx, entity.NotificationFilter{UserID: userID}); err != nil {
		fmt.Printf("failed to delete user notifications: %v\n", err)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.summaries.RecomputePairs(ctx, pairs, "user_deleted")

	s.publishTeamEvent(ctx, entity.TeamEvent{
		EventType: entity.TeamEventUserDeleted,
		SubjectID: userID,
		Timestamp: time.Now(),
	})

	return nil
}

func (s *UserService) publishTeamEvent(ctx context.Context, event entity.TeamEvent) {
	eventData, err := json.Marshal(event)
	if err != nil {
		fmt.Printf("failed to marshal team event: %v\n", err)
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.SubjectID, eventData); err != nil {
		fmt.Printf("failed to publish team event: %v\n", err)
	}
}

// distinctEventIDs извлекает уникальные ID событий из снимка записей
func distinctEventIDs(records []entity.Feedback) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))

	for _, record := range records {
		if _, ok := seen[record.EventID]; ok {
			continue
		}
		seen[record.EventID] = struct{}{}
		ids = append(ids, record.EventID)
	}

	return ids
}
