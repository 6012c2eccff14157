package service

import (
	"context"
	"errors"
	"fmt"

	"teamhub/team-service/internal/app/team/entity"
	"teamhub/team-service/internal/app/team/repository"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// NotificationService отдает уведомления пользователю
// Создание уведомлений разбросано по каскадам, здесь только чтение и отметка
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService создает новый сервис уведомлений
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// GetNotifications получает уведомления пользователя, новые сверху
func (s *NotificationService) GetNotifications(ctx context.Context, userID string) ([]entity.Notification, error) {
	notifications, err := s.notificationRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead помечает уведомление пользователя прочитанным
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	if err := s.notificationRepo.MarkRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}
