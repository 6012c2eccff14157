package repository

import (
	"context"

	"teamhub/team-service/internal/app/team/entity"
)

// FeedbackRepository определяет методы для работы с обратной связью в MongoDB
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	GetByID(ctx context.Context, id string) (*entity.Feedback, error)
	GetByPair(ctx context.Context, creatorID, receiverID string) ([]entity.Feedback, error)
	GetByEventID(ctx context.Context, eventID string) ([]entity.Feedback, error)
	GetByReceiverID(ctx context.Context, receiverID string) ([]entity.Feedback, error)
	GetByParticipant(ctx context.Context, userID string) ([]entity.Feedback, error)
	Delete(ctx context.Context, id string) error
	DeleteByEventID(ctx context.Context, eventID string) (int64, error)
	DeleteByParticipant(ctx context.Context, userID string) (int64, error)
}

// SummaryRepository определяет методы для работы со сводками обратной связи
type SummaryRepository interface {
	GetByPair(ctx context.Context, creatorID, receiverID string) (*entity.FeedbackSummary, error)
	GetByReceiverID(ctx context.Context, receiverID string) ([]entity.FeedbackSummary, error)
	Upsert(ctx context.Context, summary *entity.FeedbackSummary) error
	DeleteByPair(ctx context.Context, creatorID, receiverID string) error
}

// NotificationRepository определяет методы для работы с уведомлениями
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByUserID(ctx context.Context, userID string) ([]entity.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	DeleteMany(ctx context.Context, filter entity.NotificationFilter) (int64, error)
}

// EventRepository определяет методы для работы с событиями клуба
type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	GetAll(ctx context.Context) ([]entity.Event, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetAll(ctx context.Context) ([]entity.User, error)
	Delete(ctx context.Context, id string) error
}

// AnnouncementRepository определяет методы для работы с объявлениями
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *entity.Announcement) error
	GetAll(ctx context.Context) ([]entity.Announcement, error)
}
