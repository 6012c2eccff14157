package service

import (
	"context"

	"teamhub/team-service/internal/app/team/entity"
)

// SummaryRecomputer пересчёт сводок, внедряется в сервисы с каскадами
type SummaryRecomputer interface {
	Recompute(ctx context.Context, creatorID, receiverID string) (RecomputeStatus, error)
	RecomputePairs(ctx context.Context, pairs []FeedbackPair, trigger string)
}

type FeedbackServiceInterface interface {
	CreateFeedback(ctx context.Context, creatorID string, req *entity.CreateFeedbackRequest) (*entity.Feedback, error)
	DeleteFeedback(ctx context.Context, feedbackID, userID string) error
	GetFeedbackByEvent(ctx context.Context, eventID string) ([]entity.Feedback, error)
	GetFeedbackForReceiver(ctx context.Context, receiverID string) ([]entity.Feedback, error)
}

type SummaryServiceInterface interface {
	GetSummary(ctx context.Context, creatorID, receiverID string) (*entity.FeedbackSummary, error)
	GetSummariesForReceiver(ctx context.Context, receiverID string) ([]entity.FeedbackSummary, error)
}

type EventServiceInterface interface {
	CreateEvent(ctx context.Context, creatorID string, req *entity.CreateEventRequest) (*entity.Event, error)
	GetEvent(ctx context.Context, eventID string) (*entity.Event, error)
	GetEvents(ctx context.Context) ([]entity.Event, error)
	DeleteEvent(ctx context.Context, eventID, userID, role string) error
}

type UserServiceInterface interface {
	CreateUser(ctx context.Context, req *entity.CreateUserRequest) (*entity.User, error)
	GetUser(ctx context.Context, userID string) (*entity.User, error)
	GetUsers(ctx context.Context) ([]entity.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type NotificationServiceInterface interface {
	GetNotifications(ctx context.Context, userID string) ([]entity.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
}

type AnnouncementServiceInterface interface {
	CreateAnnouncement(ctx context.Context, creatorID string, req *entity.CreateAnnouncementRequest) (*entity.Announcement, error)
	GetAnnouncements(ctx context.Context) ([]entity.Announcement, error)
}
