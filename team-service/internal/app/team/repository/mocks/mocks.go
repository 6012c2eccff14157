package mocks

import (
	"context"

	"teamhub/team-service/internal/app/team/entity"
	"teamhub/team-service/internal/app/team/util"

	"github.com/stretchr/testify/mock"
)

// MockFeedbackRepository мок для FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepository) GetByID(ctx context.Context, id string) (*entity.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) GetByPair(ctx context.Context, creatorID, receiverID string) ([]entity.Feedback, error) {
	args := m.Called(ctx, creatorID, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) GetByEventID(ctx context.Context, eventID string) ([]entity.Feedback, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) GetByReceiverID(ctx context.Context, receiverID string) ([]entity.Feedback, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) GetByParticipant(ctx context.Context, userID string) ([]entity.Feedback, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeedbackRepository) DeleteByEventID(ctx context.Context, eventID string) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFeedbackRepository) DeleteByParticipant(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSummaryRepository мок для SummaryRepository
type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) GetByPair(ctx context.Context, creatorID, receiverID string) (*entity.FeedbackSummary, error) {
	args := m.Called(ctx, creatorID, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FeedbackSummary), args.Error(1)
}

func (m *MockSummaryRepository) GetByReceiverID(ctx context.Context, receiverID string) ([]entity.FeedbackSummary, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.FeedbackSummary), args.Error(1)
}

func (m *MockSummaryRepository) Upsert(ctx context.Context, summary *entity.FeedbackSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockSummaryRepository) DeleteByPair(ctx context.Context, creatorID, receiverID string) error {
	args := m.Called(ctx, creatorID, receiverID)
	return args.Error(0)
}

// MockNotificationRepository мок для NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) DeleteMany(ctx context.Context, filter entity.NotificationFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventRepository мок для EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *entity.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}

func (m *MockEventRepository) GetAll(ctx context.Context) ([]entity.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Event), args.Error(1)
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository мок для UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAnnouncementRepository мок для AnnouncementRepository
type MockAnnouncementRepository struct {
	mock.Mock
}

func (m *MockAnnouncementRepository) Create(ctx context.Context, announcement *entity.Announcement) error {
	args := m.Called(ctx, announcement)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) GetAll(ctx context.Context) ([]entity.Announcement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Announcement), args.Error(1)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSummaryGenerator мок для генератора текстовых сводок
type MockSummaryGenerator struct {
	mock.Mock
}

func (m *MockSummaryGenerator) Generate(ctx context.Context, comments []string) (string, error) {
	args := m.Called(ctx, comments)
	return args.String(0), args.Error(1)
}

// MockSummaryCache мок для кэша сводок
type MockSummaryCache struct {
	mock.Mock
}

var _ util.SummaryCache = (*MockSummaryCache)(nil)

func (m *MockSummaryCache) Get(ctx context.Context, creatorID, receiverID string) (*entity.FeedbackSummary, error) {
	args := m.Called(ctx, creatorID, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FeedbackSummary), args.Error(1)
}

func (m *MockSummaryCache) Set(ctx context.Context, summary *entity.FeedbackSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockSummaryCache) Invalidate(ctx context.Context, creatorID, receiverID string) error {
	args := m.Called(ctx, creatorID, receiverID)
	return args.Error(0)
}

func (m *MockSummaryCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
