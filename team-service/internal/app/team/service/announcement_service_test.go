package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"teamhub/team-service/internal/app/team/entity"
	"teamhub/team-service/internal/app/team/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUsers(n int) []entity.User {
	users := make([]entity.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, entity.User{ID: primitive.NewObjectID(), Name: "User", Role: entity.RolePlayer})
	}
	return users
}

func TestCreateAnnouncement_NotifiesEveryUser(t *testing.T) {
	announcementRepo := new(mocks.MockAnnouncementRepository)
	userRepo := new(mocks.MockUserRepository)
	notificationRepo := new(mocks.MockNotificationRepository)
	producer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	svc := NewAnnouncementService(announcementRepo, userRepo, notificationRepo, producer)

	users := testUsers(2)

	announcementRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetAll", mock.Anything).Return(users, nil)
	notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	producer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	announcement, err := svc.CreateAnnouncement(context.Background(), "manager-1", &entity.CreateAnnouncementRequest{
		Title: "Season schedule", Body: "Published on the board.",
	})

	assert.NoError(t, err)
	assert.NotNil(t, announcement)
	notificationRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestCreateAnnouncement_EventPerNotifiedUser(t *testing.T) {
	announcementRepo := new(mocks.MockAnnouncementRepository)
	userRepo := new(mocks.MockUserRepository)
	notificationRepo := new(mocks.MockNotificationRepository)
	producer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	svc := NewAnnouncementService(announcementRepo, userRepo, notificationRepo, producer)

	users := testUsers(2)

	announcementRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetAll", mock.Anything).Return(users, nil)
	notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	producer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.CreateAnnouncement(context.Background(), "manager-1", &entity.CreateAnnouncementRequest{
		Title: "Season schedule", Body: "Published on the board.",
	})
	assert.NoError(t, err)

	// Потребители ведут счётчики по subject_id: на каждого пользователя
	// уходит отдельное событие с его ID, пустой subject_id недопустим
	assert.Len(t, producer.Messages, 2)
	for i, payload := range producer.Messages {
		var event entity.TeamEvent
		assert.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, entity.TeamEventAnnouncementCreated, event.EventType)
		assert.NotEmpty(t, event.SubjectID)
		assert.Equal(t, users[i].ID.Hex(), event.SubjectID)
		assert.Equal(t, "manager-1", event.ActorID)
	}
}

func TestCreateAnnouncement_NotificationFailureSkipsUserEvent(t *testing.T) {
	announcementRepo := new(mocks.MockAnnouncementRepository)
	userRepo := new(mocks.MockUserRepository)
	notificationRepo := new(mocks.MockNotificationRepository)
	producer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	svc := NewAnnouncementService(announcementRepo, userRepo, notificationRepo, producer)

	users := testUsers(2)

	announcementRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetAll", mock.Anything).Return(users, nil)
	notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.UserID == users[0].ID.Hex()
	})).Return(errors.New("write failed"))
	notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *entity.Notification) bool {
		return n.UserID == users[1].ID.Hex()
	})).Return(nil)
	producer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	announcement, err := svc.CreateAnnouncement(context.Background(), "manager-1", &entity.CreateAnnouncementRequest{
		Title: "Season schedule", Body: "Published on the board.",
	})

	// Отказ одного уведомления не прерывает рассылку
	assert.NoError(t, err)
	assert.NotNil(t, announcement)

	// Событие уходит только по фактически уведомлённым пользователям
	assert.Len(t, producer.Messages, 1)
	var event entity.TeamEvent
	assert.NoError(t, json.Unmarshal(producer.Messages[0], &event))
	assert.Equal(t, users[1].ID.Hex(), event.SubjectID)
}

func TestCreateAnnouncement_UserLoadFailureStillPublishesAnnouncement(t *testing.T) {
	announcementRepo := new(mocks.MockAnnouncementRepository)
	userRepo := new(mocks.MockUserRepository)
	notificationRepo := new(mocks.MockNotificationRepository)
	producer := &mocks.MockMessagePublisher{Messages: make([][]byte, 0)}
	svc := NewAnnouncementService(announcementRepo, userRepo, notificationRepo, producer)

	announcementRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetAll", mock.Anything).Return(nil, errors.New("mongo down"))

	announcement, err := svc.CreateAnnouncement(context.Background(), "manager-1", &entity.CreateAnnouncementRequest{
		Title: "Season schedule", Body: "Published on the board.",
	})

	assert.NoError(t, err)
	assert.NotNil(t, announcement)
	notificationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, producer.Messages)
}

func TestGetAnnouncements_Success(t *testing.T) {
	announcementRepo := new(mocks.MockAnnouncementRepository)
	svc := NewAnnouncementService(announcementRepo, new(mocks.MockUserRepository), new(mocks.MockNotificationRepository), &mocks.MockMessagePublisher{})

	expected := []entity.Announcement{
		{ID: primitive.NewObjectID(), Title: "Latest"},
		{ID: primitive.NewObjectID(), Title: "Older"},
	}
	announcementRepo.On("GetAll", mock.Anything).Return(expected, nil)

	announcements, err := svc.GetAnnouncements(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expected, announcements)
}
