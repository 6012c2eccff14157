package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"teamhub/activity-worker-service/internal/app/activity-worker/entity"
	"teamhub/activity-worker-service/internal/app/activity-worker/repository"
	"teamhub/activity-worker-service/internal/app/activity-worker/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testEvent(eventType string) *entity.TeamEvent {
	return &entity.TeamEvent{
		EventType:  eventType,
		ActorID:    "coach-1",
		SubjectID:  "player-1",
		ActionLink: "event-1",
		Timestamp:  time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestProcessTeamEvent_FeedbackCreated_IncrementsUnread(t *testing.T) {
	activityRepo := new(mocks.MockActivityRepository)
	counterRepo := new(mocks.MockCounterRepository)
	svc := NewActivityService(activityRepo, counterRepo)

	event := testEvent(entity.EventTypeFeedbackCreated)

	activityRepo.On("Insert", mock.Anything, mock.MatchedBy(func(r *entity.ActivityRecord) bool {
		return r.EventKey == event.Key() &&
			r.EventType == entity.EventTypeFeedbackCreated &&
			r.SubjectID == "player-1"
	})).Return(nil)
	counterRepo.On("IncrementUnread", mock.Anything, "player-1").Return(int64(1), nil)

	err := svc.ProcessTeamEvent(context.Background(), event)

	assert.NoError(t, err)
	activityRepo.AssertExpectations(t)
	counterRepo.AssertExpectations(t)
}

func TestProcessTeamEvent_AnnouncementCreated_IncrementsUnread(t *testing.T) {
	activityRepo := new(mocks.MockActivityRepository)
	counterRepo := new(mocks.MockCounterRepository)
	svc := NewActivityService(activityRepo, counterRepo)

	event := testEvent(entity.EventTypeAnnouncementCreated)

	activityRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	counterRepo.On("IncrementUnread", mock.Anything, "player-1").Return(int64(2), nil)

	err := svc.ProcessTeamEvent(context.Background(), event)

	assert.NoError(t, err)
	counterRepo.AssertExpectations(t)
}

func TestProcessTeamEvent_UserDeleted_ResetsUnread(t *testing.T) {
	activityRepo := new(mocks.MockActivityRepository)
	counterRepo := new(mocks.MockCounterRepository)
	svc := NewActivityService(activityRepo, counterRepo)

	event := testEvent(entity.EventTypeUserDeleted)

	activityRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	counterRepo.On("ResetUnread", mock.Anything, "player-1").Return(nil)

	err := svc.ProcessTeamEvent(context.Background(), event)

	assert.NoError(t, err)
	counterRepo.AssertExpectations(t)
	counterRepo.AssertNotCalled(t, "IncrementUnread", mock.Anything, mock.Anything)
}

func TestProcessTeamEvent_FeedbackDeleted_NoCounterChanges(t *testing.T) {
	activityRepo := new(mocks.MockActivityRepository)
	counterRepo := new(mocks.MockCounterRepository)
	svc := NewActivityService(activityRepo, counterRepo)

	event := testEvent(entity.EventTypeFeedbackDeleted)

	activityRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	err := svc.ProcessTeamEvent(context.Background(), event)

	assert.NoError(t, err)
	counterRepo.AssertNotCalled(t, "IncrementUnread", mock.Anything, mock.Anything)
	counterRepo.AssertNotCalled(t, "ResetUnread", mock.Anything, mock.Anything)
}

func TestProcessTeamEvent_Duplicate_SkipsWithoutError(t *testing.T) {
	activityRepo := new(mocks.MockActivityRepository)
	counterRepo := new(mocks.MockCounterRepository)
	svc := NewActivityService(activityRepo, counterRepo)

	event := testEvent(entity.EventTypeFeedbackCreated)

	activityRepo.On("Insert", mock.Anything, mock.Anything).Return(repository.ErrDuplicateActivity)

	// Повтор не должен вернуть ошибку, иначе consumer не закоммитит offset
	err := svc.ProcessTeamEvent(context.Background(), event)

	assert.NoError(t, err)
	counterRepo.AssertNotCalled(t, "IncrementUnread", mock.Anything, mock.Anything)
}

func TestProcessTeamEvent_InsertErrorSurfaced(t *testing.T) {
	activityRepo := new(mocks.MockActivityRepository)
	counterRepo := new(mocks.MockCounterRepository)
	svc := NewActivityService(activityRepo, counterRepo)

	event := testEvent(entity.EventTypeFeedbackCreated)

	activityRepo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("db down"))

	err := svc.ProcessTeamEvent(context.Background(), event)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process team event")
	counterRepo.AssertNotCalled(t, "IncrementUnread", mock.Anything, mock.Anything)
}

func TestProcessTeamEvent_CounterErrorIgnored(t *testing.T) {
	activityRepo := new(mocks.MockActivityRepository)
	counterRepo := new(mocks.MockCounterRepository)
	svc := NewActivityService(activityRepo, counterRepo)

	event := testEvent(entity.EventTypeFeedbackCreated)

	activityRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	counterRepo.On("IncrementUnread", mock.Anything, "player-1").Return(int64(0), errors.New("redis down"))

	err := svc.ProcessTeamEvent(context.Background(), event)

	assert.NoError(t, err)
}

func TestProcessTeamEvent_EmptySubjectSkipsCounter(t *testing.T) {
	activityRepo := new(mocks.MockActivityRepository)
	counterRepo := new(mocks.MockCounterRepository)
	svc := NewActivityService(activityRepo, counterRepo)

	event := testEvent(entity.EventTypeAnnouncementCreated)
	event.SubjectID = ""

	activityRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	err := svc.ProcessTeamEvent(context.Background(), event)

	assert.NoError(t, err)
	counterRepo.AssertNotCalled(t, "IncrementUnread", mock.Anything, mock.Anything)
}

func TestTeamEventKey_Deterministic(t *testing.T) {
	first := testEvent(entity.EventTypeFeedbackCreated)
	second := testEvent(entity.EventTypeFeedbackCreated)

	assert.Equal(t, first.Key(), second.Key())
}

func TestTeamEventKey_DiffersByType(t *testing.T) {
	created := testEvent(entity.EventTypeFeedbackCreated)
	deleted := testEvent(entity.EventTypeFeedbackDeleted)

	assert.NotEqual(t, created.Key(), deleted.Key())
}
