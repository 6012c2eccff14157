//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"teamhub/team-service/internal/app/team/entity"
	"teamhub/team-service/internal/app/team/handler"
	"teamhub/team-service/internal/app/team/repository"
	"teamhub/team-service/internal/app/team/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MockKafkaProducer struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockKafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockKafkaProducer) Close() error { return nil }

// stubGenerator склеивает комментарии, чтобы проверять порядок без внешнего API
type stubGenerator struct{}

func (g *stubGenerator) Generate(ctx context.Context, comments []string) (string, error) {
	return strings.Join(comments, " | "), nil
}

type TeamIntegrationTestSuite struct {
	suite.Suite
	client          *mongo.Client
	db              *mongo.Database
	router          *gin.Engine
	summaryService  *service.SummaryService
	kafkaProducer   *MockKafkaProducer
	testCoachID     string
	testPlayerID    string
	currentUserID   string
	currentUserRole string
}

func TestTeamIntegrationSuite(t *testing.T) {
	suite.Run(t, new(TeamIntegrationTestSuite))
}

func (s *TeamIntegrationTestSuite) SetupSuite() {
	mongoURI := getEnv("TEST_MONGODB_URI", "mongodb://localhost:27017")
	dbName := getEnv("TEST_MONGODB_DATABASE", "team_test_db")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	s.client, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	s.Require().NoError(err)

	s.db = s.client.Database(dbName)

	feedbackRepo := repository.NewFeedbackRepository(s.db)
	summaryRepo := repository.NewSummaryRepository(s.db)
	notificationRepo := repository.NewNotificationRepository(s.db)
	eventRepo := repository.NewEventRepository(s.db)
	userRepo := repository.NewUserRepository(s.db)

	s.kafkaProducer = &MockKafkaProducer{Messages: make([][]byte, 0)}

	s.summaryService = service.NewSummaryService(feedbackRepo, summaryRepo, &stubGenerator{}, nil)
	feedbackService := service.NewFeedbackService(feedbackRepo, eventRepo, notificationRepo, s.summaryService, s.kafkaProducer)
	eventService := service.NewEventService(eventRepo, feedbackRepo, notificationRepo, s.summaryService, s.kafkaProducer)
	userService := service.NewUserService(userRepo, feedbackRepo, notificationRepo, s.summaryService, s.kafkaProducer)
	notificationService := service.NewNotificationService(notificationRepo)

	s.testCoachID = "coach-" + primitive.NewObjectID().Hex()
	s.testPlayerID = "player-" + primitive.NewObjectID().Hex()

	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	eventHandler := handler.NewEventHandler(eventService)
	userHandler := handler.NewUserHandler(userService)
	summaryHandler := handler.NewSummaryHandler(s.summaryService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	authMiddleware := func(c *gin.Context) {
		c.Set("user_id", s.currentUserID)
		c.Set("role", s.currentUserRole)
		c.Next()
	}

	events := s.router.Group("/events", authMiddleware)
	events.POST("", eventHandler.CreateEvent)
	events.DELETE("/:event_id", eventHandler.DeleteEvent)

	feedback := s.router.Group("/feedback", authMiddleware)
	feedback.POST("", feedbackHandler.CreateFeedback)
	feedback.DELETE("/:feedback_id", feedbackHandler.DeleteFeedback)
	feedback.GET("/event/:event_id", feedbackHandler.GetFeedbackByEvent)

	summaries := s.router.Group("/summaries", authMiddleware)
	summaries.GET("/pair/:creator_id/:receiver_id", summaryHandler.GetSummary)
	summaries.GET("/player/:player_id", summaryHandler.GetSummariesForPlayer)

	users := s.router.Group("/users", authMiddleware)
	users.DELETE("/:user_id", userHandler.DeleteUser)

	notifications := s.router.Group("/notifications", authMiddleware)
	notifications.GET("", notificationHandler.GetNotifications)
}

func (s *TeamIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	s.db.Collection("feedback").Drop(ctx)
	s.db.Collection("feedback_summaries").Drop(ctx)
	s.db.Collection("notifications").Drop(ctx)
	s.db.Collection("events").Drop(ctx)
	s.db.Collection("users").Drop(ctx)
	s.kafkaProducer.Messages = make([][]byte, 0)
	s.kafkaProducer.ExpectedCalls = nil
	s.kafkaProducer.Calls = nil
	s.kafkaProducer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.currentUserID = s.testCoachID
	s.currentUserRole = entity.RoleStaff
}

func (s *TeamIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.client.Disconnect(ctx)
	}
}

func (s *TeamIntegrationTestSuite) createEvent(players ...string) entity.Event {
	reqBody := entity.CreateEventRequest{
		Title:    "Morning training",
		Type:     entity.EventTypeTraining,
		Players:  players,
		StartsAt: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	}
	body, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest(http.MethodPost, "/events", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusCreated, w.Code)

	var event entity.Event
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &event))
	return event
}

func (s *TeamIntegrationTestSuite) createFeedback(eventID, receiverID, satisfaction, comment string) entity.Feedback {
	reqBody := entity.CreateFeedbackRequest{
		EventID: eventID, ReceiverID: receiverID, Satisfaction: satisfaction, Comment: comment,
	}
	body, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest(http.MethodPost, "/feedback", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusCreated, w.Code)

	var feedback entity.Feedback
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &feedback))
	return feedback
}

func (s *TeamIntegrationTestSuite) getSummary(creatorID, receiverID string) (int, *entity.FeedbackSummary) {
	req, _ := http.NewRequest(http.MethodGet, "/summaries/pair/"+creatorID+"/"+receiverID, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		return w.Code, nil
	}
	var summary entity.FeedbackSummary
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &summary))
	return w.Code, &summary
}

func (s *TeamIntegrationTestSuite) TestCreateFeedback_BuildsSummary() {
	event := s.createEvent(s.testPlayerID)

	s.createFeedback(event.ID.Hex(), s.testPlayerID, "good", "Sharp passing")
	s.createFeedback(s.createEvent(s.testPlayerID).ID.Hex(), s.testPlayerID, "bad", "Lost focus")

	code, summary := s.getSummary(s.testCoachID, s.testPlayerID)
	s.Equal(http.StatusOK, code)
	s.Equal(2, summary.FeedbackCount)
	s.Equal(2.0, summary.AverageSatisfaction)
	s.Equal("Sharp passing | Lost focus", summary.Summary)
}

func (s *TeamIntegrationTestSuite) TestCreateFeedback_DuplicatePairRejected() {
	event := s.createEvent(s.testPlayerID)
	s.createFeedback(event.ID.Hex(), s.testPlayerID, "good", "First")

	reqBody := entity.CreateFeedbackRequest{
		EventID: event.ID.Hex(), ReceiverID: s.testPlayerID, Satisfaction: "bad",
	}
	body, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest(http.MethodPost, "/feedback", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *TeamIntegrationTestSuite) TestDeleteFeedback_LastRecordDeletesSummary() {
	event := s.createEvent(s.testPlayerID)
	feedback := s.createFeedback(event.ID.Hex(), s.testPlayerID, "neutral", "Average game")

	code, _ := s.getSummary(s.testCoachID, s.testPlayerID)
	s.Require().Equal(http.StatusOK, code)

	req, _ := http.NewRequest(http.MethodDelete, "/feedback/"+feedback.ID.Hex(), nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)

	code, _ = s.getSummary(s.testCoachID, s.testPlayerID)
	s.Equal(http.StatusNotFound, code)
}

func (s *TeamIntegrationTestSuite) TestDeleteEvent_CascadeRemovesFeedbackAndSummary() {
	event := s.createEvent(s.testPlayerID)
	s.createFeedback(event.ID.Hex(), s.testPlayerID, "good", "Great match")

	req, _ := http.NewRequest(http.MethodDelete, "/events/"+event.ID.Hex(), nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)

	// Записи обратной связи события удалены
	req, _ = http.NewRequest(http.MethodGet, "/feedback/event/"+event.ID.Hex(), nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)

	var list entity.FeedbackListResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Equal(0, list.Total)

	// Сводка пары пересчитана в отсутствие записей и удалена
	code, _ := s.getSummary(s.testCoachID, s.testPlayerID)
	s.Equal(http.StatusNotFound, code)
}

func (s *TeamIntegrationTestSuite) TestDeleteEvent_SummarySurvivesOtherEvents() {
	first := s.createEvent(s.testPlayerID)
	second := s.createEvent(s.testPlayerID)
	s.createFeedback(first.ID.Hex(), s.testPlayerID, "good", "From first event")
	s.createFeedback(second.ID.Hex(), s.testPlayerID, "bad", "From second event")

	req, _ := http.NewRequest(http.MethodDelete, "/events/"+first.ID.Hex(), nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)

	code, summary := s.getSummary(s.testCoachID, s.testPlayerID)
	s.Equal(http.StatusOK, code)
	s.Equal(1, summary.FeedbackCount)
	s.Equal(1.0, summary.AverageSatisfaction)
	s.Equal("From second event", summary.Summary)
}

func (s *TeamIntegrationTestSuite) TestDeleteUser_CascadeRemovesParticipantFeedback() {
	ctx := context.Background()
	userRepo := repository.NewUserRepository(s.db)
	player := &entity.User{Name: "Test Player", Email: "cascade-player@club.test", Role: entity.RolePlayer}
	s.Require().NoError(userRepo.Create(ctx, player))
	playerID := player.ID.Hex()

	event := s.createEvent(playerID)
	s.createFeedback(event.ID.Hex(), playerID, "good", "Solid defending")

	code, _ := s.getSummary(s.testCoachID, playerID)
	s.Require().Equal(http.StatusOK, code)

	s.currentUserRole = entity.RoleAdmin
	req, _ := http.NewRequest(http.MethodDelete, "/users/"+playerID, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)

	// Обратная связь участника удалена, сводка пары пересчитана и удалена
	code, _ = s.getSummary(s.testCoachID, playerID)
	s.Equal(http.StatusNotFound, code)
}

func (s *TeamIntegrationTestSuite) TestCreateFeedback_NotificationDelivered() {
	event := s.createEvent(s.testPlayerID)
	s.createFeedback(event.ID.Hex(), s.testPlayerID, "good", "Nice run")

	s.currentUserID = s.testPlayerID
	s.currentUserRole = entity.RolePlayer
	req, _ := http.NewRequest(http.MethodGet, "/notifications", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)

	var response entity.NotificationListResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	// Уведомление о заявке на событие + уведомление об обратной связи
	s.Equal(2, response.Total)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
