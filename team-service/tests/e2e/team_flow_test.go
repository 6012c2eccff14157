//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"teamhub/team-service/internal/app/team/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const BaseURL = "http://localhost:8084"

// makeToken выписывает JWT тем же секретом, что и сервис в тестовом окружении
func makeToken(t *testing.T, userID, role string) string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-secret-key"
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   userID + "@club.test",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authHeaders(token string) http.Header {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("Authorization", "Bearer "+token)
	return headers
}

func TestFullFeedbackFlow(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	coachID := "coach-" + primitive.NewObjectID().Hex()
	playerID := "player-" + primitive.NewObjectID().Hex()
	coachToken := makeToken(t, coachID, entity.RoleStaff)

	// Создаём событие с заявленным игроком
	eventReq := entity.CreateEventRequest{
		Title:    "Evening match",
		Type:     entity.EventTypeMatch,
		Players:  []string{playerID},
		StartsAt: time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	}
	body, _ := json.Marshal(eventReq)

	req, _ := http.NewRequest(http.MethodPost, BaseURL+"/events", bytes.NewBuffer(body))
	req.Header = authHeaders(coachToken)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var event entity.Event
	json.NewDecoder(resp.Body).Decode(&event)
	eventID := event.ID.Hex()

	defer func() {
		req, _ := http.NewRequest(http.MethodDelete, BaseURL+"/events/"+eventID, nil)
		req.Header = authHeaders(coachToken)
		resp, _ := client.Do(req)
		if resp != nil {
			resp.Body.Close()
		}
	}()

	// Оставляем обратную связь по игроку
	feedbackReq := entity.CreateFeedbackRequest{
		EventID: eventID, ReceiverID: playerID, Satisfaction: "good", Comment: "Well positioned all game.",
	}
	body, _ = json.Marshal(feedbackReq)

	req, _ = http.NewRequest(http.MethodPost, BaseURL+"/feedback", bytes.NewBuffer(body))
	req.Header = authHeaders(coachToken)

	resp, err = client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Сводка пары доступна и отражает запись
	req, _ = http.NewRequest(http.MethodGet, BaseURL+"/summaries/pair/"+coachID+"/"+playerID, nil)
	req.Header = authHeaders(coachToken)

	resp, err = client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summary entity.FeedbackSummary
	json.NewDecoder(resp.Body).Decode(&summary)
	assert.Equal(t, 1, summary.FeedbackCount)
	assert.Equal(t, 3.0, summary.AverageSatisfaction)
}

func TestEventDeleteCascade(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	coachID := "coach-" + primitive.NewObjectID().Hex()
	playerID := "player-" + primitive.NewObjectID().Hex()
	coachToken := makeToken(t, coachID, entity.RoleStaff)

	eventReq := entity.CreateEventRequest{
		Title:    "Cascade training",
		Type:     entity.EventTypeTraining,
		Players:  []string{playerID},
		StartsAt: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	}
	body, _ := json.Marshal(eventReq)

	req, _ := http.NewRequest(http.MethodPost, BaseURL+"/events", bytes.NewBuffer(body))
	req.Header = authHeaders(coachToken)
	resp, err := client.Do(req)
	require.NoError(t, err)

	var event entity.Event
	json.NewDecoder(resp.Body).Decode(&event)
	resp.Body.Close()
	eventID := event.ID.Hex()

	feedbackReq := entity.CreateFeedbackRequest{
		EventID: eventID, ReceiverID: playerID, Satisfaction: "bad", Comment: "Sloppy passing.",
	}
	body, _ = json.Marshal(feedbackReq)

	req, _ = http.NewRequest(http.MethodPost, BaseURL+"/feedback", bytes.NewBuffer(body))
	req.Header = authHeaders(coachToken)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	// Удаляем событие
	req, _ = http.NewRequest(http.MethodDelete, BaseURL+"/events/"+eventID, nil)
	req.Header = authHeaders(coachToken)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Сводка пары удалена каскадом
	req, _ = http.NewRequest(http.MethodGet, BaseURL+"/summaries/pair/"+coachID+"/"+playerID, nil)
	req.Header = authHeaders(coachToken)
	resp, err = client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnauthorizedAccess(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	feedbackReq := entity.CreateFeedbackRequest{
		EventID: "any", ReceiverID: "any", Satisfaction: "good",
	}
	body, _ := json.Marshal(feedbackReq)

	req, _ := http.NewRequest(http.MethodPost, BaseURL+"/feedback", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPlayerCannotCreateFeedback(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	playerToken := makeToken(t, "player-"+primitive.NewObjectID().Hex(), entity.RolePlayer)

	feedbackReq := entity.CreateFeedbackRequest{
		EventID: primitive.NewObjectID().Hex(), ReceiverID: "someone", Satisfaction: "good",
	}
	body, _ := json.Marshal(feedbackReq)

	req, _ := http.NewRequest(http.MethodPost, BaseURL+"/feedback", bytes.NewBuffer(body))
	req.Header = authHeaders(playerToken)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateFeedback_ValidationErrors(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	coachToken := makeToken(t, "coach-"+primitive.NewObjectID().Hex(), entity.RoleStaff)

	testCases := []struct {
		name    string
		request map[string]interface{}
	}{
		{
			name: "Unknown satisfaction level",
			request: map[string]interface{}{
				"event_id":     primitive.NewObjectID().Hex(),
				"receiver_id":  "player-1",
				"satisfaction": "excellent",
			},
		},
		{
			name: "Missing receiver",
			request: map[string]interface{}{
				"event_id":     primitive.NewObjectID().Hex(),
				"satisfaction": "good",
			},
		},
		{
			name: "Missing event",
			request: map[string]interface{}{
				"receiver_id":  "player-1",
				"satisfaction": "good",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.request)

			req, _ := http.NewRequest(http.MethodPost, BaseURL+"/feedback", bytes.NewBuffer(body))
			req.Header = authHeaders(coachToken)

			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(BaseURL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
