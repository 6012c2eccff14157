package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SummaryAPIClient клиент внешнего сервиса генерации текстовых сводок
// Отвечает только за HTTP запросы, подстановка заглушек при ошибках - дело сервиса
type SummaryAPIClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewSummaryAPIClient создает новый HTTP клиент для API генерации сводок
func NewSummaryAPIClient(apiURL, apiKey string, timeoutSec int) *SummaryAPIClient {
	return &SummaryAPIClient{
		apiURL: apiURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

type generateRequest struct {
	Comments []string `json:"comments"`
}

type generateResponse struct {
	Summary string `json:"summary"`
}

// Generate отправляет комментарии во внешний API и возвращает текстовую сводку
func (c *SummaryAPIClient) Generate(ctx context.Context, comments []string) (string, error) {
	payload, err := json.Marshal(generateRequest{Comments: comments})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResponse generateResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return "", fmt.Errorf("failed to unmarshal API response: %w", err)
	}

	return apiResponse.Summary, nil
}
