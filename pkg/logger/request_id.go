package logger

import (
	"github.com/google/uuid"
)

// generateRequestID создает новый идентификатор запроса для заголовка X-Request-ID
func generateRequestID() string {
	return uuid.NewString()
}
