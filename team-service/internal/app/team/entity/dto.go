package entity

// CreateUserRequest - запрос на создание пользователя
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin manager staff player"`
}

// CreateEventRequest - запрос на создание события клуба
type CreateEventRequest struct {
	Title    string   `json:"title" validate:"required,min=2,max=200"`
	Type     string   `json:"type" validate:"required,oneof=training match"`
	Players  []string `json:"players" validate:"required,min=1"`
	StartsAt string   `json:"starts_at" validate:"required"` // RFC3339
}

// CreateFeedbackRequest - запрос на создание обратной связи по игроку
type CreateFeedbackRequest struct {
	EventID      string `json:"event_id" validate:"required"`
	ReceiverID   string `json:"receiver_id" validate:"required"`
	Satisfaction string `json:"satisfaction" validate:"required,oneof=good neutral bad"`
	Comment      string `json:"comment" validate:"omitempty,max=1000"`
}

// CreateAnnouncementRequest - запрос на публикацию объявления
type CreateAnnouncementRequest struct {
	Title string `json:"title" validate:"required,min=2,max=200"`
	Body  string `json:"body" validate:"required,min=2,max=5000"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FeedbackListResponse - ответ со списком обратной связи
type FeedbackListResponse struct {
	Feedback []Feedback `json:"feedback"`
	Total    int        `json:"total"`
}

// SummaryListResponse - ответ со списком сводок по игроку
type SummaryListResponse struct {
	Summaries []FeedbackSummary `json:"summaries"`
	Total     int               `json:"total"`
}

// NotificationListResponse - ответ со списком уведомлений
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
}
