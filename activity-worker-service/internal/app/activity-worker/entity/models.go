package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TeamEvent - доменное событие из топика team_events
type TeamEvent struct {
	EventType  string    `json:"event_type"`
	ActorID    string    `json:"actor_id"`
	SubjectID  string    `json:"subject_id"`
	ActionLink string    `json:"action_link"`
	Timestamp  time.Time `json:"timestamp"`
}

const (
	EventTypeFeedbackCreated     = "FEEDBACK_CREATED"
	EventTypeFeedbackDeleted     = "FEEDBACK_DELETED"
	EventTypeEventDeleted        = "EVENT_DELETED"
	EventTypeUserDeleted         = "USER_DELETED"
	EventTypeAnnouncementCreated = "ANNOUNCEMENT_CREATED"
)

// Key возвращает детерминированный ключ события для защиты от повторной доставки
// Kafka гарантирует at-least-once, уникальный индекс по ключу превращает это в exactly-once
func (e *TeamEvent) Key() string {
	return fmt.Sprintf("%s:%s:%s:%s:%d",
		e.EventType, e.ActorID, e.SubjectID, e.ActionLink, e.Timestamp.UnixNano())
}

// ActivityRecord - строка журнала активности клуба в PostgreSQL
type ActivityRecord struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	EventKey   string    `json:"event_key" gorm:"type:varchar(512);not null;uniqueIndex:idx_activity_event_key"`
	EventType  string    `json:"event_type" gorm:"type:varchar(50);not null;index"`
	ActorID    string    `json:"actor_id" gorm:"type:varchar(64)"`
	SubjectID  string    `json:"subject_id" gorm:"type:varchar(64);index"`
	ActionLink string    `json:"action_link" gorm:"type:varchar(64)"`
	OccurredAt time.Time `json:"occurred_at" gorm:"not null"`
	ConsumedAt time.Time `json:"consumed_at" gorm:"autoCreateTime"`
}

func (ActivityRecord) TableName() string {
	return "activity_records"
}

const (
	RedisKeyPrefixUnread = "activity:user:" // activity:user:<id>:unread
)

func UnreadCounterKey(userID string) string {
	return RedisKeyPrefixUnread + userID + ":unread"
}
