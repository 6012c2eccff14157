package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Роли пользователей клуба
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RolePlayer  = "player"
)

// Типы событий клуба
const (
	EventTypeTraining = "training"
	EventTypeMatch    = "match"
)

// Типы уведомлений
const (
	NotificationTypeFeedback     = "feedback"
	NotificationTypeEvent        = "event"
	NotificationTypeAnnouncement = "announcement"
)

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Role      string             `json:"role" bson:"role"` // admin/manager/staff/player
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type Event struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Type      string             `json:"type" bson:"type"`             // training или match
	CreatedBy string             `json:"created_by" bson:"created_by"` // ID тренера/менеджера
	Players   []string           `json:"players" bson:"players"`       // ID заявленных игроков
	StartsAt  time.Time          `json:"starts_at" bson:"starts_at"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Feedback - оценка игрока автором события
// Уникальность: не более одной записи на пару (event_id, receiver_id)
type Feedback struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID      string             `json:"event_id" bson:"event_id"`
	CreatorID    string             `json:"creator_id" bson:"creator_id"`   // автор события
	ReceiverID   string             `json:"receiver_id" bson:"receiver_id"` // оцениваемый игрок
	Satisfaction string             `json:"satisfaction" bson:"satisfaction"`
	Comment      string             `json:"comment" bson:"comment"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// FeedbackSummary - денормализованный агрегат по паре (creator, receiver)
// Хранится только пока feedback_count > 0: при удалении последней записи
// обратной связи документ удаляется целиком, а не обнуляется
type FeedbackSummary struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CreatorID           string             `json:"creator_id" bson:"creator_id"`
	ReceiverID          string             `json:"receiver_id" bson:"receiver_id"`
	AverageSatisfaction float64            `json:"average_satisfaction" bson:"average_satisfaction"`
	Summary             string             `json:"summary" bson:"summary"`
	FeedbackCount       int                `json:"feedback_count" bson:"feedback_count"`
	LastUpdated         time.Time          `json:"last_updated" bson:"last_updated"`
}

type Notification struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     string             `json:"user_id" bson:"user_id"`
	Type       string             `json:"type" bson:"type"`
	ActionLink string             `json:"action_link" bson:"action_link"` // ID связанного события/сущности
	Section    string             `json:"section" bson:"section"`
	Message    string             `json:"message" bson:"message"`
	Read       bool               `json:"read" bson:"read"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// NotificationFilter - критерии удаления уведомлений в каскадах
// Пустые поля в фильтре не участвуют
type NotificationFilter struct {
	UserID      string
	Type        string
	ActionLink  string
	ActionLinks []string // для $in по нескольким событиям
}

type Announcement struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Body      string             `json:"body" bson:"body"`
	CreatedBy string             `json:"created_by" bson:"created_by"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Типы событий для Kafka топика team_events
const (
	TeamEventFeedbackCreated     = "FEEDBACK_CREATED"
	TeamEventFeedbackDeleted     = "FEEDBACK_DELETED"
	TeamEventEventDeleted        = "EVENT_DELETED"
	TeamEventUserDeleted         = "USER_DELETED"
	TeamEventAnnouncementCreated = "ANNOUNCEMENT_CREATED"
)

// TeamEvent - доменное событие, публикуемое в Kafka
type TeamEvent struct {
	EventType  string    `json:"event_type"`
	ActorID    string    `json:"actor_id"`   // кто инициировал
	SubjectID  string    `json:"subject_id"` // кого касается
	ActionLink string    `json:"action_link"`
	Timestamp  time.Time `json:"timestamp"`
}
