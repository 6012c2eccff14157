package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamhub/team-service/internal/app/team/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

type notificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository создает новый репозиторий уведомлений
func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	collection := db.Collection("notifications")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
		},
		Options: options.Index().SetName("user_id_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, userIndex); err != nil {
		fmt.Printf("Warning: failed to create notification index: %v\n", err)
	}

	// Индекс по action_link для каскадных удалений по событию
	linkIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "action_link", Value: 1},
		},
		Options: options.Index().SetName("action_link_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, linkIndex); err != nil {
		fmt.Printf("Warning: failed to create notification action_link index: %v\n", err)
	}

	return &notificationRepository{
		collection: collection,
	}
}

// Create создает новое уведомление
func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	notification.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		notification.ID = oid
	}

	return nil
}

// GetByUserID получает уведомления пользователя, новые сверху
func (r *notificationRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []entity.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead помечает уведомление прочитанным
// user_id в фильтре не дает пометить чужое уведомление
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid notification ID: %w", err)
	}

	filter := bson.M{"_id": objectID, "user_id": userID}
	update := bson.M{"$set": bson.M{"read": true}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// DeleteMany удаляет уведомления по критериям (получатель, тип, action_link)
// Пустой фильтр запрещен - каскад всегда ограничивает выборку
func (r *notificationRepository) DeleteMany(ctx context.Context, filter entity.NotificationFilter) (int64, error) {
	query := bson.M{}

	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.ActionLink != "" {
		query["action_link"] = filter.ActionLink
	}
	if len(filter.ActionLinks) > 0 {
		query["action_link"] = bson.M{"$in": filter.ActionLinks}
	}

	if len(query) == 0 {
		return 0, errors.New("refusing to delete notifications with empty filter")
	}

	result, err := r.collection.DeleteMany(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}

	return result.DeletedCount, nil
}
