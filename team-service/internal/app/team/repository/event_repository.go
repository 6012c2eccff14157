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
	ErrEventNotFound = errors.New("event not found")
)

type eventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository создает новый репозиторий событий клуба
func NewEventRepository(db *mongo.Database) EventRepository {
	collection := db.Collection("events")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	creatorIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "created_by", Value: 1},
		},
		Options: options.Index().SetName("created_by_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, creatorIndex); err != nil {
		fmt.Printf("Warning: failed to create event index: %v\n", err)
	}

	return &eventRepository{
		collection: collection,
	}
}

// Create создает новое событие
func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid
	}

	return nil
}

// GetByID получает событие по ID
func (r *eventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	var event entity.Event
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

// GetAll получает все события, ближайшие сверху
func (r *eventRepository) GetAll(ctx context.Context) ([]entity.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []entity.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	return events, nil
}

// Delete удаляет документ события
// Вызывается каскадом после снимка зависимых записей
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid event ID: %w", err)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrEventNotFound
	}

	return nil
}
