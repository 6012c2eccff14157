package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamhub/pkg/metrics"
	"teamhub/team-service/internal/app/team/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrFeedbackNotFound  = errors.New("feedback not found")
	ErrDuplicateFeedback = errors.New("feedback already exists for this event and receiver")
)

type feedbackRepository struct {
	collection *mongo.Collection
}

// NewFeedbackRepository создает новый репозиторий обратной связи
// Создает уникальный индекс (event_id, receiver_id) и индексы для выборок по паре и участнику
func NewFeedbackRepository(db *mongo.Database) FeedbackRepository {
	collection := db.Collection("feedback")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Уникальность: одна запись обратной связи на (событие, игрок)
	uniqueIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "event_id", Value: 1},
			{Key: "receiver_id", Value: 1},
		},
		Options: options.Index().SetName("event_receiver_unique_idx").SetUnique(true),
	}

	// Индекс пары для пересчёта сводок
	pairIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "creator_id", Value: 1},
			{Key: "receiver_id", Value: 1},
		},
		Options: options.Index().SetName("creator_receiver_idx"),
	}

	receiverIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "receiver_id", Value: 1},
		},
		Options: options.Index().SetName("receiver_id_idx"),
	}

	for _, model := range []mongo.IndexModel{uniqueIndex, pairIndex, receiverIndex} {
		if _, err := collection.Indexes().CreateOne(ctx, model); err != nil {
			// Логируем ошибку, но не прерываем работу - индекс может уже существовать
			fmt.Printf("Warning: failed to create feedback index: %v\n", err)
		}
	}

	return &feedbackRepository{
		collection: collection,
	}
}

// Create создает новую запись обратной связи
// Дубликат по (event_id, receiver_id) отклоняется уникальным индексом
func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	timer := metrics.NewDbTimer("team-service", metrics.DbOpInsert, "feedback")
	defer timer.ObserveDuration()

	feedback.CreatedAt = time.Now()
	feedback.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateFeedback
		}
		metrics.RecordDbError("team-service", metrics.DbOpInsert)
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		feedback.ID = oid
	}

	return nil
}

// GetByID получает запись обратной связи по ID
func (r *feedbackRepository) GetByID(ctx context.Context, id string) (*entity.Feedback, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid feedback ID: %w", err)
	}

	var feedback entity.Feedback
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&feedback)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}

	return &feedback, nil
}

// GetByPair получает все записи обратной связи для пары (автор, игрок)
// Порядок стабильный - по времени создания
func (r *feedbackRepository) GetByPair(ctx context.Context, creatorID, receiverID string) ([]entity.Feedback, error) {
	filter := bson.M{"creator_id": creatorID, "receiver_id": receiverID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	return r.find(ctx, filter, opts)
}

// GetByEventID получает все записи обратной связи по событию
func (r *feedbackRepository) GetByEventID(ctx context.Context, eventID string) ([]entity.Feedback, error) {
	return r.find(ctx, bson.M{"event_id": eventID}, nil)
}

// GetByReceiverID получает все записи обратной связи об игроке
func (r *feedbackRepository) GetByReceiverID(ctx context.Context, receiverID string) ([]entity.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"receiver_id": receiverID}, opts)
}

// GetByParticipant получает записи, где пользователь является автором ИЛИ получателем
// Используется каскадом удаления пользователя
func (r *feedbackRepository) GetByParticipant(ctx context.Context, userID string) ([]entity.Feedback, error) {
	filter := bson.M{"$or": []bson.M{
		{"creator_id": userID},
		{"receiver_id": userID},
	}}
	return r.find(ctx, filter, nil)
}

// Delete удаляет одну запись обратной связи
func (r *feedbackRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid feedback ID: %w", err)
	}

	timer := metrics.NewDbTimer("team-service", metrics.DbOpDelete, "feedback")
	defer timer.ObserveDuration()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrFeedbackNotFound
	}

	return nil
}

// DeleteByEventID удаляет все записи обратной связи события
// Отсутствие записей не считается ошибкой - каскад должен быть идемпотентным
func (r *feedbackRepository) DeleteByEventID(ctx context.Context, eventID string) (int64, error) {
	timer := metrics.NewDbTimer("team-service", metrics.DbOpDelete, "feedback")
	defer timer.ObserveDuration()

	result, err := r.collection.DeleteMany(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete feedback by event: %w", err)
	}

	return result.DeletedCount, nil
}

// DeleteByParticipant удаляет все записи, где пользователь автор ИЛИ получатель
func (r *feedbackRepository) DeleteByParticipant(ctx context.Context, userID string) (int64, error) {
	timer := metrics.NewDbTimer("team-service", metrics.DbOpDelete, "feedback")
	defer timer.ObserveDuration()

	filter := bson.M{"$or": []bson.M{
		{"creator_id": userID},
		{"receiver_id": userID},
	}}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete feedback by participant: %w", err)
	}

	return result.DeletedCount, nil
}

func (r *feedbackRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]entity.Feedback, error) {
	timer := metrics.NewDbTimer("team-service", metrics.DbOpSelect, "feedback")
	defer timer.ObserveDuration()

	var cursor *mongo.Cursor
	var err error

	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find feedback: %w", err)
	}
	defer cursor.Close(ctx)

	var feedback []entity.Feedback
	if err := cursor.All(ctx, &feedback); err != nil {
		return nil, fmt.Errorf("failed to decode feedback: %w", err)
	}

	return feedback, nil
}
