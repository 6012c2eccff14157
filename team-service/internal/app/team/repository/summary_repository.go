package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamhub/pkg/metrics"
	"teamhub/team-service/internal/app/team/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrSummaryNotFound = errors.New("feedback summary not found")
)

type summaryRepository struct {
	collection *mongo.Collection
}

// NewSummaryRepository создает новый репозиторий сводок обратной связи
// Уникальный индекс (creator_id, receiver_id) - единственный механизм защиты
// от дублей при конкурентных пересчётах
func NewSummaryRepository(db *mongo.Database) SummaryRepository {
	collection := db.Collection("feedback_summaries")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pairIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "creator_id", Value: 1},
			{Key: "receiver_id", Value: 1},
		},
		Options: options.Index().SetName("creator_receiver_unique_idx").SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, pairIndex); err != nil {
		fmt.Printf("Warning: failed to create summary pair index: %v\n", err)
	}

	receiverIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "receiver_id", Value: 1},
		},
		Options: options.Index().SetName("receiver_id_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, receiverIndex); err != nil {
		fmt.Printf("Warning: failed to create summary receiver index: %v\n", err)
	}

	return &summaryRepository{
		collection: collection,
	}
}

// GetByPair получает сводку для пары (автор, игрок)
func (r *summaryRepository) GetByPair(ctx context.Context, creatorID, receiverID string) (*entity.FeedbackSummary, error) {
	timer := metrics.NewDbTimer("team-service", metrics.DbOpSelect, "feedback_summaries")
	defer timer.ObserveDuration()

	filter := bson.M{"creator_id": creatorID, "receiver_id": receiverID}

	var summary entity.FeedbackSummary
	err := r.collection.FindOne(ctx, filter).Decode(&summary)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSummaryNotFound
		}
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	return &summary, nil
}

// GetByReceiverID получает все сводки об игроке от разных авторов
func (r *summaryRepository) GetByReceiverID(ctx context.Context, receiverID string) ([]entity.FeedbackSummary, error) {
	timer := metrics.NewDbTimer("team-service", metrics.DbOpSelect, "feedback_summaries")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "last_updated", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"receiver_id": receiverID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []entity.FeedbackSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode summaries: %w", err)
	}

	return summaries, nil
}

// Upsert атомарно создает или полностью заменяет сводку пары
// Один ReplaceOne с upsert против уникального индекса: конкурентные пересчёты
// не создают дублей, побеждает последняя завершившаяся запись
func (r *summaryRepository) Upsert(ctx context.Context, summary *entity.FeedbackSummary) error {
	filter := bson.M{
		"creator_id":  summary.CreatorID,
		"receiver_id": summary.ReceiverID,
	}
	opts := options.Replace().SetUpsert(true)

	timer := metrics.NewDbTimer("team-service", metrics.DbOpUpdate, "feedback_summaries")
	defer timer.ObserveDuration()

	if _, err := r.collection.ReplaceOne(ctx, filter, summary, opts); err != nil {
		metrics.RecordDbError("team-service", metrics.DbOpUpdate)
		return fmt.Errorf("failed to upsert summary: %w", err)
	}

	return nil
}

// DeleteByPair удаляет сводку пары
// Отсутствие документа не ошибка: каскад может вызывать удаление повторно
func (r *summaryRepository) DeleteByPair(ctx context.Context, creatorID, receiverID string) error {
	filter := bson.M{"creator_id": creatorID, "receiver_id": receiverID}

	timer := metrics.NewDbTimer("team-service", metrics.DbOpDelete, "feedback_summaries")
	defer timer.ObserveDuration()

	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete summary: %w", err)
	}

	return nil
}
