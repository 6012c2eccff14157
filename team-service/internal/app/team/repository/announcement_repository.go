package repository

import (
	"context"
	"fmt"
	"time"

	"teamhub/team-service/internal/app/team/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type announcementRepository struct {
	collection *mongo.Collection
}

// NewAnnouncementRepository создает новый репозиторий объявлений клуба
func NewAnnouncementRepository(db *mongo.Database) AnnouncementRepository {
	return &announcementRepository{
		collection: db.Collection("announcements"),
	}
}

// Create создает новое объявление
func (r *announcementRepository) Create(ctx context.Context, announcement *entity.Announcement) error {
	announcement.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, announcement)
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		announcement.ID = oid
	}

	return nil
}

// GetAll получает все объявления, новые сверху
func (r *announcementRepository) GetAll(ctx context.Context) ([]entity.Announcement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find announcements: %w", err)
	}
	defer cursor.Close(ctx)

	var announcements []entity.Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, fmt.Errorf("failed to decode announcements: %w", err)
	}

	return announcements, nil
}
