package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"teamhub/pkg/metrics"
	"teamhub/team-service/internal/app/team/entity"
	"teamhub/team-service/internal/app/team/infrastructure"
	"teamhub/team-service/internal/app/team/repository"
)

// AnnouncementService публикует объявления клуба
// Объявление рассылается уведомлением каждому пользователю
type AnnouncementService struct {
	announcementRepo repository.AnnouncementRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	kafkaProducer    infrastructure.MessagePublisher
}

// NewAnnouncementService создает новый сервис объявлений с внедрением зависимостей
func NewAnnouncementService(
	announcementRepo repository.AnnouncementRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	kafkaProducer infrastructure.MessagePublisher,
) *AnnouncementService {
	return &AnnouncementService{
		announcementRepo: announcementRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		kafkaProducer:    kafkaProducer,
	}
}

// CreateAnnouncement публикует объявление и рассылает уведомления всем пользователям
// Отказ отдельного уведомления логируется и не прерывает рассылку
func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, creatorID string, req *entity.CreateAnnouncementRequest) (*entity.Announcement, error) {
	announcement := &entity.Announcement{
		Title:     req.Title,
		Body:      req.Body,
		CreatedBy: creatorID,
	}

	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		// Объявление уже опубликовано, рассылку теряем, но не откатываем
		fmt.Printf("failed to load users for announcement broadcast: %v\n", err)
		return announcement, nil
	}

	// Событие публикуется на каждого уведомлённого пользователя:
	// потребители ведут счётчики непрочитанного по subject_id
	for _, user := range users {
		notification := &entity.Notification{
			UserID:     user.ID.Hex(),
			Type:       entity.NotificationTypeAnnouncement,
			ActionLink: announcement.ID.Hex(),
			Section:    "announcements",
			Message:    announcement.Title,
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			fmt.Printf("failed to create announcement notification: %v\n", err)
			continue
		}
		metrics.NotificationsCreated.WithLabelValues(entity.NotificationTypeAnnouncement).Inc()

		s.publishTeamEvent(ctx, entity.TeamEvent{
			EventType:  entity.TeamEventAnnouncementCreated,
			ActorID:    creatorID,
			SubjectID:  user.ID.Hex(),
			ActionLink: announcement.ID.Hex(),
			Timestamp:  time.Now(),
		})
	}

	return announcement, nil
}

// GetAnnouncements получает все объявления, новые сверху
func (s *AnnouncementService) GetAnnouncements(ctx context.Context) ([]entity.Announcement, error) {
	announcements, err := s.announcementRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get announcements: %w", err)
	}

	return announcements, nil
}

func (s *AnnouncementService) publishTeamEvent(ctx context.Context, event entity.TeamEvent) {
	eventData, err := json.Marshal(event)
	if err != nil {
		fmt.Printf("failed to marshal team event: %v\n", err)
		return
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.SubjectID, eventData); err != nil {
		fmt.Printf("failed to publish team event: %v\n", err)
	}
}
