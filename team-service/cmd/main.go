package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"teamhub/pkg/logger"
	"teamhub/team-service/internal/app/team/config"
	"teamhub/team-service/internal/app/team/handler"
	infrahttp "teamhub/team-service/internal/app/team/infrastructure/http"
	"teamhub/team-service/internal/app/team/infrastructure/messaging"
	"teamhub/team-service/internal/app/team/repository"
	"teamhub/team-service/internal/app/team/service"
	"teamhub/team-service/internal/app/team/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("team-service", logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, "team-service", logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Кэш сводок опционален: без Redis сервис работает напрямую с MongoDB
	var summaryCache util.SummaryCache
	redisClient, err := util.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis, summary cache disabled")
	} else {
		summaryCache = redisClient
		defer redisClient.Close()
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	}

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Msg("Initialized Kafka producer")

	feedbackRepo := repository.NewFeedbackRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	eventRepo := repository.NewEventRepository(db)
	userRepo := repository.NewUserRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)

	summaryGenerator := infrahttp.NewSummaryAPIClient(cfg.SummaryAPI.URL, cfg.SummaryAPI.APIKey, cfg.SummaryAPI.TimeoutSec)

	summaryService := service.NewSummaryService(feedbackRepo, summaryRepo, summaryGenerator, summaryCache)
	feedbackService := service.NewFeedbackService(feedbackRepo, eventRepo, notificationRepo, summaryService, kafkaProducer)
	eventService := service.NewEventService(eventRepo, feedbackRepo, notificationRepo, summaryService, kafkaProducer)
	userService := service.NewUserService(userRepo, feedbackRepo, notificationRepo, summaryService, kafkaProducer)
	notificationService := service.NewNotificationService(notificationRepo)
	announcementService := service.NewAnnouncementService(announcementRepo, userRepo, notificationRepo, kafkaProducer)

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	router := handler.SetupRoutes(
		handler.NewUserHandler(userService),
		handler.NewEventHandler(eventService),
		handler.NewFeedbackHandler(feedbackService),
		handler.NewSummaryHandler(summaryService),
		handler.NewNotificationHandler(notificationService),
		handler.NewAnnouncementHandler(announcementService),
		authMiddleware,
	)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Team Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Team Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Team Service stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err = mongo.Connect(ctx, clientOptions)
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pingCancel()

			if err = client.Ping(pingCtx, nil); err == nil {
				return client, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
