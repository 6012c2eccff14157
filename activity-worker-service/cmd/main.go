package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamhub/activity-worker-service/internal/app/activity-worker/config"
	"teamhub/activity-worker-service/internal/app/activity-worker/entity"
	"teamhub/activity-worker-service/internal/app/activity-worker/handler"
	"teamhub/activity-worker-service/internal/app/activity-worker/processor"
	"teamhub/activity-worker-service/internal/app/activity-worker/repository"
	"teamhub/activity-worker-service/internal/app/activity-worker/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	log.Println("Starting Activity Worker Service...")

	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Создаем основной контекст приложения
	ctx := context.Background()

	// === ПОДКЛЮЧЕНИЕ К POSTGRESQL ===
	// Журнал активности клуба
	db, err := connectDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to PostgreSQL (activity_service)")

	// Миграция схемы журнала активности
	if err := db.AutoMigrate(&entity.ActivityRecord{}); err != nil {
		log.Fatalf("Failed to migrate activity schema: %v", err)
	}

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis используется для счётчиков непрочитанной активности
	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Successfully connected to Redis")

	// === ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ ===
	activityRepo := repository.NewActivityRepository(db)
	counterRepo := repository.NewCounterRepository(redisClient)
	log.Println("Repositories initialized")

	// === ИНИЦИАЛИЗАЦИЯ СЕРВИСОВ ===
	activitySvc := service.NewActivityService(activityRepo, counterRepo)
	log.Println("Services initialized")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA CONSUMER ===
	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		activitySvc,
	)

	// Запускаем Kafka consumer
	kafkaConsumer.Start(ctx)
	defer kafkaConsumer.Stop()
	log.Printf("Kafka consumer started (topic: %s, group: %s)", cfg.Kafka.Topic, cfg.Kafka.GroupID)

	// === ИНИЦИАЛИЗАЦИЯ HEALTHCHECK HTTP СЕРВЕРА ===
	healthHandler := handler.NewHealthCheckHandler(db, redisClient)

	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: mux,
	}

	// Запускаем HTTP сервер в отдельной горутине
	go func() {
		log.Printf("Starting healthcheck HTTP server on :%s...", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	// === ЗАПУСК ЗАВЕРШЕН ===
	log.Println("Activity Worker Service is running")
	log.Println("Waiting for team events from Kafka...")

	// === GRACEFUL SHUTDOWN ===
	// Ожидаем сигнала завершения (SIGINT или SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Activity Worker Service...")
	log.Println("Activity Worker Service stopped gracefully")
}

// connectDB устанавливает соединение с PostgreSQL используя GORM
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	// Retry logic для устойчивости при запуске в Docker
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				if pingErr := sqlDB.Ping(); pingErr != nil {
					err = pingErr
				} else {
					// Настраиваем connection pool
					sqlDB.SetMaxOpenConns(10)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		log.Printf("Failed to connect to database (attempt %d/10): %v", i+1, err)
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

// connectRedis устанавливает соединение с Redis
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Проверяем соединение с retry logic
	for i := 0; i < 10; i++ {
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		log.Printf("Failed to connect to Redis (attempt %d/10)", i+1)
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to Redis after 10 attempts")
}
