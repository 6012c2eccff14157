package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config содержит все настройки приложения Activity Worker Service
// Включает конфигурацию для PostgreSQL, Redis и Kafka
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	HTTPPort string
}

// DatabaseConfig - настройки подключения к PostgreSQL
// Используется для хранения журнала активности клуба
type DatabaseConfig struct {
	Host     string // Хост PostgreSQL
	Port     string // Порт PostgreSQL
	User     string // Имя пользователя БД
	Password string // Пароль БД
	DBName   string // Имя базы данных (activity_service)
	SSLMode  string // Режим SSL (disable/require/verify-full)
}

// RedisConfig - настройки подключения к Redis
// Используется для счётчиков непрочитанной активности
type RedisConfig struct {
	Host     string // Хост Redis
	Port     string // Порт Redis
	Password string // Пароль Redis
	DB       int    // Номер БД Redis
}

// KafkaConfig - настройки Kafka для подписки на события
// Слушает топик team_events
type KafkaConfig struct {
	Brokers  []string // Список брокеров Kafka (формат: host:port)
	Topic    string   // Топик для прослушивания (team_events)
	GroupID  string   // ID группы потребителей для распределения нагрузки
	MinBytes int      // Минимум байт для fetch запроса
	MaxBytes int      // Максимум байт для fetch запроса
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "activity_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 1), // Отдельная БД для счётчиков активности
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:    getEnv("KAFKA_TOPIC", "team_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "activity-worker-group"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),    // 1 byte minimum
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6), // 10MB maximum
		},
		HTTPPort: getEnv("HTTP_PORT", "8080"),
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
