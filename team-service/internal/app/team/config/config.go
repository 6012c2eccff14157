package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	JWT        JWTConfig
	SummaryAPI SummaryAPIConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8084)
}

type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB
	Database string // Имя базы данных
}

type RedisConfig struct {
	Addr     string // Адрес Redis (host:port)
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // Топик для доменных событий клуба
}

type JWTConfig struct {
	Secret string // Секретный ключ для проверки JWT токенов
}

type SummaryAPIConfig struct {
	URL        string // Адрес внешнего API генерации сводок
	APIKey     string
	TimeoutSec int
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8084"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "team_service"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "team_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		SummaryAPI: SummaryAPIConfig{
			URL:        getEnv("SUMMARY_API_URL", "http://localhost:8090/generate"),
			APIKey:     getEnv("SUMMARY_API_KEY", ""),
			TimeoutSec: getEnvInt("SUMMARY_API_TIMEOUT_SEC", 10),
		},
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
