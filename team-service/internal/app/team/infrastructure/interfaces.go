package infrastructure

import "context"

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
// Используется для dependency injection и упрощения тестирования
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// SummaryGenerator интерфейс генератора текстовых сводок по комментариям
type SummaryGenerator interface {
	Generate(ctx context.Context, comments []string) (string, error)
}
