package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики (общие для всех сервисов)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики
// =============================================================================

// DbQueryDuration - время выполнения запросов к БД (Mongo и PostgreSQL)
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisOperationDuration - время операций Redis
var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaMessagesConsumed - полученные сообщения
var KafkaMessagesConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total",
		Help: "Total number of Kafka messages consumed",
	},
	[]string{"service", "topic", "group"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaConsumeDuration - время обработки сообщения
var KafkaConsumeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_consume_duration_seconds",
		Help:    "Duration of Kafka message processing",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"}, // operation: produce, consume
)

// =============================================================================
// Business Метрики (специфичные для Teamhub)
// =============================================================================

// --- Team Service ---

// FeedbackCreated - созданные записи обратной связи
var FeedbackCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "team_feedback_created_total",
		Help: "Total number of feedback records created",
	},
	[]string{"satisfaction"}, // good, neutral, bad
)

// SummaryRecomputes - пересчёты агрегатов обратной связи
// result: updated (upsert выполнен), deleted (записей не осталось, сводка удалена)
var SummaryRecomputes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "team_summary_recomputes_total",
		Help: "Total number of feedback summary recomputations",
	},
	[]string{"result"},
)

// SummaryGenerationFailures - отказы генератора текстовой сводки
// Генератор деградирует в заглушку, счётчик нужен для алертинга
var SummaryGenerationFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "team_summary_generation_failures_total",
		Help: "Total number of summary text generation failures",
	},
)

// CascadePairFailures - пары, пересчёт которых упал внутри каскада
var CascadePairFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "team_cascade_pair_failures_total",
		Help: "Total number of pair recomputations failed during cascades",
	},
	[]string{"trigger"}, // event_deleted, user_deleted
)

// NotificationsCreated - созданные уведомления
var NotificationsCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "team_notifications_created_total",
		Help: "Total number of notifications created",
	},
	[]string{"type"}, // feedback, event, announcement
)

// --- Activity Worker ---

// WorkerEventsProcessed - обработанные события из team_events
var WorkerEventsProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worker_team_events_processed_total",
		Help: "Total number of team events processed by the activity worker",
	},
	[]string{"event_type", "status"}, // status: success, duplicate, failed
)

// WorkerProcessingDuration - время обработки одного события
var WorkerProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "worker_event_processing_duration_seconds",
		Help:    "Duration of team event processing in the activity worker",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	},
)
