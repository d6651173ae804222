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
// Пример запроса PromQL: rate(http_requests_total{service="product-composite"}[5m])
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
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests in seconds",
		// Бакеты для микросервисов: от 1ms до 10s
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
// Downstream Метрики (исходящие HTTP вызовы composite -> core сервисы)
// =============================================================================

// DownstreamRequestDuration - время вызова нижестоящего сервиса
var DownstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "downstream_request_duration_seconds",
		Help:    "Duration of outbound HTTP calls to core services",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	},
	[]string{"service", "target"},
)

// DownstreamErrors - ошибки вызовов нижестоящих сервисов
var DownstreamErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "downstream_errors_total",
		Help: "Total number of failed outbound calls to core services",
	},
	[]string{"service", "target", "kind"}, // kind: not_found, invalid_input, upstream, timeout
)

// =============================================================================
// Resilience Метрики (circuit breaker, retry, fallback)
// =============================================================================

// CircuitBreakerState - текущее состояние circuit breaker
// 0 = closed, 1 = open, 2 = half-open
var CircuitBreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
	},
	[]string{"service", "name"},
)

// CircuitBreakerTransitions - переходы между состояниями
var CircuitBreakerTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "circuit_breaker_transitions_total",
		Help: "Total number of circuit breaker state transitions",
	},
	[]string{"service", "name", "from", "to"},
)

// RetryAttempts - повторные попытки вызова
var RetryAttempts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "retry_attempts_total",
		Help: "Total number of retry attempts",
	},
	[]string{"service", "name"},
)

// FallbackCalls - вызовы fallback при открытом breaker
var FallbackCalls = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fallback_calls_total",
		Help: "Total number of fallback invocations",
	},
	[]string{"service", "name", "outcome"}, // outcome: product, not_found
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
// Database Метрики (MongoDB и PostgreSQL)
// =============================================================================

// DbQueryDuration - время выполнения запросов к хранилищу
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "collection"},
)

// DbErrors - счётчик ошибок хранилища
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

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Business Метрики (специфичные для product-info системы)
// =============================================================================

// --- Product Composite Service ---

// CompositeAggregations - собранные агрегаты
var CompositeAggregations = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "composite_aggregations_total",
		Help: "Total number of product aggregates assembled",
	},
)

// CompositePartialResponses - частичные ответы (пустые recommendations/reviews)
var CompositePartialResponses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "composite_partial_responses_total",
		Help: "Total number of aggregates returned with an empty optional leg",
	},
	[]string{"leg"}, // recommendations, reviews
)

// EventsPublished - команды, отправленные в шину
var EventsPublished = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "events_published_total",
		Help: "Total number of command events published to the bus",
	},
	[]string{"binding", "type"}, // type: CREATE, DELETE
)

// --- Core сервисы ---

// EventsProcessed - обработанные команды на стороне консьюмеров
var EventsProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "events_processed_total",
		Help: "Total number of command events processed by core services",
	},
	[]string{"service", "type", "status"}, // status: success, duplicate, failed
)
