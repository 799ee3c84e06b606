package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP метрики
// =============================================================================

// HttpRequestsTotal - счётчик HTTP запросов
// Labels: service, method, route, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "route", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "route"},
)

// HttpRequestsInFlight - запросы в обработке
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Хранилища
// =============================================================================

// StoreOperationDuration - время операций хранилища отзывов (memory, mongo)
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "store_operation_duration_seconds",
		Help:    "Duration of review store operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"driver", "operation"},
)

// StoreErrors - ошибки хранилища
var StoreErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_errors_total",
		Help: "Total number of review store errors",
	},
	[]string{"driver", "operation"},
)

// RedisCacheHits - попадания в кеш списка отзывов
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"key"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"key"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"operation"},
)

// =============================================================================
// Kafka
// =============================================================================

var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"topic"},
)

var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"topic"},
)

var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"topic"},
)

// =============================================================================
// Отзывы и голоса
// =============================================================================

// ReviewsCreated - созданные отзывы по категориям
var ReviewsCreated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reviews_created_total",
		Help: "Total number of reviews created",
	},
	[]string{"category"},
)

// ReviewsRating - распределение оценок
var ReviewsRating = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "reviews_rating",
		Help:    "Distribution of review ratings",
		Buckets: []float64{1, 2, 3, 4, 5},
	},
)

// ReviewValidationFailures - отклоненные отправки по полям
var ReviewValidationFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "review_validation_failures_total",
		Help: "Total number of rejected review submissions by field",
	},
	[]string{"field"},
)

// VotesToggled - переключения голосов
// result: added, retracted, switched
var VotesToggled = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "review_votes_toggled_total",
		Help: "Total number of vote toggles",
	},
	[]string{"vote_type", "result"},
)

// =============================================================================
// Медиа и сессии
// =============================================================================

// AudioRecordings - завершенные записи
// status: finalized, aborted, denied, failed
var AudioRecordings = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "media_audio_recordings_total",
		Help: "Total number of audio recordings by outcome",
	},
	[]string{"status"},
)

// AudioRecordingBytes - размер финализированной записи
var AudioRecordingBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "media_audio_recording_bytes",
		Help:    "Size of finalized audio recordings",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	},
)

// ImageCaptures - захваты изображений
// status: captured, unreadable
var ImageCaptures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "media_image_captures_total",
		Help: "Total number of image captures by outcome",
	},
	[]string{"status"},
)

// PlaybackStarts - запуски воспроизведения
var PlaybackStarts = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "media_playback_starts_total",
		Help: "Total number of audio playbacks started",
	},
)

// SessionsActive - активные сессии устройств
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "sessions_active",
		Help: "Number of active device sessions",
	},
)

// SessionsExpired - сессии, закрытые планировщиком
var SessionsExpired = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "sessions_expired_total",
		Help: "Total number of idle sessions expired by the sweeper",
	},
)
