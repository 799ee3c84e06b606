package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"reviewdeck/reviews-service/internal/app/reviews/infrastructure/storage"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	JWT     JWTConfig
	Media   MediaConfig
	Session SessionConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host           string   // Адрес хоста (по умолчанию 0.0.0.0)
	Port           string   // Порт сервера (по умолчанию 8083)
	AllowedOrigins []string // CORS; пусто или "*" - любой origin
}

type StoreConfig struct {
	Driver            string // memory или mongo
	SeedSampleReviews bool   // заполнить пустое хранилище примерами при старте
}

type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB
	Database string // Имя базы данных
}

type RedisConfig struct {
	Addr     string // host:port; пусто - кэш списка выключен
	Password string
	DB       int
	CacheTTL time.Duration
}

type KafkaConfig struct {
	Brokers      []string // Список брокеров Kafka (формат: host:port); пусто - события не отправляются
	Topic        string   // Топик для событий REVIEW_CREATED и REVIEW_VOTED
	BatchTimeout time.Duration
}

type JWTConfig struct {
	Secret string // Секрет для проверки JWT; пусто - голосующий определяется только по X-Device-ID
}

type MediaConfig struct {
	PublicBaseURL     string // префикс ссылок на медиа из памяти
	MaxAudioBytes     int
	MaxChunkBytes     int64
	MaxImageBytes     int64
	MicrophoneEnabled bool
	S3                storage.S3Config // S3 используется, если задан бакет
}

type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepSchedule string // cron выражение очистки неактивных сессий
}

type LogConfig struct {
	Level        string
	Format       string
	LogstashAddr string
}

func Load() (*Config, error) {
	// .env не обязателен
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8083"),
			AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", nil),
		},
		Store: StoreConfig{
			Driver:            strings.ToLower(getEnv("STORE_DRIVER", "memory")),
			SeedSampleReviews: getEnvBool("SEED_SAMPLE_REVIEWS", true),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "reviews_service"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			CacheTTL: getEnvDuration("REDIS_CACHE_TTL", 30*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:      getEnvSlice("KAFKA_BROKERS", nil),
			Topic:        getEnv("KAFKA_TOPIC", "review_events"),
			BatchTimeout: getEnvDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Media: MediaConfig{
			PublicBaseURL:     getEnv("MEDIA_PUBLIC_BASE_URL", ""),
			MaxAudioBytes:     getEnvInt("MEDIA_MAX_AUDIO_BYTES", 10<<20),
			MaxChunkBytes:     int64(getEnvInt("MEDIA_MAX_CHUNK_BYTES", 1<<20)),
			MaxImageBytes:     int64(getEnvInt("MEDIA_MAX_IMAGE_BYTES", 5<<20)),
			MicrophoneEnabled: getEnvBool("MEDIA_MICROPHONE_ENABLED", true),
			S3: storage.S3Config{
				Region:          getEnv("AWS_REGION", "us-east-1"),
				Bucket:          getEnv("AWS_S3_BUCKET", ""),
				AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				Endpoint:        getEnv("AWS_S3_ENDPOINT", ""),
				PublicBaseURL:   getEnv("AWS_S3_BASE_URL", ""),
			},
		},
		Session: SessionConfig{
			IdleTimeout:   getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
			SweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@every 1m"),
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			Format:       getEnv("LOG_FORMAT", "json"),
			LogstashAddr: getEnv("LOGSTASH_ADDR", ""),
		},
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *StoreConfig) UseMongo() bool {
	return c.Driver == "mongo" || c.Driver == "mongodb"
}

func (c *MediaConfig) UseS3() bool {
	return c.S3.Bucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// getEnvSlice разбирает список через запятую, пустые элементы отбрасываются
func getEnvSlice(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var result []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
