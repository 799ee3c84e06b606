package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "STORE_DRIVER", "KAFKA_BROKERS", "REDIS_ADDR", "JWT_SECRET", "AWS_S3_BUCKET", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8083", cfg.Server.Address())
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Store.UseMongo())
	assert.True(t, cfg.Store.SeedSampleReviews)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.JWT.Secret)
	assert.False(t, cfg.Media.UseS3())
	assert.True(t, cfg.Media.MicrophoneEnabled)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, "@every 1m", cfg.Session.SweepSchedule)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("SEED_SAMPLE_REVIEWS", "false")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_CACHE_TTL", "2m")
	t.Setenv("MEDIA_MICROPHONE_ENABLED", "0")
	t.Setenv("AWS_S3_BUCKET", "reviews-media")
	t.Setenv("SESSION_IDLE_TIMEOUT", "5m")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000,https://reviews.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Address())
	assert.True(t, cfg.Store.UseMongo())
	assert.False(t, cfg.Store.SeedSampleReviews)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 2*time.Minute, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Media.MicrophoneEnabled)
	assert.True(t, cfg.Media.UseS3())
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://reviews.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("REDIS_CACHE_TTL", "-1s")
	t.Setenv("SEED_SAMPLE_REVIEWS", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.True(t, cfg.Store.SeedSampleReviews)
}
