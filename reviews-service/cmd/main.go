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

	"reviewdeck/pkg/logger"
	"reviewdeck/reviews-service/internal/app/reviews/config"
	"reviewdeck/reviews-service/internal/app/reviews/handler"
	"reviewdeck/reviews-service/internal/app/reviews/infrastructure"
	"reviewdeck/reviews-service/internal/app/reviews/infrastructure/messaging"
	"reviewdeck/reviews-service/internal/app/reviews/infrastructure/storage"
	"reviewdeck/reviews-service/internal/app/reviews/media"
	"reviewdeck/reviews-service/internal/app/reviews/processor"
	"reviewdeck/reviews-service/internal/app/reviews/repository"
	"reviewdeck/reviews-service/internal/app/reviews/service"
	"reviewdeck/reviews-service/internal/app/reviews/session"
)

const serviceName = "reviews-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Service:      serviceName,
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		LogstashAddr: cfg.Log.LogstashAddr,
	}); err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
	} else if cfg.Log.LogstashAddr != "" {
		logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
	}

	// Хранилище отзывов
	var reviewRepo repository.ReviewRepository
	if cfg.Store.UseMongo() {
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

		reviewRepo = repository.NewMongoReviewRepository(mongoClient.Database(cfg.MongoDB.Database))
	} else {
		reviewRepo = repository.NewMemoryReviewRepository()
		logger.Info().Msg("Using in-memory review store")
	}

	if cfg.Redis.Addr != "" {
		redisClient, err := repository.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, review list cache disabled")
		} else {
			defer redisClient.Close()
			reviewRepo = repository.NewCachedReviewRepository(reviewRepo, redisClient, cfg.Redis.CacheTTL)
			logger.Info().
				Str("addr", cfg.Redis.Addr).
				Dur("ttl", cfg.Redis.CacheTTL).
				Msg("Review list cache enabled")
		}
	}

	// События
	var publisher infrastructure.MessagePublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.BatchTimeout)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("Initialized Kafka producer")
	} else {
		publisher = infrastructure.NewDiscardPublisher(100)
		logger.Info().Msg("Kafka brokers not configured, review events are discarded")
	}
	defer publisher.Close()

	// Медиа
	var (
		mediaStore  storage.Storage
		mediaOpener storage.Opener
	)
	if cfg.Media.UseS3() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s3Store, err := storage.NewS3Storage(ctx, cfg.Media.S3)
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		mediaStore = s3Store
		logger.Info().Str("bucket", cfg.Media.S3.Bucket).Msg("Using S3 media storage")
	} else {
		maxObject := cfg.Media.MaxImageBytes
		if int64(cfg.Media.MaxAudioBytes) > maxObject {
			maxObject = int64(cfg.Media.MaxAudioBytes)
		}
		memStore := storage.NewMemoryStorage(cfg.Media.PublicBaseURL, maxObject)
		mediaStore = memStore
		mediaOpener = memStore
		logger.Info().Msg("Using in-memory media storage")
	}

	var microphone media.Microphone = media.DisabledMicrophone{}
	if cfg.Media.MicrophoneEnabled {
		microphone = media.NewUploadMicrophone(16, int(cfg.Media.MaxChunkBytes))
	}

	// Сервисы
	reviewService := service.NewReviewService(reviewRepo, publisher)

	if cfg.Store.SeedSampleReviews {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err := reviewService.SeedSampleReviews(ctx)
		cancel()
		if err != nil {
			logger.Error().Err(err).Msg("Failed to seed sample reviews")
		}
	}

	sessions := session.NewManager(session.Options{
		Microphone:    microphone,
		Storage:       mediaStore,
		MaxAudioBytes: cfg.Media.MaxAudioBytes,
	})
	sessionService := service.NewSessionService(
		sessions,
		reviewService,
		media.NewImageCapturer(mediaStore, cfg.Media.MaxImageBytes),
	)

	sweeper := processor.NewCronScheduler(sessions, cfg.Session.IdleTimeout)
	if err := sweeper.Start(cfg.Session.SweepSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start session sweeper")
	}

	// HTTP
	identity := handler.NewIdentityMiddleware(cfg.JWT.Secret)
	reviewHandler := handler.NewReviewHandler(reviewService, mediaOpener)
	sessionHandler := handler.NewSessionHandler(sessionService, cfg.Media.MaxChunkBytes)
	router := handler.SetupRoutes(reviewHandler, sessionHandler, identity, cfg.Server.AllowedOrigins)

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
			Msg("Starting Reviews Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Reviews Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	sweeper.Stop()
	sessions.CloseAll()

	logger.Info().Msg("Reviews Service stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		client, err = mongo.Connect(context.Background(), clientOptions)
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = client.Ping(pingCtx, nil)
			pingCancel()
			if err == nil {
				return client, nil
			}
			_ = client.Disconnect(context.Background())
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
