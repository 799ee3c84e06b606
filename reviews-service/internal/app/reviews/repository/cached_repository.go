package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reviewdeck/pkg/logger"
	"reviewdeck/pkg/metrics"
	"reviewdeck/reviews-service/internal/app/reviews/entity"

	"github.com/redis/go-redis/v9"
)

const (
	reviewListCacheKey   = "reviews:list"
	reviewListVersionKey = "reviews:list:version"
)

// errStaleSnapshot снимок прочитан до последней инвалидации
var errStaleSnapshot = errors.New("review list changed while loading")

// cachedReview сохраняет карту голосов, которая не попадает в публичный JSON
type cachedReview struct {
	entity.Review
	Votes map[string]entity.VoteType `json:"votes,omitempty"`
}

// cachedReviewRepository - read-through кеш ленты в Redis поверх основного хранилища.
// Любая запись сбрасывает кеш и увеличивает версию ленты, снимок сохраняется
// только если версия не менялась с начала чтения. Ошибки Redis не ломают чтение.
type cachedReviewRepository struct {
	next   ReviewRepository
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func NewCachedReviewRepository(next ReviewRepository, client *redis.Client, ttl time.Duration) ReviewRepository {
	return &cachedReviewRepository{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

func (r *cachedReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if err := r.next.Create(ctx, review); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *cachedReviewRepository) List(ctx context.Context) ([]entity.Review, error) {
	if reviews, ok := r.load(ctx); ok {
		metrics.RecordCacheHit(reviewListCacheKey)
		return reviews, nil
	}
	metrics.RecordCacheMiss(reviewListCacheKey)

	version, versionOK := r.version(ctx)

	reviews, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	if versionOK {
		r.store(ctx, version, reviews)
	}
	return reviews, nil
}

func (r *cachedReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	return r.next.GetByID(ctx, id)
}

func (r *cachedReviewRepository) ApplyVote(ctx context.Context, reviewID, voterID string, vote entity.VoteType) (*entity.Review, entity.VoteTransition, error) {
	review, t, err := r.next.ApplyVote(ctx, reviewID, voterID, vote)
	if err != nil {
		return nil, t, err
	}
	r.invalidate(ctx)
	return review, t, nil
}

func (r *cachedReviewRepository) load(ctx context.Context) ([]entity.Review, bool) {
	data, err := r.client.Get(ctx, reviewListCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.RecordRedisError("get")
			logger.Warn().Err(err).Msg("Failed to read review list from cache")
		}
		return nil, false
	}

	var cached []cachedReview
	if err := json.Unmarshal(data, &cached); err != nil {
		logger.Warn().Err(err).Msg("Failed to decode cached review list")
		return nil, false
	}

	reviews := make([]entity.Review, len(cached))
	for i, c := range cached {
		reviews[i] = c.Review
		reviews[i].Votes = c.Votes
	}
	return reviews, true
}

func (r *cachedReviewRepository) version(ctx context.Context) (int64, bool) {
	v, err := r.client.Get(ctx, reviewListVersionKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, true
		}
		metrics.RecordRedisError("get")
		logger.Warn().Err(err).Msg("Failed to read review list version")
		return 0, false
	}
	return v, true
}

func (r *cachedReviewRepository) store(ctx context.Context, version int64, reviews []entity.Review) {
	cached := make([]cachedReview, len(reviews))
	for i, review := range reviews {
		cached[i] = cachedReview{Review: review, Votes: review.Votes}
	}

	data, err := json.Marshal(cached)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to encode review list for cache")
		return
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, reviewListVersionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, reviewListCacheKey, data, r.ttl)
			return nil
		})
		return err
	}, reviewListVersionKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleSnapshot), errors.Is(err, redis.TxFailedErr):
		logger.Debug().Int64("version", version).Msg("Skipped caching stale review list")
	default:
		metrics.RecordRedisError("set")
		logger.Warn().Err(err).Msg("Failed to cache review list")
	}
}

func (r *cachedReviewRepository) invalidate(ctx context.Context) {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, reviewListVersionKey)
		pipe.Del(ctx, reviewListCacheKey)
		return nil
	})
	if err != nil {
		metrics.RecordRedisError("del")
		logger.Warn().Err(err).Msg("Failed to invalidate review list cache")
	}
}
