package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reviewdeck/pkg/logger"
	"reviewdeck/pkg/metrics"
	"reviewdeck/reviews-service/internal/app/reviews/entity"
	"reviewdeck/reviews-service/internal/app/reviews/filter"
	"reviewdeck/reviews-service/internal/app/reviews/infrastructure"
	"reviewdeck/reviews-service/internal/app/reviews/repository"
)

// ReviewService обрабатывает бизнес-логику отзывов
// Координирует работу репозитория и Kafka
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	kafkaProducer infrastructure.MessagePublisher
	now           func() time.Time
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		kafkaProducer: kafkaProducer,
		now:           time.Now,
	}
}

// AddReview проверяет черновик и ставит новый отзыв в начало ленты.
// При ошибке валидации хранилище не меняется.
func (s *ReviewService) AddReview(ctx context.Context, draft entity.ReviewDraft) (*entity.Review, error) {
	if err := draft.Validate(); err != nil {
		if ve, ok := entity.AsValidationError(err); ok {
			metrics.RecordValidationFailure(ve.FieldNames())
		}
		return nil, err
	}

	d := draft.Normalize()
	review := &entity.Review{
		ID:          entity.NewReviewID(),
		Author:      d.Author,
		ProductName: d.ProductName,
		Category:    d.Category,
		Rating:      d.Rating,
		Content:     d.Content,
		AudioURL:    d.AudioURL,
		ImageURL:    d.ImageURL,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.RecordReviewCreated(string(review.Category), review.Rating)
	logger.Info().
		Str("review_id", review.ID).
		Str("category", string(review.Category)).
		Int("rating", review.Rating).
		Msg("Review created")

	s.publish(ctx, entity.ReviewEvent{
		EventType:   entity.EventReviewCreated,
		ReviewID:    review.ID,
		ProductName: review.ProductName,
		Category:    review.Category,
		Rating:      review.Rating,
		Timestamp:   s.now().UTC(),
	})

	return review, nil
}

// ToggleVote применяет таблицу переходов голоса одним атомарным шагом
func (s *ReviewService) ToggleVote(ctx context.Context, reviewID, voterID string, voteType entity.VoteType) (*entity.Review, error) {
	if _, err := entity.ParseVoteType(string(voteType)); err != nil {
		metrics.RecordVote(string(voteType), "invalid")
		return nil, err
	}
	if err := entity.ValidateVoterID(voterID); err != nil {
		return nil, err
	}

	review, t, err := s.reviewRepo.ApplyVote(ctx, reviewID, voterID, voteType)
	if err != nil {
		if errors.Is(err, entity.ErrReviewNotFound) {
			metrics.RecordVote(string(voteType), "not_found")
			return nil, err
		}
		return nil, fmt.Errorf("failed to toggle vote: %w", err)
	}

	metrics.RecordVote(string(voteType), string(t.Outcome))
	logger.Debug().
		Str("review_id", reviewID).
		Str("voter_id", voterID).
		Str("outcome", string(t.Outcome)).
		Msg("Vote toggled")

	s.publish(ctx, entity.ReviewEvent{
		EventType:      entity.EventReviewVoted,
		ReviewID:       review.ID,
		ProductName:    review.ProductName,
		Category:       review.Category,
		Rating:         review.Rating,
		VoterID:        voterID,
		VoteType:       t.Next,
		HelpfulVotes:   review.HelpfulVotes,
		UnhelpfulVotes: review.UnhelpfulVotes,
		Timestamp:      s.now().UTC(),
	})

	out := review.ForVoter(voterID)
	return &out, nil
}

// ListVisible возвращает ленту после фильтра с голосом запросившего
func (s *ReviewService) ListVisible(ctx context.Context, voterID string, criteria entity.FilterCriteria) ([]entity.Review, error) {
	all, err := s.reviewRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	visible := filter.VisibleReviews(all, criteria)
	for i := range visible {
		visible[i] = visible[i].ForVoter(voterID)
	}
	return visible, nil
}

func (s *ReviewService) GetReview(ctx context.Context, reviewID, voterID string) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, entity.ErrReviewNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	out := review.ForVoter(voterID)
	return &out, nil
}

// SeedSampleReviews добавляет демонстрационные отзывы, если хранилище пустое
func (s *ReviewService) SeedSampleReviews(ctx context.Context) (int, error) {
	existing, err := s.reviewRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	samples := SampleReviews()
	// от старых к новым: Create ставит каждый следующий в начало
	for i := len(samples) - 1; i >= 0; i-- {
		if err := s.reviewRepo.Create(ctx, &samples[i]); err != nil {
			return 0, fmt.Errorf("failed to seed review %q: %w", samples[i].ProductName, err)
		}
	}

	logger.Info().Int("count", len(samples)).Msg("Seeded sample reviews")
	return len(samples), nil
}

// SampleReviews - демонстрационные отзывы, новые первыми
func SampleReviews() []entity.Review {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }

	return []entity.Review{
		{
			ID:             entity.NewReviewID(),
			Author:         "John Doe",
			ProductName:    "iPhone 15 Pro",
			Category:       entity.CategoryElectronics,
			Rating:         5,
			Content:        "Amazing phone with great camera quality. The titanium build feels premium and the battery life is excellent.",
			AudioURL:       "sample-audio-1.mp3",
			ImageURL:       "https://images.unsplash.com/photo-1592899677977-9c10ca588bbd?w=400",
			HelpfulVotes:   15,
			UnhelpfulVotes: 2,
			CreatedAt:      day(15),
		},
		{
			ID:             entity.NewReviewID(),
			Author:         "Sarah Smith",
			ProductName:    "AirPods Pro",
			Category:       entity.CategoryElectronics,
			Rating:         4,
			Content:        "Good noise cancellation but battery could be better. Sound quality is impressive for wireless earbuds.",
			HelpfulVotes:   8,
			UnhelpfulVotes: 1,
			CreatedAt:      day(14),
		},
		{
			ID:             entity.NewReviewID(),
			Author:         "Mike Johnson",
			ProductName:    "MacBook Air M2",
			Category:       entity.CategoryComputers,
			Rating:         5,
			Content:        "Perfect laptop for daily use. Fast, quiet, and excellent battery life. Highly recommended!",
			AudioURL:       "sample-audio-3.mp3",
			HelpfulVotes:   22,
			UnhelpfulVotes: 0,
			CreatedAt:      day(13),
		},
	}
}

// publish отправляет событие в Kafka; ошибка только логируется, операция уже выполнена
func (s *ReviewService) publish(ctx context.Context, event entity.ReviewEvent) {
	if err := s.publishReviewEvent(ctx, event); err != nil {
		logger.Error().
			Err(err).
			Str("event_type", event.EventType).
			Str("review_id", event.ReviewID).
			Msg("Failed to publish review event")
	}
}

func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	// ключ = ReviewID, события одного отзыва попадают в одну партицию
	if err := s.kafkaProducer.PublishMessage(ctx, event.ReviewID, eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
