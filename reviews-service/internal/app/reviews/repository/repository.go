package repository

import (
	"context"

	"reviewdeck/reviews-service/internal/app/reviews/entity"
)

// ReviewRepository - хранилище отзывов.
// Отзывы возвращаются в порядке "новые первыми"; голоса хранятся по voter id.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	List(ctx context.Context) ([]entity.Review, error)
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	// ApplyVote атомарно переключает голос voterID и возвращает обновленный отзыв
	ApplyVote(ctx context.Context, reviewID, voterID string, vote entity.VoteType) (*entity.Review, entity.VoteTransition, error)
}
