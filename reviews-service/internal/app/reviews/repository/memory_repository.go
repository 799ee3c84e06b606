package repository

import (
	"context"
	"sync"

	"reviewdeck/pkg/metrics"
	"reviewdeck/reviews-service/internal/app/reviews/entity"
)

const driverMemory = "memory"

// memoryReviewRepository живет столько же, сколько процесс
type memoryReviewRepository struct {
	mu      sync.RWMutex
	reviews []entity.Review // новые первыми
}

func NewMemoryReviewRepository() ReviewRepository {
	return &memoryReviewRepository{}
}

// Create ставит отзыв перед всеми существующими
func (r *memoryReviewRepository) Create(_ context.Context, review *entity.Review) error {
	timer := metrics.NewStoreTimer(driverMemory, metrics.StoreOpCreate)

	r.mu.Lock()
	defer r.mu.Unlock()

	reviews := make([]entity.Review, 0, len(r.reviews)+1)
	reviews = append(reviews, review.Clone())
	reviews = append(reviews, r.reviews...)
	r.reviews = reviews

	timer.Done(nil)
	return nil
}

func (r *memoryReviewRepository) List(_ context.Context) ([]entity.Review, error) {
	timer := metrics.NewStoreTimer(driverMemory, metrics.StoreOpList)
	defer timer.Done(nil)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Review, len(r.reviews))
	for i := range r.reviews {
		out[i] = r.reviews[i].Clone()
	}
	return out, nil
}

func (r *memoryReviewRepository) GetByID(_ context.Context, id string) (*entity.Review, error) {
	timer := metrics.NewStoreTimer(driverMemory, metrics.StoreOpGet)
	defer timer.Done(nil)

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, entity.ErrReviewNotFound
	}
	review := r.reviews[i].Clone()
	return &review, nil
}

func (r *memoryReviewRepository) ApplyVote(_ context.Context, reviewID, voterID string, vote entity.VoteType) (*entity.Review, entity.VoteTransition, error) {
	timer := metrics.NewStoreTimer(driverMemory, metrics.StoreOpVote)

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(reviewID)
	if i < 0 {
		timer.Done(nil)
		return nil, entity.VoteTransition{}, entity.ErrReviewNotFound
	}

	review := r.reviews[i].Clone()
	t, err := review.ApplyVote(voterID, vote)
	if err != nil {
		timer.Done(err)
		return nil, entity.VoteTransition{}, err
	}
	r.reviews[i] = review

	timer.Done(nil)
	out := review.Clone()
	return &out, t, nil
}

func (r *memoryReviewRepository) indexOf(id string) int {
	for i := range r.reviews {
		if r.reviews[i].ID == id {
			return i
		}
	}
	return -1
}
