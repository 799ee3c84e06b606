package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewdeck/pkg/logger"
	"reviewdeck/pkg/metrics"
	"reviewdeck/reviews-service/internal/app/reviews/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	driverMongo     = "mongo"
	reviewsCollName = "reviews"
	maxVoteAttempts = 5
)

var ErrVoteConflict = errors.New("review was modified concurrently, vote not applied")

type reviewRepository struct {
	collection *mongo.Collection
}

// NewMongoReviewRepository создает репозиторий отзывов в MongoDB.
// Индекс по created_at нужен для выдачи ленты "новые первыми".
func NewMongoReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection(reviewsCollName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		},
		Options: options.Index().SetName("created_at_idx"),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// индекс может уже существовать
		logger.Warn().Err(err).Str("index", "created_at_idx").Msg("Failed to create index")
	}

	return &reviewRepository{
		collection: collection,
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) (err error) {
	timer := metrics.NewStoreTimer(driverMongo, metrics.StoreOpCreate)
	defer func() { timer.Done(err) }()

	if _, err = r.collection.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// List возвращает все отзывы, новые первыми; _id (UUIDv7) разрешает равные created_at
func (r *reviewRepository) List(ctx context.Context) (reviews []entity.Review, err error) {
	timer := metrics.NewStoreTimer(driverMongo, metrics.StoreOpList)
	defer func() { timer.Done(err) }()

	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews = []entity.Review{}
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (_ *entity.Review, err error) {
	timer := metrics.NewStoreTimer(driverMongo, metrics.StoreOpGet)
	defer func() {
		if errors.Is(err, entity.ErrReviewNotFound) {
			timer.Done(nil)
			return
		}
		timer.Done(err)
	}()

	var review entity.Review
	err = r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}

// ApplyVote - compare-and-set по полю votes.<voterID>: обновление проходит, только если
// голос не изменился с момента чтения, иначе попытка повторяется.
func (r *reviewRepository) ApplyVote(ctx context.Context, reviewID, voterID string, vote entity.VoteType) (_ *entity.Review, _ entity.VoteTransition, err error) {
	timer := metrics.NewStoreTimer(driverMongo, metrics.StoreOpVote)
	defer func() {
		if errors.Is(err, entity.ErrReviewNotFound) || errors.Is(err, entity.ErrInvalidVoteType) {
			timer.Done(nil)
			return
		}
		timer.Done(err)
	}()

	field := "votes." + voterID

	for attempt := 0; attempt < maxVoteAttempts; attempt++ {
		var current entity.Review
		err = r.collection.FindOne(ctx, bson.M{"_id": reviewID}).Decode(&current)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, entity.VoteTransition{}, entity.ErrReviewNotFound
			}
			return nil, entity.VoteTransition{}, fmt.Errorf("failed to get review: %w", err)
		}

		previous := current.Votes[voterID]
		var t entity.VoteTransition
		t, err = entity.NextVote(previous, vote)
		if err != nil {
			return nil, entity.VoteTransition{}, err
		}

		filter := bson.M{"_id": reviewID}
		if previous == entity.VoteNone {
			filter[field] = bson.M{"$exists": false}
		} else {
			filter[field] = string(previous)
		}

		update := bson.M{
			"$inc": bson.M{
				"helpful_votes":   t.HelpfulDelta,
				"unhelpful_votes": t.UnhelpfulDelta,
			},
		}
		if t.Next == entity.VoteNone {
			update["$unset"] = bson.M{field: ""}
		} else {
			update["$set"] = bson.M{field: string(t.Next)}
		}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

		var updated entity.Review
		err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
		if err == nil {
			updated.UserVote = t.Next
			return &updated, t, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.VoteTransition{}, fmt.Errorf("failed to update votes: %w", err)
		}

		logger.Debug().
			Str("review_id", reviewID).
			Int("attempt", attempt+1).
			Msg("Vote compare-and-set lost the race, retrying")
	}

	return nil, entity.VoteTransition{}, ErrVoteConflict
}
