//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"reviewdeck/reviews-service/internal/app/reviews/entity"
	"reviewdeck/reviews-service/internal/app/reviews/handler"
	"reviewdeck/reviews-service/internal/app/reviews/infrastructure/storage"
	"reviewdeck/reviews-service/internal/app/reviews/media"
	"reviewdeck/reviews-service/internal/app/reviews/repository"
	"reviewdeck/reviews-service/internal/app/reviews/service"
	"reviewdeck/reviews-service/internal/app/reviews/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MockKafkaProducer struct {
	mu sync.Mutex
	mock.Mock
	Messages [][]byte
}

func (m *MockKafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.Messages = append(m.Messages, value)
	m.mu.Unlock()
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockKafkaProducer) Close() error { return nil }

type ReviewsIntegrationTestSuite struct {
	suite.Suite
	client        *mongo.Client
	db            *mongo.Database
	router        *gin.Engine
	reviewService *service.ReviewService
	kafkaProducer *MockKafkaProducer
}

func TestReviewsIntegrationSuite(t *testing.T) {
	suite.Run(t, new(ReviewsIntegrationTestSuite))
}

func (s *ReviewsIntegrationTestSuite) SetupSuite() {
	mongoURI := getEnv("TEST_MONGODB_URI", "mongodb://localhost:27018")
	dbName := getEnv("TEST_MONGODB_DATABASE", "reviews_test_db")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	s.client, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	s.Require().NoError(err)
	s.Require().NoError(s.client.Ping(ctx, nil))

	s.db = s.client.Database(dbName)
}

func (s *ReviewsIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	s.db.Collection("reviews").Drop(ctx)

	s.kafkaProducer = &MockKafkaProducer{}
	s.kafkaProducer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// репозиторий создается после Drop, чтобы индекс был на месте
	reviewRepo := repository.NewMongoReviewRepository(s.db)
	s.reviewService = service.NewReviewService(reviewRepo, s.kafkaProducer)

	store := storage.NewMemoryStorage("http://test", 0)
	sessions := service.NewSessionService(
		session.NewManager(session.Options{Microphone: media.NewUploadMicrophone(4, 0), Storage: store}),
		s.reviewService,
		media.NewImageCapturer(store, 1<<20),
	)

	gin.SetMode(gin.TestMode)
	s.router = handler.SetupRoutes(
		handler.NewReviewHandler(s.reviewService, store),
		handler.NewSessionHandler(sessions, 1<<20),
		handler.NewIdentityMiddleware(""),
		nil,
	)
}

func (s *ReviewsIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.db.Drop(ctx)
		s.client.Disconnect(ctx)
	}
}

func (s *ReviewsIntegrationTestSuite) request(method, path, deviceID string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if deviceID != "" {
		req.Header.Set(handler.DeviceIDHeader, deviceID)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ReviewsIntegrationTestSuite) createReview(product string, rating int) entity.Review {
	w := s.request(http.MethodPost, "/reviews", "", entity.CreateReviewRequest{
		ProductName: product,
		Category:    string(entity.CategoryElectronics),
		Rating:      rating,
		Content:     "Test review text here.",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	var review entity.Review
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &review))
	return review
}

func (s *ReviewsIntegrationTestSuite) TestCreateReview_Success() {
	created := s.createReview("Kindle", 5)

	s.NotEmpty(created.ID)
	s.Equal(entity.AnonymousAuthor, created.Author)
	s.Len(s.kafkaProducer.Messages, 1)

	var event entity.ReviewEvent
	s.Require().NoError(json.Unmarshal(s.kafkaProducer.Messages[0], &event))
	s.Equal(entity.EventReviewCreated, event.EventType)
	s.Equal(created.ID, event.ReviewID)
}

func (s *ReviewsIntegrationTestSuite) TestListReviews_NewestFirst() {
	for i := 1; i <= 3; i++ {
		s.createReview(fmt.Sprintf("Product %d", i), i+2)
	}

	w := s.request(http.MethodGet, "/reviews", "", nil)
	s.Equal(http.StatusOK, w.Code)

	var response entity.ReviewListResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	s.Require().Equal(3, response.Total)
	s.Equal("Product 3", response.Reviews[0].ProductName)
	s.Equal("Product 1", response.Reviews[2].ProductName)

	w = s.request(http.MethodGet, "/reviews?rating=4", "", nil)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	s.Equal(1, response.Total)
}

func (s *ReviewsIntegrationTestSuite) TestVote_TransitionsPersist() {
	created := s.createReview("Kindle", 4)
	path := "/reviews/" + created.ID + "/vote"

	steps := []struct {
		vote      string
		helpful   int
		unhelpful int
		userVote  entity.VoteType
	}{
		{"helpful", 1, 0, entity.VoteHelpful},
		{"unhelpful", 0, 1, entity.VoteUnhelpful},
		{"unhelpful", 0, 0, entity.VoteNone},
	}

	for _, step := range steps {
		w := s.request(http.MethodPost, path, "device-a", entity.VoteRequest{VoteType: step.vote})
		s.Require().Equal(http.StatusOK, w.Code)

		var review entity.Review
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &review))
		s.Equal(step.helpful, review.HelpfulVotes)
		s.Equal(step.unhelpful, review.UnhelpfulVotes)
		s.Equal(step.userVote, review.UserVote)
	}

	stored, err := s.reviewService.GetReview(context.Background(), created.ID, "device-a")
	s.Require().NoError(err)
	s.Equal(0, stored.HelpfulVotes)
	s.Equal(0, stored.UnhelpfulVotes)
	s.Equal(entity.VoteNone, stored.UserVote)
}

func (s *ReviewsIntegrationTestSuite) TestVote_ConcurrentVoters() {
	created := s.createReview("Kindle", 4)

	const voters = 20
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.reviewService.ToggleVote(context.Background(), created.ID, fmt.Sprintf("voter-%d", i), entity.VoteHelpful)
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	stored, err := s.reviewService.GetReview(context.Background(), created.ID, "")
	s.Require().NoError(err)
	s.Equal(voters, stored.HelpfulVotes)
	s.Equal(0, stored.UnhelpfulVotes)
}

func (s *ReviewsIntegrationTestSuite) TestVote_ReviewNotFound() {
	w := s.request(http.MethodPost, "/reviews/missing/vote", "device-a", entity.VoteRequest{VoteType: "helpful"})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ReviewsIntegrationTestSuite) TestSeedSampleReviews_OnlyWhenEmpty() {
	seeded, err := s.reviewService.SeedSampleReviews(context.Background())
	s.Require().NoError(err)
	s.Equal(3, seeded)

	seeded, err = s.reviewService.SeedSampleReviews(context.Background())
	s.Require().NoError(err)
	s.Equal(0, seeded)

	all, err := s.reviewService.ListVisible(context.Background(), "", entity.FilterCriteria{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("iPhone 15 Pro", all[0].ProductName)
}

func (s *ReviewsIntegrationTestSuite) TestSubmitDraft_StoresReview() {
	s.request(http.MethodPatch, "/session/draft", "device-b", map[string]interface{}{
		"product_name": "AirPods Max",
		"category":     "Electronics",
		"rating":       3,
		"content":      "Heavy but great sound",
	})

	w := s.request(http.MethodPost, "/session/draft/submit", "device-b", nil)
	s.Require().Equal(http.StatusCreated, w.Code)

	var created entity.Review
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))

	stored, err := s.reviewService.GetReview(context.Background(), created.ID, "")
	s.Require().NoError(err)
	s.Equal("AirPods Max", stored.ProductName)
}

func (s *ReviewsIntegrationTestSuite) TestHealthCheck() {
	w := s.request(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
