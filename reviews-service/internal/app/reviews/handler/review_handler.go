package handler

import (
	"errors"
	"net/http"
	"strings"

	"reviewdeck/reviews-service/internal/app/reviews/entity"
	"reviewdeck/reviews-service/internal/app/reviews/filter"
	"reviewdeck/reviews-service/internal/app/reviews/infrastructure/storage"
	"reviewdeck/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
	media         storage.Opener // nil, если медиа отдаются внешним хранилищем
}

func NewReviewHandler(reviewService service.ReviewServiceInterface, media storage.Opener) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		media:         media,
	}
}

// ListCategories отдает категории фильтра, первая - All
func (h *ReviewHandler) ListCategories(c *gin.Context) {
	categories := make([]entity.Category, 0, len(entity.Categories)+1)
	categories = append(categories, entity.CategoryAll)
	categories = append(categories, entity.Categories...)

	c.JSON(http.StatusOK, entity.CategoriesResponse{Categories: categories})
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var query entity.ListReviewsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid query parameters"})
		return
	}
	if err := entity.ValidateRequest(query); err != nil {
		writeError(c, err)
		return
	}

	criteria, err := filter.ParseCriteria(query.Search, query.Category, query.Rating)
	if err != nil {
		writeError(c, err)
		return
	}

	reviews, err := h.reviewService.ListVisible(c.Request.Context(), voterID(c), criteria)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
	})
}

// CreateReview - отправка плоской формы
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if err := entity.ValidateRequest(req); err != nil {
		writeError(c, err)
		return
	}

	review, err := h.reviewService.AddReview(c.Request.Context(), req.Draft())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Request.Context(), c.Param("review_id"), voterID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) Vote(c *gin.Context) {
	var req entity.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	voteType, err := entity.ParseVoteType(req.VoteType)
	if err != nil {
		writeError(c, err)
		return
	}

	review, err := h.reviewService.ToggleVote(c.Request.Context(), c.Param("review_id"), voterID(c), voteType)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ServeMedia отдает записанное аудио и изображения из хранилища в памяти
func (h *ReviewHandler) ServeMedia(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Media not found"})
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	obj, err := h.media.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Media not found"})
			return
		}
		writeError(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}
