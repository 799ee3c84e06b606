package handler

import (
	"context"
	"errors"
	"net/http"

	"reviewdeck/pkg/logger"
	"reviewdeck/reviews-service/internal/app/reviews/draft"
	"reviewdeck/reviews-service/internal/app/reviews/entity"
	"reviewdeck/reviews-service/internal/app/reviews/media"
	"reviewdeck/reviews-service/internal/app/reviews/repository"
	"reviewdeck/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
)

// Сообщения для пользователя при отказе устройств
const (
	noticePermissionDenied = "Microphone access was denied. Allow it in the browser settings to record audio."
	noticeDeviceMissing    = "No microphone is available on this device."
	noticeUnreadableImage  = "The selected file could not be read as an image."
)

// statusFor сопоставляет ошибку домена с HTTP статусом и текстом ответа
func statusFor(err error) (int, entity.ErrorResponse) {
	if ve, ok := entity.AsValidationError(err); ok {
		return http.StatusBadRequest, entity.ErrorResponse{Error: "validation failed", Fields: ve.Fields}
	}

	switch {
	case errors.Is(err, entity.ErrInvalidVoteType):
		return http.StatusBadRequest, entity.ErrorResponse{Error: "vote_type must be helpful or unhelpful"}
	case errors.Is(err, entity.ErrReviewNotFound):
		return http.StatusNotFound, entity.ErrorResponse{Error: "Review not found"}
	case errors.Is(err, repository.ErrVoteConflict):
		return http.StatusConflict, entity.ErrorResponse{Error: "Vote conflicted with a concurrent update, retry"}
	case errors.Is(err, entity.ErrPermissionDenied):
		return http.StatusConflict, entity.ErrorResponse{Error: noticePermissionDenied}
	case errors.Is(err, entity.ErrDeviceUnavailable):
		return http.StatusConflict, entity.ErrorResponse{Error: noticeDeviceMissing}
	case errors.Is(err, entity.ErrUnreadableFile):
		return http.StatusUnprocessableEntity, entity.ErrorResponse{Error: noticeUnreadableImage}
	case errors.Is(err, draft.ErrStepIncomplete),
		errors.Is(err, draft.ErrLastStep),
		errors.Is(err, draft.ErrFirstStep),
		errors.Is(err, media.ErrAlreadyRecording),
		errors.Is(err, media.ErrNotRecording),
		errors.Is(err, media.ErrStreamNotWritable),
		errors.Is(err, service.ErrNoAudio),
		errors.Is(err, service.ErrNoImage):
		return http.StatusConflict, entity.ErrorResponse{Error: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, entity.ErrorResponse{Error: "Request timed out"}
	default:
		return http.StatusInternalServerError, entity.ErrorResponse{Error: "Internal server error"}
	}
}

func writeError(c *gin.Context, err error) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("route", c.FullPath()).Msg("Request failed")
		_ = c.Error(err)
	}
	c.JSON(status, body)
}

// writeErrorWith добавляет к ответу об ошибке текущее состояние
func writeErrorWith(c *gin.Context, err error, key string, state interface{}) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("route", c.FullPath()).Msg("Request failed")
		_ = c.Error(err)
	}
	resp := gin.H{"error": body.Error, key: state}
	if len(body.Fields) > 0 {
		resp["fields"] = body.Fields
	}
	c.JSON(status, resp)
}
