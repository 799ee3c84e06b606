package handler

import (
	"errors"
	"io"
	"net/http"

	"reviewdeck/reviews-service/internal/app/reviews/entity"
	"reviewdeck/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler - поток создания отзыва и состояние экрана устройства
type SessionHandler struct {
	sessionService service.SessionServiceInterface
	maxChunkBytes  int64
}

func NewSessionHandler(sessionService service.SessionServiceInterface, maxChunkBytes int64) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		maxChunkBytes:  maxChunkBytes,
	}
}

func (h *SessionHandler) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionService.Draft(voterID(c)))
}

func (h *SessionHandler) OpenDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionService.OpenDraft(voterID(c)))
}

func (h *SessionHandler) UpdateDraft(c *gin.Context) {
	var req entity.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if err := entity.ValidateRequest(req); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.sessionService.UpdateDraft(voterID(c), &req))
}

func (h *SessionHandler) CancelDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionService.CancelDraft(voterID(c)))
}

func (h *SessionHandler) NextStep(c *gin.Context) {
	view, err := h.sessionService.NextStep(voterID(c))
	if err != nil {
		writeErrorWith(c, err, "draft", view)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) PrevStep(c *gin.Context) {
	view, err := h.sessionService.PrevStep(voterID(c))
	if err != nil {
		writeErrorWith(c, err, "draft", view)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) StartRecording(c *gin.Context) {
	view, err := h.sessionService.StartRecording(c.Request.Context(), voterID(c))
	if err != nil {
		writeErrorWith(c, err, "draft", view)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PushAudioChunk принимает очередной фрагмент записи телом запроса
func (h *SessionHandler) PushAudioChunk(c *gin.Context) {
	body := c.Request.Body
	if h.maxChunkBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, h.maxChunkBytes)
	}

	chunk, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, entity.ErrorResponse{Error: "Audio chunk is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Failed to read audio chunk"})
		return
	}
	if len(chunk) == 0 {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Audio chunk is empty"})
		return
	}

	if err := h.sessionService.PushAudioChunk(c.Request.Context(), voterID(c), chunk); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *SessionHandler) StopRecording(c *gin.Context) {
	view, err := h.sessionService.StopRecording(c.Request.Context(), voterID(c))
	if err != nil {
		writeErrorWith(c, err, "draft", view)
		return
	}
	c.JSON(http.StatusAccepted, view)
}

// AttachImage - multipart поле image
func (h *SessionHandler) AttachImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "image file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		writeError(c, entity.ErrUnreadableFile)
		return
	}
	defer file.Close()

	view, err := h.sessionService.AttachImage(c.Request.Context(), voterID(c), file)
	if err != nil {
		writeErrorWith(c, err, "draft", view)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) SubmitDraft(c *gin.Context) {
	review, err := h.sessionService.SubmitDraft(c.Request.Context(), voterID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *SessionHandler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionService.View(voterID(c)))
}

func (h *SessionHandler) ToggleExpanded(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionService.ToggleExpanded(voterID(c), c.Param("review_id")))
}

func (h *SessionHandler) TogglePlayback(c *gin.Context) {
	view, err := h.sessionService.TogglePlayback(c.Request.Context(), voterID(c), c.Param("review_id"))
	if err != nil {
		writeErrorWith(c, err, "view", view)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) PausePlayback(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionService.PausePlayback(voterID(c)))
}

func (h *SessionHandler) PlaybackEnded(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionService.PlaybackEnded(voterID(c), c.Param("review_id")))
}

func (h *SessionHandler) OpenLightbox(c *gin.Context) {
	view, err := h.sessionService.OpenLightbox(c.Request.Context(), voterID(c), c.Param("review_id"))
	if err != nil {
		writeErrorWith(c, err, "view", view)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) CloseLightbox(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionService.CloseLightbox(voterID(c)))
}
