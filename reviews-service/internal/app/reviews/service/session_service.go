package service

import (
	"context"
	"errors"
	"io"

	"reviewdeck/pkg/logger"
	"reviewdeck/reviews-service/internal/app/reviews/entity"
	"reviewdeck/reviews-service/internal/app/reviews/media"
	"reviewdeck/reviews-service/internal/app/reviews/session"
)

var (
	ErrNoAudio = errors.New("review has no audio")
	ErrNoImage = errors.New("review has no image")
)

// SessionService ведет поток создания отзыва и состояние экрана устройства
type SessionService struct {
	sessions *session.Manager
	reviews  ReviewServiceInterface
	images   *media.ImageCapturer
}

func NewSessionService(sessions *session.Manager, reviews ReviewServiceInterface, images *media.ImageCapturer) *SessionService {
	return &SessionService{
		sessions: sessions,
		reviews:  reviews,
		images:   images,
	}
}

func (s *SessionService) Draft(deviceID string) entity.DraftView {
	return s.sessions.Get(deviceID).Draft.View()
}

// OpenDraft начинает поток создания с пустого черновика
func (s *SessionService) OpenDraft(deviceID string) entity.DraftView {
	d := s.sessions.Get(deviceID).Draft
	d.Reset()
	return d.View()
}

// UpdateDraft заменяет только переданные поля, без проверки связей между ними
func (s *SessionService) UpdateDraft(deviceID string, req *entity.UpdateDraftRequest) entity.DraftView {
	d := s.sessions.Get(deviceID).Draft

	if req.Author != nil {
		d.SetAuthor(*req.Author)
	}
	if req.ProductName != nil {
		d.SetProductName(*req.ProductName)
	}
	if req.Category != nil {
		d.SetCategory(entity.Category(*req.Category))
	}
	if req.Rating != nil {
		d.SetRating(*req.Rating)
	}
	if req.Content != nil {
		d.SetContent(*req.Content)
	}

	return d.View()
}

// CancelDraft сбрасывает черновик и прерывает запись
func (s *SessionService) CancelDraft(deviceID string) entity.DraftView {
	d := s.sessions.Get(deviceID).Draft
	d.Reset()
	return d.View()
}

func (s *SessionService) NextStep(deviceID string) (entity.DraftView, error) {
	d := s.sessions.Get(deviceID).Draft
	_, err := d.Next()
	return d.View(), err
}

func (s *SessionService) PrevStep(deviceID string) (entity.DraftView, error) {
	d := s.sessions.Get(deviceID).Draft
	_, err := d.Back()
	return d.View(), err
}

func (s *SessionService) StartRecording(ctx context.Context, deviceID string) (entity.DraftView, error) {
	d := s.sessions.Get(deviceID).Draft
	if err := d.StartRecording(ctx); err != nil {
		logger.Warn().Err(err).Str("device_id", deviceID).Msg("Failed to start recording")
		return d.View(), err
	}
	return d.View(), nil
}

func (s *SessionService) PushAudioChunk(ctx context.Context, deviceID string, chunk []byte) error {
	return s.sessions.Get(deviceID).Draft.PushAudio(ctx, chunk)
}

// StopRecording не ждет финализации; audio_pending в ответе показывает, что URL еще готовится
func (s *SessionService) StopRecording(ctx context.Context, deviceID string) (entity.DraftView, error) {
	d := s.sessions.Get(deviceID).Draft
	err := d.StopRecording(ctx)
	return d.View(), err
}

// AttachImage при ошибке чтения файла оставляет изображение черновика прежним
func (s *SessionService) AttachImage(ctx context.Context, deviceID string, file io.Reader) (entity.DraftView, error) {
	d := s.sessions.Get(deviceID).Draft

	res := <-s.images.Capture(ctx, file)
	if res.Err != nil {
		return d.View(), res.Err
	}

	d.SetImage(res.URL, res.Key)
	return d.View(), nil
}

// SubmitDraft дожидается аудио, создает отзыв и очищает черновик
func (s *SessionService) SubmitDraft(ctx context.Context, deviceID string) (*entity.Review, error) {
	d := s.sessions.Get(deviceID).Draft

	var created *entity.Review
	err := d.Submit(ctx, func(rd entity.ReviewDraft) error {
		review, err := s.reviews.AddReview(ctx, rd)
		if err != nil {
			return err
		}
		created = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *SessionService) View(deviceID string) entity.ViewState {
	return s.sessions.Get(deviceID).View()
}

func (s *SessionService) ToggleExpanded(deviceID, reviewID string) entity.ViewState {
	return s.sessions.Get(deviceID).ToggleExpanded(reviewID)
}

// TogglePlayback: клип того же отзыва ставится на паузу, другой запускается вместо текущего
func (s *SessionService) TogglePlayback(ctx context.Context, deviceID, reviewID string) (entity.ViewState, error) {
	sess := s.sessions.Get(deviceID)

	review, err := s.reviews.GetReview(ctx, reviewID, deviceID)
	if err != nil {
		return sess.View(), err
	}
	if review.AudioURL == "" {
		return sess.View(), ErrNoAudio
	}

	if _, err := sess.Player.Toggle(ctx, review.ID, review.AudioURL); err != nil {
		return sess.View(), err
	}
	return sess.View(), nil
}

func (s *SessionService) PausePlayback(deviceID string) entity.ViewState {
	sess := s.sessions.Get(deviceID)
	sess.Player.Stop()
	return sess.View()
}

// PlaybackEnded - клиент доиграл клип; устаревшее событие для другого отзыва игнорируется
func (s *SessionService) PlaybackEnded(deviceID, reviewID string) entity.ViewState {
	sess := s.sessions.Get(deviceID)
	sess.Player.Ended(reviewID)
	return sess.View()
}

func (s *SessionService) OpenLightbox(ctx context.Context, deviceID, reviewID string) (entity.ViewState, error) {
	sess := s.sessions.Get(deviceID)

	review, err := s.reviews.GetReview(ctx, reviewID, deviceID)
	if err != nil {
		return sess.View(), err
	}
	if review.ImageURL == "" {
		return sess.View(), ErrNoImage
	}
	return sess.OpenLightbox(review.ImageURL), nil
}

func (s *SessionService) CloseLightbox(deviceID string) entity.ViewState {
	return s.sessions.Get(deviceID).CloseLightbox()
}
