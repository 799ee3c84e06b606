// Package session держит состояние экрана каждого устройства: черновик,
// запись аудио, раскрытый отзыв, лайтбокс и слот воспроизведения.
package session

import (
	"sync"
	"time"

	"reviewdeck/reviews-service/internal/app/reviews/draft"
	"reviewdeck/reviews-service/internal/app/reviews/entity"
	"reviewdeck/reviews-service/internal/app/reviews/media"
)

type Session struct {
	ID     string
	Draft  *draft.Draft
	Player *media.Player

	mu       sync.Mutex
	view     entity.ViewState
	lastSeen time.Time
}

// View возвращает состояние экрана; CurrentlyPlayingID берется из плеера
func (s *Session) View() entity.ViewState {
	s.mu.Lock()
	view := s.view
	s.mu.Unlock()

	view.CurrentlyPlayingID = s.Player.Current()
	return view
}

func (s *Session) ToggleExpanded(reviewID string) entity.ViewState {
	s.mu.Lock()
	s.view.ToggleExpanded(reviewID)
	s.mu.Unlock()
	return s.View()
}

func (s *Session) OpenLightbox(imageURL string) entity.ViewState {
	s.mu.Lock()
	s.view.OpenLightbox(imageURL)
	s.mu.Unlock()
	return s.View()
}

func (s *Session) CloseLightbox() entity.ViewState {
	s.mu.Lock()
	s.view.CloseLightbox()
	s.mu.Unlock()
	return s.View()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// close освобождает устройства: прерывает запись, сбрасывает черновик и останавливает плеер
func (s *Session) close() {
	s.Draft.Reset()
	s.Player.Stop()
}
