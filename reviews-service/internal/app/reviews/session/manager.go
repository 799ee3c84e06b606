package session

import (
	"sync"
	"time"

	"reviewdeck/pkg/logger"
	"reviewdeck/pkg/metrics"
	"reviewdeck/reviews-service/internal/app/reviews/draft"
	"reviewdeck/reviews-service/internal/app/reviews/infrastructure/storage"
	"reviewdeck/reviews-service/internal/app/reviews/media"
)

type Options struct {
	Microphone    media.Microphone
	Storage       storage.Storage
	MaxAudioBytes int
	Output        media.AudioOutput // nil - воспроизводит клиент
}

type Manager struct {
	opts Options
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(opts Options) *Manager {
	return &Manager{
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get возвращает сессию устройства, создавая ее при первом обращении
func (m *Manager) Get(deviceID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if s, ok := m.sessions[deviceID]; ok {
		s.touch(now)
		return s
	}

	recorder := media.NewRecorder(m.opts.Microphone, m.opts.Storage, m.opts.MaxAudioBytes)
	s := &Session{
		ID:       deviceID,
		Draft:    draft.New(recorder, m.opts.Storage),
		Player:   media.NewPlayer(m.opts.Output),
		lastSeen: now,
	}
	m.sessions[deviceID] = s
	metrics.SessionsActive.Set(float64(len(m.sessions)))

	logger.Debug().Str("device_id", deviceID).Msg("Session opened")
	return s
}

// Lookup не создает сессию и не продлевает ее
func (m *Manager) Lookup(deviceID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[deviceID]
	return s, ok
}

// Close закрывает сессию устройства; false, если ее не было
func (m *Manager) Close(deviceID string) bool {
	m.mu.Lock()
	s, ok := m.sessions[deviceID]
	if ok {
		delete(m.sessions, deviceID)
		metrics.SessionsActive.Set(float64(len(m.sessions)))
	}
	m.mu.Unlock()

	if ok {
		s.close()
	}
	return ok
}

// Expire закрывает сессии, к которым не обращались дольше idle
func (m *Manager) Expire(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
		metrics.SessionsExpired.Inc()
	}
	return len(expired)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CloseAll вызывается при остановке сервиса
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	metrics.SessionsActive.Set(0)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
