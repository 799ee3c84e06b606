package media

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"reviewdeck/reviews-service/internal/app/reviews/entity"
)

var ErrStreamClosed = errors.New("audio input stream is closed")

// InputStream - живой поток фрагментов с микрофона.
// Канал Fragments закрывается после Close.
type InputStream interface {
	Fragments() <-chan []byte
	Close() error
}

// Microphone - возможность получить доступ к микрофону.
// Отказ в доступе: entity.ErrPermissionDenied, нет устройства: entity.ErrDeviceUnavailable.
type Microphone interface {
	Open(ctx context.Context) (InputStream, error)
}

// FragmentWriter реализуют потоки, которые наполняются извне (загрузка чанков по HTTP)
type FragmentWriter interface {
	Push(ctx context.Context, fragment []byte) error
}

// DisabledMicrophone всегда отказывает с заданной ошибкой
type DisabledMicrophone struct {
	Err error
}

func (m DisabledMicrophone) Open(context.Context) (InputStream, error) {
	if m.Err == nil {
		return nil, entity.ErrPermissionDenied
	}
	return nil, m.Err
}

// UploadMicrophone - микрофон клиента: фрагменты приходят отдельными HTTP запросами
type UploadMicrophone struct {
	buffer           int
	maxFragmentBytes int
}

func NewUploadMicrophone(buffer, maxFragmentBytes int) *UploadMicrophone {
	if buffer <= 0 {
		buffer = 16
	}
	return &UploadMicrophone{buffer: buffer, maxFragmentBytes: maxFragmentBytes}
}

func (m *UploadMicrophone) Open(ctx context.Context) (InputStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDeviceUnavailable, err)
	}
	return &UploadStream{
		ch:               make(chan []byte, m.buffer),
		maxFragmentBytes: m.maxFragmentBytes,
	}, nil
}

type UploadStream struct {
	mu               sync.Mutex
	ch               chan []byte
	closed           bool
	maxFragmentBytes int
}

func (s *UploadStream) Fragments() <-chan []byte {
	return s.ch
}

// Push блокируется, пока читатель не освободит буфер или не истечет ctx
func (s *UploadStream) Push(ctx context.Context, fragment []byte) error {
	if s.maxFragmentBytes > 0 && len(fragment) > s.maxFragmentBytes {
		return fmt.Errorf("audio fragment of %d bytes exceeds %d", len(fragment), s.maxFragmentBytes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}

	select {
	case s.ch <- append([]byte(nil), fragment...):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *UploadStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	close(s.ch)
	return nil
}
