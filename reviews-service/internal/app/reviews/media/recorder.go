// Package media оборачивает захват аудио и изображений и воспроизведение
// в явные асинхронные операции с единственным событием завершения.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"reviewdeck/pkg/metrics"
	"reviewdeck/reviews-service/internal/app/reviews/entity"
	"reviewdeck/reviews-service/internal/app/reviews/infrastructure/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrAlreadyRecording  = errors.New("recording already in progress")
	ErrNotRecording      = errors.New("no recording in progress")
	ErrStreamNotWritable = errors.New("audio input stream does not accept fragments")
	ErrEmptyRecording    = errors.New("recording contains no audio")
	ErrRecordingTooLarge = errors.New("recording exceeds size limit")
)

const defaultAudioMediaType = "audio/wav"

type RecorderState string

const (
	StateIdle      RecorderState = "idle"
	StateRecording RecorderState = "recording"
)

// AudioResult - единственное событие завершения записи
type AudioResult struct {
	URL         string
	Key         string
	ContentType string
	Size        int
	Err         error
}

type collected struct {
	fragments [][]byte
	size      int
	overflow  bool
}

// Recorder - сессия записи: idle -> recording -> idle.
// Фрагменты копятся только пока идет запись и отбрасываются сразу после финализации.
type Recorder struct {
	mic      Microphone
	store    storage.Storage
	maxBytes int

	mu     sync.Mutex
	state  RecorderState
	stream InputStream
	done   chan collected
}

func NewRecorder(mic Microphone, store storage.Storage, maxBytes int) *Recorder {
	return &Recorder{
		mic:      mic,
		store:    store,
		maxBytes: maxBytes,
		state:    StateIdle,
	}
}

func (r *Recorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start запрашивает микрофон. При отказе состояние остается idle.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateRecording {
		return ErrAlreadyRecording
	}

	stream, err := r.mic.Open(ctx)
	if err != nil {
		metrics.RecordAudioRecording("denied", 0)
		if errors.Is(err, entity.ErrPermissionDenied) || errors.Is(err, entity.ErrDeviceUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", entity.ErrDeviceUnavailable, err)
	}

	done := make(chan collected, 1)
	go collect(stream, r.maxBytes, done)

	r.stream = stream
	r.done = done
	r.state = StateRecording
	return nil
}

func collect(stream InputStream, maxBytes int, done chan<- collected) {
	var c collected
	for fragment := range stream.Fragments() {
		if c.overflow {
			continue
		}
		if maxBytes > 0 && c.size+len(fragment) > maxBytes {
			c.overflow = true
			c.fragments = nil
			continue
		}
		c.fragments = append(c.fragments, fragment)
		c.size += len(fragment)
	}
	done <- c
}

// Push передает фрагмент в текущий поток записи
func (r *Recorder) Push(ctx context.Context, fragment []byte) error {
	r.mu.Lock()
	stream := r.stream
	recording := r.state == StateRecording
	r.mu.Unlock()

	if !recording {
		return ErrNotRecording
	}
	writer, ok := stream.(FragmentWriter)
	if !ok {
		return ErrStreamNotWritable
	}
	if err := writer.Push(ctx, fragment); err != nil {
		if errors.Is(err, ErrStreamClosed) {
			return ErrNotRecording
		}
		return err
	}
	return nil
}

// Stop закрывает входной поток и финализирует запись.
// Канал всегда получает ровно один AudioResult, даже если ctx отменен.
func (r *Recorder) Stop(ctx context.Context) <-chan AudioResult {
	out := make(chan AudioResult, 1)

	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		out <- AudioResult{Err: ErrNotRecording}
		return out
	}
	stream, done := r.stream, r.done
	r.stream, r.done = nil, nil
	r.state = StateIdle
	r.mu.Unlock()

	_ = stream.Close()

	finalizeCtx := context.WithoutCancel(ctx)
	go func() {
		c := <-done
		out <- r.finalize(finalizeCtx, c)
	}()
	return out
}

// Abort освобождает поток и отбрасывает накопленные фрагменты без финализации
func (r *Recorder) Abort() bool {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return false
	}
	stream, done := r.stream, r.done
	r.stream, r.done = nil, nil
	r.state = StateIdle
	r.mu.Unlock()

	_ = stream.Close()
	go func() { <-done }()

	metrics.RecordAudioRecording("aborted", 0)
	return true
}

func (r *Recorder) finalize(ctx context.Context, c collected) AudioResult {
	if c.overflow {
		metrics.RecordAudioRecording("failed", 0)
		return AudioResult{Err: ErrRecordingTooLarge}
	}
	if c.size == 0 {
		metrics.RecordAudioRecording("failed", 0)
		return AudioResult{Err: ErrEmptyRecording}
	}

	data := bytes.Join(c.fragments, nil)
	contentType, ext := audioType(data)
	key := "audio/" + uuid.NewString() + ext

	res, err := r.store.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        bytes.NewReader(data),
	})
	if err != nil {
		metrics.RecordAudioRecording("failed", 0)
		return AudioResult{Err: fmt.Errorf("failed to store recording: %w", err)}
	}

	metrics.RecordAudioRecording("finalized", len(data))
	return AudioResult{URL: res.URL, Key: res.Key, ContentType: contentType, Size: len(data)}
}

// audioType определяет тип записи по содержимому; неизвестное считается wav
func audioType(data []byte) (string, string) {
	mt := mimetype.Detect(data)
	switch {
	case strings.HasPrefix(mt.String(), "audio/"):
		return mt.String(), mt.Extension()
	case mt.Is("video/webm"):
		return "audio/webm", ".webm"
	case mt.Is("application/ogg"):
		return "audio/ogg", ".ogg"
	default:
		return defaultAudioMediaType, ".wav"
	}
}
