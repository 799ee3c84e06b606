package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"reviewdeck/pkg/metrics"
	"reviewdeck/reviews-service/internal/app/reviews/entity"
	"reviewdeck/reviews-service/internal/app/reviews/infrastructure/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ImageResult - событие завершения захвата изображения
type ImageResult struct {
	URL         string
	Key         string
	ContentType string
	Width       int
	Height      int
	Err         error
}

// ImageCapturer превращает байты выбранного файла в изображение, пригодное для показа
type ImageCapturer struct {
	store    storage.Storage
	maxBytes int64
}

func NewImageCapturer(store storage.Storage, maxBytes int64) *ImageCapturer {
	return &ImageCapturer{store: store, maxBytes: maxBytes}
}

// Capture декодирует файл асинхронно; любая ошибка чтения или декодирования - entity.ErrUnreadableFile
func (c *ImageCapturer) Capture(ctx context.Context, file io.Reader) <-chan ImageResult {
	out := make(chan ImageResult, 1)
	go func() {
		res := c.capture(ctx, file)
		if res.Err != nil {
			metrics.RecordImageCapture("unreadable")
		} else {
			metrics.RecordImageCapture("captured")
		}
		out <- res
	}()
	return out
}

func (c *ImageCapturer) capture(ctx context.Context, file io.Reader) ImageResult {
	reader := file
	if c.maxBytes > 0 {
		reader = io.LimitReader(file, c.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ImageResult{Err: fmt.Errorf("%w: %v", entity.ErrUnreadableFile, err)}
	}
	if len(data) == 0 {
		return ImageResult{Err: fmt.Errorf("%w: empty file", entity.ErrUnreadableFile)}
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return ImageResult{Err: fmt.Errorf("%w: file exceeds %d bytes", entity.ErrUnreadableFile, c.maxBytes)}
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return ImageResult{Err: fmt.Errorf("%w: %s is not an image", entity.ErrUnreadableFile, mt.String())}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageResult{Err: fmt.Errorf("%w: %v", entity.ErrUnreadableFile, err)}
	}

	key := "image/" + uuid.NewString() + mt.Extension()
	res, err := c.store.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: mt.String(),
		Size:        int64(len(data)),
		Data:        bytes.NewReader(data),
	})
	if err != nil {
		return ImageResult{Err: fmt.Errorf("failed to store image: %w", err)}
	}

	return ImageResult{
		URL:         res.URL,
		Key:         res.Key,
		ContentType: mt.String(),
		Width:       cfg.Width,
		Height:      cfg.Height,
	}
}
