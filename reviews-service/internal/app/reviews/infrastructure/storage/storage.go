// Package storage хранит финализированные медиа (аудио записи, изображения)
// и выдает ссылки, по которым их можно воспроизвести или показать.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("media object not found")

// Storage - хранилище медиа файлов
type Storage interface {
	// Upload сохраняет файл и возвращает ключ и публичный URL
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Delete удаляет файл по ключу
	Delete(ctx context.Context, key string) error
}

// Opener реализуют хранилища, содержимое которых отдает сам сервис
type Opener interface {
	Open(ctx context.Context, key string) (*Object, error)
}

type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

type UploadResult struct {
	Key string
	URL string
}

type Object struct {
	Key         string
	ContentType string
	Data        []byte
}
