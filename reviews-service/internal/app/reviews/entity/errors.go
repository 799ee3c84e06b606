package entity

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrReviewNotFound    = errors.New("review not found")
	ErrInvalidVoteType   = errors.New("invalid vote type")
	ErrPermissionDenied  = errors.New("microphone permission denied")
	ErrDeviceUnavailable = errors.New("audio input device unavailable")
	ErrUnreadableFile    = errors.New("unreadable image file")

	errInvalidVoterID = errors.New("invalid voter id")
)

// ValidationError перечисляет поля, не прошедшие проверку при отправке.
// Ключи - json имена полей.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// FieldNames возвращает имена полей в алфавитном порядке
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.FieldNames(), ", ")
}

// OrNil возвращает nil, если ошибок нет
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// AsValidationError достает *ValidationError из цепочки ошибок
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
