package infrastructure

import (
	"context"
	"sync"
)

// MessagePublisher отправляет события отзывов в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// Message - сообщение, принятое DiscardPublisher
type Message struct {
	Key   string
	Value []byte
}

// DiscardPublisher используется, когда брокеры не настроены.
// Хранит последние сообщения в памяти, чтобы их можно было посмотреть в тестах.
type DiscardPublisher struct {
	mu       sync.Mutex
	messages []Message
	limit    int
}

func NewDiscardPublisher(limit int) *DiscardPublisher {
	return &DiscardPublisher{limit: limit}
}

func (p *DiscardPublisher) PublishMessage(_ context.Context, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.limit <= 0 {
		return nil
	}
	if len(p.messages) == p.limit {
		p.messages = p.messages[1:]
	}
	p.messages = append(p.messages, Message{Key: key, Value: append([]byte(nil), value...)})
	return nil
}

func (p *DiscardPublisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.messages...)
}

func (p *DiscardPublisher) Close() error {
	return nil
}
