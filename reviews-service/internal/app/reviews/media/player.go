package media

import (
	"context"
	"sync"

	"reviewdeck/pkg/metrics"
)

// Playback - запущенное воспроизведение; Done закрывается по окончании клипа или после Stop
type Playback interface {
	Done() <-chan struct{}
	Stop()
}

// AudioOutput воспроизводит аудио ресурс
type AudioOutput interface {
	Start(ctx context.Context, url string) (Playback, error)
}

// Player - единственный слот воспроизведения: новый Play останавливает предыдущий
type Player struct {
	output AudioOutput

	mu        sync.Mutex
	currentID string
	current   Playback
	gen       uint64
}

// NewPlayer; output может быть nil, тогда воспроизводит клиент и сообщает об окончании через Ended
func NewPlayer(output AudioOutput) *Player {
	return &Player{output: output}
}

func (p *Player) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentID
}

func (p *Player) Play(ctx context.Context, id, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.releaseLocked()

	if p.output != nil {
		pb, err := p.output.Start(ctx, url)
		if err != nil {
			return err
		}
		p.current = pb
		go p.watch(pb, p.gen)
	}

	p.currentID = id
	metrics.PlaybackStarts.Inc()
	return nil
}

// Toggle ставит на паузу текущий клип или запускает другой; возвращает true, если клип играет
func (p *Player) Toggle(ctx context.Context, id, url string) (bool, error) {
	if p.Pause(id) {
		return false, nil
	}
	if err := p.Play(ctx, id, url); err != nil {
		return false, err
	}
	return true, nil
}

// Pause освобождает слот, если в нем играет id
func (p *Player) Pause(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.currentID == "" || p.currentID != id {
		return false
	}
	p.releaseLocked()
	return true
}

// Ended - клиент сообщил об окончании клипа
func (p *Player) Ended(id string) bool {
	return p.Pause(id)
}

// Stop освобождает слот независимо от того, что играет
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
}

func (p *Player) releaseLocked() {
	p.gen++
	if p.current != nil {
		p.current.Stop()
		p.current = nil
	}
	p.currentID = ""
}

func (p *Player) watch(pb Playback, gen uint64) {
	<-pb.Done()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen == gen {
		p.current = nil
		p.currentID = ""
		p.gen++
	}
}
