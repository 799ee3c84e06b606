// Package draft хранит незафиксированный отзыв и состояние мастера создания.
package draft

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"reviewdeck/pkg/logger"
	"reviewdeck/reviews-service/internal/app/reviews/entity"
	"reviewdeck/reviews-service/internal/app/reviews/infrastructure/storage"
	"reviewdeck/reviews-service/internal/app/reviews/media"
)

var (
	ErrStepIncomplete = errors.New("current step is incomplete")
	ErrLastStep       = errors.New("already at the last step")
	ErrFirstStep      = errors.New("already at the first step")
)

type Step string

const (
	StepProductInfo Step = "product_info"
	StepRating      Step = "rating"
	StepContent     Step = "content"
	StepAudio       Step = "audio"
	StepImage       Step = "image"
	StepReview      Step = "review"
)

// Steps - порядок шагов мастера
var Steps = []Step{StepProductInfo, StepRating, StepContent, StepAudio, StepImage, StepReview}

const discardTimeout = 5 * time.Second

// CanAdvance - предикат шага. Медиа шаги и финальный шаг всегда проходимы.
func CanAdvance(step Step, d entity.ReviewDraft) bool {
	switch step {
	case StepProductInfo:
		return strings.TrimSpace(d.ProductName) != "" && strings.TrimSpace(string(d.Category)) != ""
	case StepRating:
		return d.Rating >= 1
	case StepContent:
		return strings.TrimSpace(d.Content) != ""
	default:
		return true
	}
}

// Draft - черновик одного устройства вместе с записью аудио, которая его наполняет.
// Результат записи применяется не более одного раза, только если черновик не сбрасывался
// и после этой остановки не было более новой.
// Загруженные, но не отправленные медиа удаляются из хранилища, как только черновик перестает на них ссылаться.
type Draft struct {
	recorder *media.Recorder
	store    storage.Storage

	mu       sync.Mutex
	fields   entity.ReviewDraft
	audioKey string
	imageKey string
	step     int
	epoch    uint64
	pending  chan struct{}
	audioErr error
}

func New(recorder *media.Recorder, store storage.Storage) *Draft {
	return &Draft{recorder: recorder, store: store}
}

func (d *Draft) SetAuthor(v string) {
	d.mu.Lock()
	d.fields.Author = v
	d.mu.Unlock()
}

func (d *Draft) SetProductName(v string) {
	d.mu.Lock()
	d.fields.ProductName = v
	d.mu.Unlock()
}

func (d *Draft) SetCategory(v entity.Category) {
	d.mu.Lock()
	d.fields.Category = v
	d.mu.Unlock()
}

func (d *Draft) SetRating(v int) {
	d.mu.Lock()
	d.fields.Rating = v
	d.mu.Unlock()
}

func (d *Draft) SetContent(v string) {
	d.mu.Lock()
	d.fields.Content = v
	d.mu.Unlock()
}

// SetAudioURL ставит внешнюю ссылку; ранее загруженная запись удаляется
func (d *Draft) SetAudioURL(v string) {
	d.mu.Lock()
	staged := d.audioKey
	d.audioKey = ""
	d.fields.AudioURL = v
	d.mu.Unlock()

	d.discard(staged)
}

// SetImageURL ставит внешнюю ссылку; ранее загруженное изображение удаляется
func (d *Draft) SetImageURL(v string) {
	d.SetImage(v, "")
}

// SetImage прикрепляет загруженное изображение и удаляет предыдущее
func (d *Draft) SetImage(url, key string) {
	d.mu.Lock()
	staged := d.imageKey
	d.imageKey = key
	d.fields.ImageURL = url
	d.mu.Unlock()

	if staged != key {
		d.discard(staged)
	}
}

func (d *Draft) Step() Step {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Steps[d.step]
}

func (d *Draft) CanAdvance() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return CanAdvance(Steps[d.step], d.fields)
}

// Next переходит к следующему шагу; при невыполненном предикате состояние не меняется
func (d *Draft) Next() (Step, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	current := Steps[d.step]
	if d.step == len(Steps)-1 {
		return current, ErrLastStep
	}
	if !CanAdvance(current, d.fields) {
		return current, ErrStepIncomplete
	}
	d.step++
	return Steps[d.step], nil
}

func (d *Draft) Back() (Step, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.step == 0 {
		return Steps[0], ErrFirstStep
	}
	d.step--
	return Steps[d.step], nil
}

// Reset очищает поля, возвращает мастер на первый шаг, прерывает запись
// и отбрасывает еще не завершенную финализацию аудио.
func (d *Draft) Reset() {
	d.mu.Lock()
	staged := d.resetLocked()
	d.mu.Unlock()

	d.discard(staged...)
}

// resetLocked возвращает ключи медиа, которые надо удалить
func (d *Draft) resetLocked() []string {
	if d.recorder != nil {
		d.recorder.Abort()
	}
	staged := []string{d.audioKey, d.imageKey}
	d.audioKey, d.imageKey = "", ""
	d.fields = entity.ReviewDraft{}
	d.step = 0
	d.epoch++
	d.pending = nil
	d.audioErr = nil
	return staged
}

// discard удаляет медиа, на которые черновик больше не ссылается
func (d *Draft) discard(keys ...string) {
	if d.store == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), discardTimeout)
		err := d.store.Delete(ctx, key)
		cancel()
		if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to delete staged media")
		}
	}
}

func (d *Draft) Snapshot() entity.ReviewDraft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fields
}

func (d *Draft) Recording() bool {
	return d.recorder != nil && d.recorder.State() == media.StateRecording
}

func (d *Draft) View() entity.DraftView {
	d.mu.Lock()
	defer d.mu.Unlock()

	view := entity.DraftView{
		Draft:        d.fields,
		Step:         string(Steps[d.step]),
		StepIndex:    d.step,
		CanAdvance:   CanAdvance(Steps[d.step], d.fields),
		Recording:    d.Recording(),
		AudioPending: d.pending != nil,
	}
	if d.audioErr != nil {
		view.AudioError = d.audioErr.Error()
	}
	return view
}

func (d *Draft) StartRecording(ctx context.Context) error {
	if d.recorder == nil {
		return entity.ErrDeviceUnavailable
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.recorder.Start(ctx); err != nil {
		return err
	}
	d.audioErr = nil
	return nil
}

func (d *Draft) PushAudio(ctx context.Context, fragment []byte) error {
	if d.recorder == nil {
		return media.ErrNotRecording
	}
	return d.recorder.Push(ctx, fragment)
}

// StopRecording не ждет финализации: готовый URL попадет в черновик
// из фоновой горутины, дождаться его можно через WaitAudio.
func (d *Draft) StopRecording(ctx context.Context) error {
	if d.recorder == nil {
		return media.ErrNotRecording
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.recorder.State() != media.StateRecording {
		return media.ErrNotRecording
	}

	results := d.recorder.Stop(ctx)
	pending := make(chan struct{})
	d.pending = pending
	go d.applyAudio(results, pending, d.epoch)
	return nil
}

func (d *Draft) applyAudio(results <-chan media.AudioResult, pending chan struct{}, epoch uint64) {
	res := <-results
	defer close(pending)

	var stale []string
	d.mu.Lock()
	switch {
	case d.epoch != epoch || d.pending != pending:
		// черновик сброшен или запись уже заменена более новой
		stale = append(stale, res.Key)
	case res.Err != nil:
		d.pending = nil
		d.audioErr = res.Err
	default:
		d.pending = nil
		stale = append(stale, d.audioKey)
		d.audioKey = res.Key
		d.fields.AudioURL = res.URL
		d.audioErr = nil
	}
	d.mu.Unlock()

	d.discard(stale...)
}

// WaitAudio ждет завершения финализации записи, если она идет
func (d *Draft) WaitAudio(ctx context.Context) error {
	d.mu.Lock()
	pending := d.pending
	d.mu.Unlock()

	if pending == nil {
		return nil
	}
	select {
	case <-pending:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit дожидается аудио, передает снимок в commit и при успехе сбрасывает черновик.
// Снимок потребляется ровно один раз.
func (d *Draft) Submit(ctx context.Context, commit func(entity.ReviewDraft) error) error {
	for {
		if err := d.WaitAudio(ctx); err != nil {
			return err
		}

		d.mu.Lock()
		if d.pending != nil {
			d.mu.Unlock()
			continue
		}
		if err := commit(d.fields); err != nil {
			d.mu.Unlock()
			return err
		}
		// медиа теперь принадлежат отзыву
		d.audioKey, d.imageKey = "", ""
		d.resetLocked()
		d.mu.Unlock()
		return nil
	}
}
