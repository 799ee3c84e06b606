package metrics

import (
	"time"
)

type StoreOperation string

const (
	StoreOpList   StoreOperation = "list"
	StoreOpGet    StoreOperation = "get"
	StoreOpCreate StoreOperation = "create"
	StoreOpVote   StoreOperation = "vote"
)

// StoreTimer меряет длительность одной операции хранилища
type StoreTimer struct {
	driver    string
	operation StoreOperation
	start     time.Time
}

func NewStoreTimer(driver string, op StoreOperation) *StoreTimer {
	return &StoreTimer{
		driver:    driver,
		operation: op,
		start:     time.Now(),
	}
}

// Done фиксирует длительность и, при err != nil, ошибку
func (t *StoreTimer) Done(err error) {
	StoreOperationDuration.WithLabelValues(t.driver, string(t.operation)).Observe(time.Since(t.start).Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(t.driver, string(t.operation)).Inc()
	}
}

func RecordCacheHit(key string) {
	RedisCacheHits.WithLabelValues(key).Inc()
}

func RecordCacheMiss(key string) {
	RedisCacheMisses.WithLabelValues(key).Inc()
}

func RecordRedisError(op string) {
	RedisErrors.WithLabelValues(op).Inc()
}

type KafkaProduceTimer struct {
	topic string
	start time.Time
}

func NewKafkaProduceTimer(topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		topic: topic,
		start: time.Now(),
	}
}

func (kt *KafkaProduceTimer) Success() {
	KafkaMessagesProduced.WithLabelValues(kt.topic).Inc()
	KafkaProduceDuration.WithLabelValues(kt.topic).Observe(time.Since(kt.start).Seconds())
}

func (kt *KafkaProduceTimer) Error() {
	KafkaErrors.WithLabelValues(kt.topic).Inc()
}

func RecordReviewCreated(category string, rating int) {
	ReviewsCreated.WithLabelValues(category).Inc()
	ReviewsRating.Observe(float64(rating))
}

func RecordValidationFailure(fields []string) {
	for _, f := range fields {
		ReviewValidationFailures.WithLabelValues(f).Inc()
	}
}

func RecordVote(voteType, result string) {
	VotesToggled.WithLabelValues(voteType, result).Inc()
}

func RecordAudioRecording(status string, size int) {
	AudioRecordings.WithLabelValues(status).Inc()
	if status == "finalized" {
		AudioRecordingBytes.Observe(float64(size))
	}
}

func RecordImageCapture(status string) {
	ImageCaptures.WithLabelValues(status).Inc()
}
