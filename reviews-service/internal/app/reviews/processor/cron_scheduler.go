package processor

import (
	"time"

	"reviewdeck/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SessionExpirer закрывает сессии, к которым давно не обращались
type SessionExpirer interface {
	Expire(idle time.Duration) int
	Len() int
}

// CronScheduler периодически закрывает брошенные сессии: прерывает запись и останавливает плеер
type CronScheduler struct {
	cron     *cron.Cron
	sessions SessionExpirer
	idle     time.Duration
	log      zerolog.Logger
}

func NewCronScheduler(sessions SessionExpirer, idle time.Duration) *CronScheduler {
	log := logger.Component("session-sweeper")
	c := cron.New(cron.WithLogger(cron.PrintfLogger(&log)))

	return &CronScheduler{
		cron:     c,
		sessions: sessions,
		idle:     idle,
		log:      log,
	}
}

func (s *CronScheduler) Start(schedule string) error {
	s.log.Info().
		Str("schedule", schedule).
		Dur("idle_timeout", s.idle).
		Msg("Starting cron scheduler")

	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Msg("Cron scheduler started")
	return nil
}

func (s *CronScheduler) sweep() {
	expired := s.sessions.Expire(s.idle)
	if expired == 0 {
		return
	}
	s.log.Info().
		Int("expired", expired).
		Int("active", s.sessions.Len()).
		Msg("Expired idle sessions")
}

func (s *CronScheduler) Stop() {
	s.log.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
