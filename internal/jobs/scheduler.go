package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"freshtrack/api/internal/scratch"
)

// Scheduler periodically sweeps the scratch directory. Requests release
// their own files; the sweep only catches orphans left by a crashed
// process.
type Scheduler struct {
	cron    *cron.Cron
	scratch *scratch.Store
	maxAge  time.Duration
	log     zerolog.Logger
}

func NewScheduler(scratchStore *scratch.Store, maxAge time.Duration, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:    c,
		scratch: scratchStore,
		maxAge:  maxAge,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if s.scratch == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 */10 * * * *", s.sweepScratch); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running sweep to finish, up to a short grace period.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) sweepScratch() {
	removed, err := s.scratch.Sweep(s.maxAge)
	if err != nil {
		s.log.Error().Err(err).Msg("scratch sweep failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("scratch orphans removed")
	}
}
