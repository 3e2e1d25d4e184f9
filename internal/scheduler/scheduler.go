package scheduler

import (
	"fmt"

	"pricefeed/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the sync job on a cron schedule in server mode.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
}

func New(spec string, job func(), logger *logger.Logger) (*Scheduler, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", spec, err)
	}

	return &Scheduler{
		cron:   c,
		logger: logger,
	}, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("Sync scheduler started")
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.logger.Info("Stopping sync scheduler...")
	s.cron.Stop()
}
