package crawl

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler periodically re-queues due crawl requests.
type Scheduler struct {
	service *Service
	cron    *cron.Cron
	logger  *zap.Logger
	timeout time.Duration
}

// NewScheduler creates a scheduler around the crawl service.
func NewScheduler(service *Service, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		service: service,
		cron:    cron.New(),
		logger:  logger,
		timeout: 30 * time.Second,
	}
}

// Start registers the requeue job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@every 1m", s.runOnce)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("crawl scheduler started")
	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("crawl scheduler stopped")
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.service.RequeueDue(ctx); err != nil {
		s.logger.Error("crawl requeue run failed", zap.Error(err))
	}
}
