package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/lordskyzw/pygwan/internal/config"
	"github.com/lordskyzw/pygwan/internal/service/reporting"
	"github.com/lordskyzw/pygwan/internal/service/whatsapp"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	location     *time.Location
	reportingSvc *reporting.Service
	messagingSvc whatsapp.MessagingService
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured
// timezone.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, messagingSvc whatsapp.MessagingService, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Digest.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Digest.Timezone, err)
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(location))

	return &Scheduler{
		cron:         c,
		location:     location,
		reportingSvc: reportingSvc,
		messagingSvc: messagingSvc,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.Digest.CronSchedule),
		zap.String("timezone", s.cfg.Digest.Timezone))

	_, err := s.cron.AddFunc(s.cfg.Digest.CronSchedule, s.sendDailyDigest)
	if err != nil {
		s.logger.Error("failed to schedule daily digest", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sendDailyDigest() {
	s.logger.Info("generating daily digest")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// The digest covers the previous calendar day in the configured timezone.
	day := time.Now().In(s.location).AddDate(0, 0, -1)

	digest, err := s.reportingSvc.BuildDigest(ctx, day)
	if err != nil {
		s.logger.Error("failed to build digest", zap.Error(err))
		return
	}

	if err := s.reportingSvc.PublishDigest(ctx, digest); err != nil {
		s.logger.Error("failed to publish digest", zap.Error(err))
	}

	if err := s.messagingSvc.BroadcastDigest(ctx, s.reportingSvc.FormatDigest(digest)); err != nil {
		s.logger.Error("failed to send digest", zap.Error(err))
	} else {
		s.logger.Info("daily digest sent successfully")
	}
}
