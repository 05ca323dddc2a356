package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aminata-dev/lottostock/internal/config"
	"github.com/aminata-dev/lottostock/internal/domain/models"
	"github.com/aminata-dev/lottostock/internal/service/ledger"
)

// Scheduler runs the end-of-day entry check: if no stock has been recorded for
// the current date by the configured time, a warning is logged. A skipped day
// blocks the next morning's reconciliation, so catching it the same evening
// saves a manual override.
type Scheduler struct {
	cron      *cron.Cron
	ledgerSvc *ledger.Service
	cfg       config.ReminderConfig
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.ReminderConfig, ledgerSvc *ledger.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		ledgerSvc: ledgerSvc,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the reminder job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.checkTodayEntry); err != nil {
		s.logger.Error("failed to schedule entry reminder", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) checkTodayEntry() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	today := time.Now().Format(models.DateLayout)
	hasData, err := s.ledgerSvc.HasDataForDate(ctx, today)
	if err != nil {
		s.logger.Error("entry reminder check failed", zap.Error(err))
		return
	}

	if !hasData {
		s.logger.Warn("no stock entry recorded for today", zap.String("date", today))
	} else {
		s.logger.Info("stock entry present for today", zap.String("date", today))
	}
}
