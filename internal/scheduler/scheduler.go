// Package scheduler runs periodic inventory reports using gocron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/shaharia-lab/stockroom/internal/inventory"
)

// JobInventoryReport names the periodic report job.
const JobInventoryReport = "inventory_report"

const reportTimeout = 30 * time.Second

// ErrNoSchedule is returned by Start when neither an interval nor a cron
// expression is configured.
var ErrNoSchedule = errors.New("no report schedule configured")

// Reporter generates an inventory report. The report is emitted on the bus
// as a side effect, so listeners see scheduled reports like manual ones.
type Reporter interface {
	GenerateReport(ctx context.Context) (inventory.Report, error)
}

// Config holds the scheduler configuration.
type Config struct {
	Reporter Reporter
	// Interval runs the report every Interval. Ignored when Cron is set.
	Interval time.Duration
	// Cron is a five-field cron expression.
	Cron   string
	Logger *slog.Logger
}

// Scheduler manages the scheduled report job.
type Scheduler struct {
	cron   gocron.Scheduler
	cfg    Config
	jobs   map[string]uuid.UUID // job name → gocron job UUID
	mu     sync.Mutex
	logger *slog.Logger
}

// New creates a new Scheduler.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Reporter == nil {
		return nil, errors.New("scheduler: reporter is required")
	}

	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating gocron scheduler: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Scheduler{
		cron:   cron,
		cfg:    cfg,
		jobs:   make(map[string]uuid.UUID),
		logger: logger,
	}, nil
}

// Start schedules the report job and starts the gocron scheduler.
func (s *Scheduler) Start(_ context.Context) error {
	def, err := buildJobDefinition(s.cfg)
	if err != nil {
		return err
	}
	if err := s.ScheduleReport(def); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("report scheduler started", "interval", s.cfg.Interval, "cron", s.cfg.Cron)
	return nil
}

// Stop shuts down the gocron scheduler.
func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}

// ScheduleReport adds or replaces the report job.
func (s *Scheduler) ScheduleReport(def gocron.JobDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if jobID, ok := s.jobs[JobInventoryReport]; ok {
		if err := s.cron.RemoveJob(jobID); err != nil {
			s.logger.Warn("failed to remove existing job", "job", JobInventoryReport, "error", err)
		}
		delete(s.jobs, JobInventoryReport)
	}

	job, err := s.cron.NewJob(def,
		gocron.NewTask(s.runReport),
		gocron.WithName(JobInventoryReport),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", JobInventoryReport, err)
	}

	s.jobs[JobInventoryReport] = job.ID()
	return nil
}

// Unschedule removes the report job. The scheduler keeps running.
func (s *Scheduler) Unschedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if jobID, ok := s.jobs[JobInventoryReport]; ok {
		if err := s.cron.RemoveJob(jobID); err != nil {
			s.logger.Warn("failed to remove job", "job", JobInventoryReport, "error", err)
		}
		delete(s.jobs, JobInventoryReport)
		s.logger.Info("report unscheduled")
	}
}

// Scheduled reports whether the report job is registered.
func (s *Scheduler) Scheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[JobInventoryReport]
	return ok
}

func (s *Scheduler) runReport() {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	report, err := s.cfg.Reporter.GenerateReport(ctx)
	if err != nil {
		s.logger.Error("scheduled report failed", "error", err)
		return
	}
	s.logger.Info("scheduled report generated", "items", len(report.Levels))
}

// buildJobDefinition prefers the cron expression over the interval.
func buildJobDefinition(cfg Config) (gocron.JobDefinition, error) {
	switch {
	case cfg.Cron != "":
		return gocron.CronJob(cfg.Cron, false), nil
	case cfg.Interval > 0:
		return gocron.DurationJob(cfg.Interval), nil
	case cfg.Interval < 0:
		return nil, fmt.Errorf("report interval must be positive, got %s", cfg.Interval)
	default:
		return nil, ErrNoSchedule
	}
}
