package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/atlascap/maradar/internal/common"
)

// RunFunc executes one radar pass.
type RunFunc func(ctx context.Context) error

// Service schedules the daily radar scan.
type Service struct {
	schedule     common.ScheduleConfig
	run          RunFunc
	cron         *cron.Cron
	logger       arbor.ILogger
	mu           sync.Mutex // protects isProcessing
	isProcessing bool
	running      bool
}

// NewService creates the scan scheduler.
func NewService(schedule common.ScheduleConfig, run RunFunc, logger arbor.ILogger) *Service {
	return &Service{
		schedule: schedule,
		run:      run,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start registers the daily scan and starts the cron loop.
func (s *Service) Start() error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	expr, err := cronExpr(s.schedule.DailyScan)
	if err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(expr, s.runScheduledScan); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info().
		Str("daily_scan", s.schedule.DailyScan).
		Str("cron_expr", expr).
		Msg("Scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a scan in flight to finish.
func (s *Service) Stop() error {
	if !s.running {
		return nil
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// IsRunning returns true while the cron loop is active.
func (s *Service) IsRunning() bool {
	return s.running
}

// TriggerNow runs a scan immediately, outside the schedule.
func (s *Service) TriggerNow() {
	s.logger.Info().Msg("Manual scan trigger requested")
	go s.runScheduledScan()
}

// NextRun returns the next scheduled scan time, zero when idle.
func (s *Service) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// runScheduledScan executes one radar pass with overlap protection and
// panic recovery. A scan that outlasts its slot skips the next cycle
// instead of running twice.
func (s *Service) runScheduledScan() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("PANIC RECOVERED in scheduled scan")
		}
	}()

	s.mu.Lock()
	if s.isProcessing {
		s.logger.Warn().Msg("Previous scan still running, skipping this cycle")
		s.mu.Unlock()
		return
	}
	s.isProcessing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProcessing = false
		s.mu.Unlock()
	}()

	if err := s.run(context.Background()); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled scan failed")
	}
}

// cronExpr converts the configured "HH:MM" local time to a cron expression.
func cronExpr(dailyScan string) (string, error) {
	parts := strings.SplitN(dailyScan, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid daily_scan time %q, expected HH:MM", dailyScan)
	}
	if _, err := time.Parse("15:04", dailyScan); err != nil {
		return "", fmt.Errorf("invalid daily_scan time %q: %w", dailyScan, err)
	}
	hour := strings.TrimLeft(parts[0], "0")
	if hour == "" {
		hour = "0"
	}
	minute := strings.TrimLeft(parts[1], "0")
	if minute == "" {
		minute = "0"
	}
	return fmt.Sprintf("%s %s * * *", minute, hour), nil
}
