package pipeline

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/atlascap/maradar/internal/interfaces"
	"github.com/atlascap/maradar/internal/models"
	"github.com/atlascap/maradar/internal/services/scoring"
)

// RunReport summarizes one pipeline run for logs and the CLI.
type RunReport struct {
	StartedAt     time.Time
	Duration      time.Duration
	Collected     int
	Unique        int
	Critique      int
	Vigilance     int
	Radar         int
	Faible        int
	Erreur        int
	Opportunities int
}

// Service runs the daily radar: collect, deduplicate, score, persist.
type Service struct {
	collectors []interfaces.Collector
	engine     *scoring.Engine
	storage    interfaces.StorageManager
	logger     arbor.ILogger
}

// NewService wires the pipeline. A nil storage manager turns persistence
// into a no-op, the scan-and-report path used by dry runs and tests.
func NewService(collectors []interfaces.Collector, engine *scoring.Engine, storage interfaces.StorageManager, logger arbor.ILogger) *Service {
	return &Service{
		collectors: collectors,
		engine:     engine,
		storage:    storage,
		logger:     logger,
	}
}

// Run executes one full radar pass and returns its report. Collector and
// storage failures are logged and absorbed: the run always completes with
// whatever the healthy sources produced.
func (s *Service) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{StartedAt: time.Now()}
	s.logger.Info().Int("collectors", len(s.collectors)).Msg("Radar run started")

	collected := s.collect(ctx)
	report.Collected = len(collected)

	unique := Deduplicate(collected)
	report.Unique = len(unique)
	if report.Collected != report.Unique {
		s.logger.Info().
			Int("collected", report.Collected).
			Int("unique", report.Unique).
			Msg("Duplicates removed")
	}

	if len(unique) == 0 {
		report.Duration = time.Since(report.StartedAt)
		s.logger.Info().Msg("No signal captured today, nothing to score")
		return report, nil
	}

	scored := s.engine.AnalyzeBatch(ctx, unique)
	s.persist(ctx, scored, report)

	report.Duration = time.Since(report.StartedAt)
	s.logger.Info().
		Int("critique", report.Critique).
		Int("vigilance", report.Vigilance).
		Int("radar", report.Radar).
		Int("opportunities", report.Opportunities).
		Str("duration", report.Duration.Round(time.Millisecond).String()).
		Msg("Radar run completed")
	return report, nil
}

// collect runs every collector, isolating failures so one broken source
// never empties the run.
func (s *Service) collect(ctx context.Context) []*models.Signal {
	var signals []*models.Signal
	for _, collector := range s.collectors {
		found, err := collector.Collect(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Str("collector", collector.Name()).Msg("Collector failed, continuing")
			continue
		}
		signals = append(signals, found...)
	}
	return signals
}

// persist tallies tiers, generates memos for critical alerts and writes
// signals and opportunities. Storage errors are logged, never fatal.
func (s *Service) persist(ctx context.Context, scored []*models.Signal, report *RunReport) {
	for _, signal := range scored {
		switch signal.AlertTier {
		case models.TierCritique:
			report.Critique++
			signal.Memo = s.engine.GenerateMemo(ctx, signal)
		case models.TierVigilance:
			report.Vigilance++
		case models.TierRadar:
			report.Radar++
		case models.TierErreur:
			report.Erreur++
		default:
			report.Faible++
		}

		if s.storage == nil {
			continue
		}

		if err := s.storage.SignalStorage().SaveSignal(signal); err != nil {
			s.logger.Error().Err(err).Str("title", signal.Title).Msg("Signal save failed")
		}

		if tierQualifies(signal.AlertTier) {
			opp := models.NewOpportunity(signal)
			if err := s.storage.OpportunityStorage().SaveOpportunity(opp); err != nil {
				s.logger.Error().Err(err).Str("company", opp.Company).Msg("Opportunity save failed")
				continue
			}
			report.Opportunities++
		}
	}
}

// tierQualifies reports whether a tier produces an opportunity record.
func tierQualifies(tier models.AlertTier) bool {
	switch tier {
	case models.TierCritique, models.TierVigilance, models.TierRadar:
		return true
	}
	return false
}
