package app

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/atlascap/maradar/internal/common"
	"github.com/atlascap/maradar/internal/interfaces"
	"github.com/atlascap/maradar/internal/services/collectors"
	"github.com/atlascap/maradar/internal/services/llm"
	"github.com/atlascap/maradar/internal/services/pipeline"
	"github.com/atlascap/maradar/internal/services/scheduler"
	"github.com/atlascap/maradar/internal/services/scoring"
	"github.com/atlascap/maradar/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	Oracle     interfaces.CompletionService
	Engine     *scoring.Engine
	Collectors []interfaces.Collector
	Pipeline   *pipeline.Service
	Scheduler  *scheduler.Service
}

// New wires the radar: storage, oracle, collectors, scoring, pipeline and
// scheduler. Storage may come back nil (no path configured); the pipeline
// then runs scan-and-report only.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, err
	}

	oracle, err := llm.NewClaudeService(&config.Claude, logger)
	if err != nil {
		if storageManager != nil {
			storageManager.Close()
		}
		return nil, err
	}

	engine := scoring.NewEngine(oracle, config, logger)

	sourceCollectors := []interfaces.Collector{
		collectors.NewPressCollector(config, logger),
		collectors.NewRegistryCollector(config, logger),
		collectors.NewGazetteCollector(config, logger),
		collectors.NewCompetitionCollector(config, logger),
	}

	pipelineService := pipeline.NewService(sourceCollectors, engine, storageManager, logger)

	app := &App{
		Config:         config,
		Logger:         logger,
		StorageManager: storageManager,
		Oracle:         oracle,
		Engine:         engine,
		Collectors:     sourceCollectors,
		Pipeline:       pipelineService,
	}
	app.Scheduler = scheduler.NewService(config.Schedule, app.runScan, logger)

	logger.Info().
		Int("collectors", len(sourceCollectors)).
		Bool("persistence", storageManager != nil).
		Msg("Application initialized")

	return app, nil
}

// RunOnce executes a single radar scan and returns its report.
func (a *App) RunOnce(ctx context.Context) (*pipeline.RunReport, error) {
	return a.Pipeline.Run(ctx)
}

func (a *App) runScan(ctx context.Context) error {
	_, err := a.Pipeline.Run(ctx)
	return err
}

// Close releases the oracle client and the storage backend.
func (a *App) Close() {
	if a.Scheduler != nil && a.Scheduler.IsRunning() {
		if err := a.Scheduler.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduler stop failed")
		}
	}
	if a.Oracle != nil {
		if err := a.Oracle.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Oracle close failed")
		}
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
		}
	}
	a.Logger.Info().Msg("Application closed")
}
