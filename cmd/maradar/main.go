package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/atlascap/maradar/internal/app"
	"github.com/atlascap/maradar/internal/common"
)

var (
	configFile   = flag.String("config", "", "Configuration file path")
	configFileC  = flag.String("c", "", "Configuration file path (shorthand)")
	runOnce      = flag.Bool("once", false, "Run a single scan and exit")
	runSchedule  = flag.Bool("schedule", false, "Run the daily scheduler even when disabled in config")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("MA Radar version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// Startup sequence: load config, initialize logger, print banner.
	configPath := *configFile
	if configPath == "" {
		configPath = *configFileC
	}
	if configPath == "" {
		if _, err := os.Stat("maradar.toml"); err == nil {
			configPath = "maradar.toml"
		}
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		arbor.NewLogger().Fatal().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Str("config", configPath).
		Str("environment", config.Environment).
		Str("model", config.Claude.Model).
		Msg("Configuration loaded")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	scheduled := (config.Schedule.Enabled || *runSchedule) && !*runOnce
	if !scheduled {
		report, err := application.RunOnce(context.Background())
		if err != nil {
			logger.Fatal().Err(err).Msg("Radar scan failed")
			os.Exit(1)
		}
		fmt.Printf("\nScan terminé : %d signaux captés, %d uniques\n", report.Collected, report.Unique)
		fmt.Printf("  CRITIQUE: %d  VIGILANCE: %d  RADAR: %d  FAIBLE: %d  ERREUR: %d\n",
			report.Critique, report.Vigilance, report.Radar, report.Faible, report.Erreur)
		fmt.Printf("  Opportunités enregistrées : %d (durée %s)\n",
			report.Opportunities, report.Duration.Round(time.Millisecond))
		return
	}

	if err := application.Scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
		os.Exit(1)
	}
	logger.Info().
		Str("daily_scan", config.Schedule.DailyScan).
		Str("next_run", application.Scheduler.NextRun().Format("2006-01-02 15:04")).
		Msg("Daily scan scheduled, waiting")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutdown signal received")
}
