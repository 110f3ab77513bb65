package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig  `toml:"logging"`
	Storage     StorageConfig  `toml:"storage"`
	Claude      ClaudeConfig   `toml:"claude"`
	Scoring     ScoringConfig  `toml:"scoring"`
	Sources     SourcesConfig  `toml:"sources"`
	Schedule    ScheduleConfig `toml:"schedule"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration. An empty path
// disables persistence: saves become no-ops and the pipeline still runs.
type BadgerConfig struct {
	Path           string `toml:"path"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

// ClaudeConfig contains Anthropic Claude API configuration for the scoring
// oracle and memo generation.
type ClaudeConfig struct {
	APIKey        string  `toml:"api_key"`         // Anthropic API key (or ANTHROPIC_API_KEY)
	Model         string  `toml:"model"`           // Model for analysis (default: "claude-sonnet-4-20250514")
	MaxTokens     int     `toml:"max_tokens"`      // Output budget for one analysis (default: 1000)
	MemoMaxTokens int     `toml:"memo_max_tokens"` // Output budget for one memo (default: 800)
	Timeout       string  `toml:"timeout"`         // Per-call timeout as duration string (default: "60s")
	RateLimit     string  `toml:"rate_limit"`      // Minimum spacing between calls (default: "1s")
	Temperature   float32 `toml:"temperature"`     // Completion temperature (default: 0)
}

// ScoringWeight is one entry of the origination grid. Order is significant:
// the blender scans entries in declared order and the first match wins.
type ScoringWeight struct {
	Key    string `toml:"key" validate:"required"`
	Points int    `toml:"points" validate:"gte=0,lte=100"`
}

// ScoringConfig carries the origination thesis: the ordered weight grid and
// the alert thresholds.
type ScoringConfig struct {
	Weights        []ScoringWeight `toml:"weights" validate:"min=1,dive"`
	SeuilCritique  int             `toml:"seuil_critique" validate:"gte=0,lte=100"`
	SeuilVigilance int             `toml:"seuil_vigilance" validate:"gte=0,lte=100"`
	SeuilRadar     int             `toml:"seuil_radar" validate:"gte=0,lte=100"`
}

// WeightFor returns the points for a grid key, or 0 when absent.
func (c ScoringConfig) WeightFor(key string) int {
	for _, w := range c.Weights {
		if w.Key == key {
			return w.Points
		}
	}
	return 0
}

// PressFeed is one RSS/Atom feed of the economic press.
type PressFeed struct {
	Source string `toml:"source"`
	URL    string `toml:"url"`
}

// SourcesConfig lists the public sources scanned each run.
type SourcesConfig struct {
	PressFeeds      []PressFeed `toml:"press_feeds"`
	RegistryURL     string      `toml:"registry_url"`
	GazetteURL      string      `toml:"gazette_url"`
	CompetitionURL  string      `toml:"competition_url"`
	PrioritySectors []string    `toml:"priority_sectors"`
	RequestTimeout  string      `toml:"request_timeout"` // HTTP timeout per source request (default: "15s")
	UserAgent       string      `toml:"user_agent"`
}

// ScheduleConfig controls the daily scan.
type ScheduleConfig struct {
	Enabled   bool   `toml:"enabled"`
	DailyScan string `toml:"daily_scan" validate:"omitempty,datetime=15:04"` // "HH:MM" local time
}

// NewDefaultConfig creates a configuration with default values. The weight
// grid and thresholds encode the house origination thesis and can be adjusted
// in maradar.toml at any time.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Claude: ClaudeConfig{
			APIKey:        "", // ANTHROPIC_API_KEY or claude.api_key in config
			Model:         "claude-sonnet-4-20250514",
			MaxTokens:     1000,
			MemoMaxTokens: 800,
			Timeout:       "60s",
			RateLimit:     "1s",
			Temperature:   0,
		},
		Scoring: ScoringConfig{
			Weights: []ScoringWeight{
				{Key: "transmission_succession", Points: 25},    // succession problem / ageing founder
				{Key: "acquereur_actif_secteur", Points: 22},    // competitor running external growth
				{Key: "desinvestissement_activite", Points: 20}, // non-core divestment
				{Key: "besoin_cash_bfr", Points: 18},            // negative cash / constrained working capital
				{Key: "gearing_eleve", Points: 16},              // heavy debt load
				{Key: "investissements_recents", Points: 14},    // significant recent capex
				{Key: "changement_direction", Points: 12},       // new CEO / management change
				{Key: "recrutement_profil_ma", Points: 10},      // CFO / deputy-CEO hire
				{Key: "expansion_geographique", Points: 8},      // new sites / regions
				{Key: "consolidation_sectorielle", Points: 6},   // sector M&A trend
			},
			SeuilCritique:  80,
			SeuilVigilance: 60,
			SeuilRadar:     40,
		},
		Sources: SourcesConfig{
			PressFeeds: []PressFeed{
				{Source: "Médias24", URL: "https://www.medias24.com/feed"},
				{Source: "Médias24 Éco", URL: "https://www.medias24.com/economie/feed"},
				{Source: "Médias24 Bourse", URL: "https://www.medias24.com/bourse/feed"},
				{Source: "L'Économiste", URL: "https://www.leconomiste.com/rss.xml"},
				{Source: "Challenge", URL: "https://www.challenge.ma/feed"},
				{Source: "LesEco", URL: "https://leseco.ma/feed"},
				{Source: "Aujourd'hui", URL: "https://aujourdhui.ma/feed"},
				{Source: "Telquel", URL: "https://telquel.ma/feed"},
				{Source: "MAP", URL: "https://www.mapnews.ma/fr/rss/economie"},
			},
			RegistryURL:    "https://www.ompic.ma/fr/content/recherche-dans-le-registre-central-du-commerce",
			GazetteURL:     "https://www.bulletinofficiel.ma",
			CompetitionURL: "https://conseil-concurrence.ma",
			PrioritySectors: []string{
				"distribution", "retail", "industrie", "manufacturing", "btp",
				"materiaux construction", "logistique", "agroalimentaire",
				"sante", "fintech", "education",
			},
			RequestTimeout: "15s",
			UserAgent:      "Mozilla/5.0 (compatible; MARadarBot/1.0)",
		},
		Schedule: ScheduleConfig{
			Enabled:   false,
			DailyScan: "07:00",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// An empty path keeps defaults and still applies env overrides.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks structural constraints on the loaded configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Scoring.SeuilCritique < c.Scoring.SeuilVigilance || c.Scoring.SeuilVigilance < c.Scoring.SeuilRadar {
		return fmt.Errorf("invalid configuration: alert thresholds must be ordered critique >= vigilance >= radar (got %d/%d/%d)",
			c.Scoring.SeuilCritique, c.Scoring.SeuilVigilance, c.Scoring.SeuilRadar)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MARADAR_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("MARADAR_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("MARADAR_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	if badgerPath := os.Getenv("MARADAR_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if reset := os.Getenv("MARADAR_BADGER_RESET"); reset != "" {
		if r, err := strconv.ParseBool(reset); err == nil {
			config.Storage.Badger.ResetOnStartup = r
		}
	}

	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("MARADAR_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if model := os.Getenv("MARADAR_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if timeout := os.Getenv("MARADAR_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}

	if seuil := os.Getenv("MARADAR_SEUIL_CRITIQUE"); seuil != "" {
		if s, err := strconv.Atoi(seuil); err == nil {
			config.Scoring.SeuilCritique = s
		}
	}
	if seuil := os.Getenv("MARADAR_SEUIL_VIGILANCE"); seuil != "" {
		if s, err := strconv.Atoi(seuil); err == nil {
			config.Scoring.SeuilVigilance = s
		}
	}
	if seuil := os.Getenv("MARADAR_SEUIL_RADAR"); seuil != "" {
		if s, err := strconv.Atoi(seuil); err == nil {
			config.Scoring.SeuilRadar = s
		}
	}

	if scan := os.Getenv("MARADAR_DAILY_SCAN"); scan != "" {
		config.Schedule.DailyScan = scan
	}
}
