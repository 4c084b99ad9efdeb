// Package config holds the runtime configuration for lexbot.
// Configuration is resolved in three layers: compiled defaults,
// an optional YAML file, and LEXBOT_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	// Years is the plausible calendar-year window. A 4-digit token inside
	// this window is treated as a year, never as a case identifier, and a
	// date candidate with a year outside it is discarded.
	Years YearRange `yaml:"years"`

	// DefaultYear is assumed when an utterance names a day and month but
	// no year ("el 19 de enero").
	DefaultYear int `yaml:"default_year"`

	// HistoryLimit bounds the per-session turn history; the oldest turn
	// is evicted once the limit is reached.
	HistoryLimit int `yaml:"history_limit"`

	// MaxPendingTurns expires an awaiting-slots dialogue after this many
	// consecutive turns that do not complete it. Zero means no expiry.
	MaxPendingTurns int `yaml:"max_pending_turns"`

	Classifier ClassifierConfig `yaml:"classifier"`
	Logging    LoggingConfig    `yaml:"logging"`
	Store      StoreConfig      `yaml:"store"`
	Gemini     GeminiConfig     `yaml:"gemini"`
}

// YearRange is an inclusive calendar-year window.
type YearRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Contains reports whether y falls inside the window.
func (r YearRange) Contains(y int) bool {
	return y >= r.Min && y <= r.Max
}

// ClassifierConfig selects and tunes the intent classification strategy.
type ClassifierConfig struct {
	// Strategy is "weighted" (trigger/context scoring) or "similarity"
	// (example-overlap scoring).
	Strategy string `yaml:"strategy"`

	// MinSimilarity is the global floor for the similarity strategy.
	MinSimilarity float64 `yaml:"min_similarity"`

	// IntentsPath optionally points to a YAML intent table that replaces
	// the compiled-in catalogue. Hot-reloaded when watching is enabled.
	IntentsPath string `yaml:"intents_path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// StoreConfig locates the case repository database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// GeminiConfig configures the document-summarization delegate.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Years:           YearRange{Min: 2020, Max: 2030},
		DefaultYear:     2025,
		HistoryLimit:    8,
		MaxPendingTurns: 0,
		Classifier: ClassifierConfig{
			Strategy:      "weighted",
			MinSimilarity: 0.35,
		},
		Store: StoreConfig{
			Path: ".lexbot/cases.db",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
	}
}

// Load resolves the configuration: defaults, then the YAML file at path
// (skipped when path is empty or missing), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnvOverrides maps LEXBOT_* variables onto the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEXBOT_DEBUG"); v != "" {
		cfg.Logging.Debug = v == "1" || v == "true"
	}
	if v := os.Getenv("LEXBOT_DEFAULT_YEAR"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			cfg.DefaultYear = y
		}
	}
	if v := os.Getenv("LEXBOT_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("LEXBOT_GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("LEXBOT_INTENTS_PATH"); v != "" {
		cfg.Classifier.IntentsPath = v
	}
	if v := os.Getenv("LEXBOT_CLASSIFIER"); v != "" {
		cfg.Classifier.Strategy = v
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Years.Min > c.Years.Max {
		return fmt.Errorf("years.min %d exceeds years.max %d", c.Years.Min, c.Years.Max)
	}
	if !c.Years.Contains(c.DefaultYear) {
		return fmt.Errorf("default_year %d outside plausible range %d-%d",
			c.DefaultYear, c.Years.Min, c.Years.Max)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be at least 1, got %d", c.HistoryLimit)
	}
	switch c.Classifier.Strategy {
	case "weighted", "similarity":
	default:
		return fmt.Errorf("unknown classifier strategy %q", c.Classifier.Strategy)
	}
	if c.Classifier.MinSimilarity < 0 || c.Classifier.MinSimilarity > 1 {
		return fmt.Errorf("min_similarity must be in [0,1], got %f", c.Classifier.MinSimilarity)
	}
	return nil
}
