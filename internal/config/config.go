package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFeedbackDelay is how long answer feedback stays on screen before
// the quiz moves on by itself.
const DefaultFeedbackDelay = 1500 * time.Millisecond

// DefaultHistoryLimit caps the number of stored sessions.
const DefaultHistoryLimit = 200

// Config holds user settings. Zero values mean "use the default".
type Config struct {
	Bank          string `yaml:"bank"`
	DB            string `yaml:"db"`
	FeedbackDelay string `yaml:"feedback_delay"`
	ShuffleSeed   uint64 `yaml:"shuffle_seed"`
	HistoryLimit  int    `yaml:"history_limit"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`

	Tutor struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"tutor"`
}

// Load reads .env (if present), then the YAML file at path (if present),
// then applies QUIZMASTER_* environment overrides. An empty path means
// DefaultPath; a missing default file is not an error.
func Load(path string) (Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Config{}
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("QUIZMASTER_BANK"); v != "" {
		c.Bank = v
	}
	if v := os.Getenv("QUIZMASTER_DB"); v != "" {
		c.DB = v
	}
	if v := os.Getenv("QUIZMASTER_FEEDBACK_DELAY"); v != "" {
		c.FeedbackDelay = v
	}
	if v := os.Getenv("QUIZMASTER_SHUFFLE_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("QUIZMASTER_SHUFFLE_SEED=%q: %w", v, err)
		}
		c.ShuffleSeed = seed
	}
	if v := os.Getenv("QUIZMASTER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("QUIZMASTER_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("QUIZMASTER_TUTOR"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("QUIZMASTER_TUTOR=%q: %w", v, err)
		}
		c.Tutor.Enabled = &on
	}
	return nil
}

// Validate checks values that can only be wrong, not merely unset.
func (c Config) Validate() error {
	if c.FeedbackDelay != "" {
		d, err := time.ParseDuration(c.FeedbackDelay)
		if err != nil {
			return fmt.Errorf("feedback_delay %q: %w", c.FeedbackDelay, err)
		}
		if d < 0 {
			return fmt.Errorf("feedback_delay must not be negative, got %s", d)
		}
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Delay returns the feedback delay, or DefaultFeedbackDelay when unset.
// Zero means wait for a key press.
func (c Config) Delay() time.Duration {
	return Duration(c.FeedbackDelay, DefaultFeedbackDelay)
}

// Limit returns the history limit, or DefaultHistoryLimit when unset.
func (c Config) Limit() int {
	if c.HistoryLimit == 0 {
		return DefaultHistoryLimit
	}
	return c.HistoryLimit
}

// TutorEnabled reports whether the tutor should be offered when an LLM
// provider is configured. Defaults to true.
func (c Config) TutorEnabled() bool {
	return c.Tutor.Enabled == nil || *c.Tutor.Enabled
}

// Duration parses a duration string or returns the fallback if empty.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// DefaultPath returns $XDG_CONFIG_HOME/quizmaster/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "quizmaster", "config.yaml"), nil
}
