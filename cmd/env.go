package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizmaster/internal/bank"
	"github.com/abhisek/quizmaster/internal/config"
	"github.com/abhisek/quizmaster/internal/llm"
	"github.com/abhisek/quizmaster/internal/logging"
	"github.com/abhisek/quizmaster/internal/screen"
	"github.com/abhisek/quizmaster/internal/store"
	"github.com/abhisek/quizmaster/internal/tutor"
)

// env is everything a command needs after flags, config and logging have
// been resolved.
type env struct {
	cfg      config.Config
	bank     *bank.Bank
	store    *store.Store
	closeLog func() error
}

// setup loads config, applies persistent flags, installs the logger and
// opens the bank and store.
func setup(cmd *cobra.Command) (*env, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v, _ := flags.GetString("db"); v != "" {
		cfg.DB = v
	}
	if v, _ := flags.GetString("bank"); v != "" {
		cfg.Bank = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := flags.GetString("log-file"); v != "" {
		cfg.Log.File = v
	}

	closeLog, err := logging.Setup(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}

	e := &env{cfg: cfg, closeLog: closeLog}
	if e.bank, err = bank.Open(cfg.Bank); err != nil {
		e.Close()
		return nil, fmt.Errorf("open bank: %w", err)
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	if e.store, err = store.Open(dbPath); err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	slog.Debug("environment ready", "db", dbPath, "bank", e.bank.Title(), "questions", e.bank.QuestionCount())
	return e, nil
}

// resolveDBPath returns the database path from --db or config (highest
// priority), then QUIZMASTER_DB, then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			slog.Warn("close store", "err", err)
		}
	}
	if e.closeLog != nil {
		_ = e.closeLog()
	}
}

// deps builds the screen dependencies. The tutor is only wired when it is
// enabled and an LLM provider is configured.
func (e *env) deps(ctx context.Context) screen.Deps {
	return screen.Deps{
		Bank:          e.bank,
		Sessions:      e.store.SessionRepo(),
		Preferences:   e.store.PreferenceRepo(),
		Tutor:         e.tutor(ctx),
		FeedbackDelay: e.cfg.Delay(),
		ShuffleSeed:   e.cfg.ShuffleSeed,
		HistoryLimit:  e.cfg.Limit(),
	}
}

func (e *env) tutor(ctx context.Context) *tutor.Service {
	if !e.cfg.TutorEnabled() {
		return nil
	}
	llmCfg, ok := llm.Resolve()
	if !ok {
		slog.Info("no LLM provider configured, tutor disabled")
		return nil
	}
	return newTutor(ctx, llmCfg, e.store.EventRepo())
}

// newTutor returns nil when the provider cannot be built.
func newTutor(ctx context.Context, cfg llm.Config, events store.EventRepo) *tutor.Service {
	provider, err := llm.NewProvider(ctx, cfg, events)
	if err != nil {
		slog.Warn("LLM provider unavailable, tutor disabled", "provider", cfg.Provider, "err", err)
		return nil
	}
	return tutor.NewService(provider, tutor.DefaultConfig())
}
