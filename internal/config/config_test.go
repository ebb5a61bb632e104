package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadFile(t *testing.T) {
	p := writeFile(t, `
bank: /tmp/bank.yaml
feedback_delay: 800ms
shuffle_seed: 7
history_limit: 50
log:
  level: debug
  format: json
tutor:
  enabled: false
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/bank.yaml", cfg.Bank)
	assert.Equal(t, 800*time.Millisecond, cfg.Delay())
	assert.Equal(t, uint64(7), cfg.ShuffleSeed)
	assert.Equal(t, 50, cfg.Limit())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.TutorEnabled())
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFeedbackDelay, cfg.Delay())
	assert.Equal(t, DefaultHistoryLimit, cfg.Limit())
	assert.True(t, cfg.TutorEnabled())
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	p := writeFile(t, "feedback_delay: 2s\n")
	t.Setenv("QUIZMASTER_FEEDBACK_DELAY", "0s")
	t.Setenv("QUIZMASTER_DB", "/tmp/q.db")
	t.Setenv("QUIZMASTER_SHUFFLE_SEED", "99")
	t.Setenv("QUIZMASTER_TUTOR", "true")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Delay())
	assert.Equal(t, "/tmp/q.db", cfg.DB)
	assert.Equal(t, uint64(99), cfg.ShuffleSeed)
	assert.True(t, cfg.TutorEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad duration", "feedback_delay: soon\n"},
		{"negative duration", "feedback_delay: -1s\n"},
		{"negative history", "history_limit: -3\n"},
		{"bad log format", "log:\n  format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestBadSeedEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("QUIZMASTER_SHUFFLE_SEED", "lots")
	_, err := Load("")
	assert.Error(t, err)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, time.Second, Duration("", time.Second))
	assert.Equal(t, time.Second, Duration("garbage", time.Second))
	assert.Equal(t, 3*time.Minute, Duration("3m", time.Second))
}
