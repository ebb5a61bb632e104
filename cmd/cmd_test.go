package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmaster/internal/bank"
	"github.com/abhisek/quizmaster/internal/llm"
	"github.com/abhisek/quizmaster/internal/session"
	"github.com/abhisek/quizmaster/internal/store"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("QUIZMASTER_DB", "")
	t.Setenv("QUIZMASTER_BANK", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args,
		"--db", filepath.Join(dir, "quiz.db"),
		"--log-file", filepath.Join(dir, "quiz.log"),
	))
	err := rootCmd.Execute()
	return out.String(), err
}

// seed stores one finished genetics session and returns its id.
func seed(t *testing.T, dir string) string {
	t.Helper()
	b, err := bank.Default()
	require.NoError(t, err)
	pools, err := b.Select([]string{"genetics"})
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := session.New(session.WithSeed(3), session.WithClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	}))
	st, err := e.Initialize(pools)
	require.NoError(t, err)

	var report *session.Report
	for report == nil {
		_, err := e.SubmitAnswer(st.Current.ID, st.Current.CorrectAnswer)
		require.NoError(t, err)
		st, report, err = e.Advance()
		require.NoError(t, err)
	}

	s, err := store.Open(filepath.Join(dir, "quiz.db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.SessionRepo().SaveReport(t.Context(), report))
	return report.SessionID
}

func TestTopicsCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "genetics")
	assert.Contains(t, out, "Genetics & Heredity")
	assert.Contains(t, out, "15")
}

func TestHistoryCommands(t *testing.T) {
	dir := t.TempDir()
	id := seed(t, dir)

	out, err := run(t, dir, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "3/3")

	out, err = run(t, dir, "history", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Genetics & Heredity")
	assert.Contains(t, out, "ANSWERS")

	jsonPath := filepath.Join(dir, "report.json")
	_, err = run(t, dir, "history", "export", id, "-o", jsonPath)
	require.NoError(t, err)
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, id, doc["session_id"])

	out, err = run(t, dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions: 1 (1 completed, 0 ended early)")
}

func TestHistoryShowUnknown(t *testing.T) {
	_, err := run(t, t.TempDir(), "history", "show", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestExporterFor(t *testing.T) {
	for _, name := range []string{"a.xlsx", "B.JSON"} {
		_, err := exporterFor(name)
		assert.NoError(t, err, name)
	}
	_, err := exporterFor("report.csv")
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestResetNeedsConfirmation(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir)

	_, err := run(t, dir, "reset")
	assert.Error(t, err)

	out, err := run(t, dir, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared.")

	out, err = run(t, dir, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")
}

func TestNewTutor(t *testing.T) {
	assert.NotNil(t, newTutor(t.Context(), llm.Config{Provider: "mock"}, nil))
	assert.Nil(t, newTutor(t.Context(), llm.Config{Provider: "carrier-pigeon"}, nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Gen", truncate("Genetics", 3))
	assert.Equal(t, "Cell", truncate("Cell", 10))
	assert.Equal(t, "1:05", formatElapsed(65_000))
}
