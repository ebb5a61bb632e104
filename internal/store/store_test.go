package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmaster/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testReport(id string, started time.Time, completed bool) *session.Report {
	return &session.Report{
		SessionID:          id,
		StartedAt:          started,
		EndedAt:            started.Add(90 * time.Second),
		Elapsed:            90 * time.Second,
		QuestionsAttempted: 2,
		TotalQuestions:     3,
		MasteredCount:      2,
		Completed:          completed,
		Records: []session.AnswerRecord{
			{QuestionID: "gen-1", TopicID: "genetics", Selected: 0, Correct: false, TimeSpent: 4 * time.Second, AnsweredAt: started.Add(4 * time.Second)},
			{QuestionID: "gen-2", TopicID: "genetics", Selected: 1, Correct: true, TimeSpent: 3 * time.Second, AnsweredAt: started.Add(7 * time.Second)},
			{QuestionID: "gen-1", TopicID: "genetics", Selected: 1, Correct: true, TimeSpent: 2 * time.Second, AnsweredAt: started.Add(9 * time.Second)},
		},
		Topics: []session.TopicScore{
			{TopicID: "genetics", Title: "Genetics & Heredity", Correct: 2, Total: 3},
		},
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabaseUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "quiz.db")
	require.NoError(t, EnsureDir(path))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestSaveAndLoadSession(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	started := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	rep := testReport("s-1", started, true)
	require.NoError(t, repo.SaveReport(ctx, rep))

	got, err := repo.Session(ctx, "s-1")
	require.NoError(t, err)

	assert.Equal(t, started, got.StartedAt)
	assert.Equal(t, 90*time.Second, got.Elapsed)
	assert.Equal(t, 3, got.TotalQuestions)
	assert.Equal(t, 2, got.MasteredCount)
	assert.Equal(t, 1, got.IncorrectCount)
	assert.True(t, got.Completed)
	assert.Equal(t, 66, got.Percent())
	assert.Equal(t, rep.Topics, got.Topics)
	assert.Equal(t, rep.Records, got.Answers)

	back := got.Report()
	assert.Equal(t, 2, back.QuestionsAttempted)
	assert.Equal(t, rep.Records, back.Records)
}

func TestSaveReportTwiceReplaces(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	rep := testReport("s-1", time.Now().UTC(), false)
	require.NoError(t, repo.SaveReport(ctx, rep))
	require.NoError(t, repo.SaveReport(ctx, rep))

	all, err := repo.RecentSessions(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	got, err := repo.Session(ctx, "s-1")
	require.NoError(t, err)
	assert.Len(t, got.Answers, 3)
}

func TestSessionNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SessionRepo().Session(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = s.SessionRepo().Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecentSessions(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rep := testReport(fmt.Sprintf("s-%d", i), base.Add(time.Duration(i)*time.Hour), i%2 == 0)
		require.NoError(t, repo.SaveReport(ctx, rep))
	}

	all, err := repo.RecentSessions(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "s-4", all[0].ID, "newest first")
	assert.Equal(t, "s-0", all[4].ID)

	limited, err := repo.RecentSessions(ctx, QueryOpts{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "s-3", limited[0].ID)

	done, err := repo.RecentSessions(ctx, QueryOpts{CompletedOnly: true})
	require.NoError(t, err)
	assert.Len(t, done, 3)

	window, err := repo.RecentSessions(ctx, QueryOpts{From: base.Add(time.Hour), To: base.Add(3 * time.Hour)})
	require.NoError(t, err)
	assert.Len(t, window, 3)
}

func TestTopicTotals(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.SaveReport(ctx, testReport("a", now, true)))
	second := testReport("b", now.Add(time.Minute), true)
	second.Topics = append(second.Topics, session.TopicScore{TopicID: "ecology", Title: "Ecology & Environment", Correct: 1, Total: 3})
	require.NoError(t, repo.SaveReport(ctx, second))

	totals, err := repo.TopicTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, TopicTotal{TopicID: "ecology", Title: "Ecology & Environment", Sessions: 1, Correct: 1, Total: 3}, totals[0])
	assert.Equal(t, TopicTotal{TopicID: "genetics", Title: "Genetics & Heredity", Sessions: 2, Correct: 4, Total: 6}, totals[1])
}

func TestDeleteCascades(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	require.NoError(t, repo.SaveReport(ctx, testReport("gone", time.Now().UTC(), true)))
	require.NoError(t, repo.Delete(ctx, "gone"))

	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM answer_records").Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM topic_scores").Scan(&n))
	assert.Zero(t, n)
}

func TestDeleteCascadesOnEveryConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	repo := s.SessionRepo()
	ctx := context.Background()
	require.NoError(t, repo.SaveReport(ctx, testReport("s1", time.Now().UTC(), true)))

	// Holding one connection forces the delete onto another.
	conn, err := s.DB().Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	var fk int
	require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	require.NoError(t, repo.Delete(ctx, "s1"))

	var n int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM topic_scores").Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM answer_records").Scan(&n))
	assert.Zero(t, n)

	totals, err := repo.TopicTotals(ctx)
	require.NoError(t, err)
	assert.Empty(t, totals)
}

func TestWithPragmas(t *testing.T) {
	assert.Equal(t,
		"file:/tmp/q.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)",
		withPragmas("/tmp/q.db"))
	assert.Equal(t,
		"file:mem?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)",
		withPragmas("file:mem?mode=memory&cache=shared"))
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 7; i++ {
		require.NoError(t, repo.SaveReport(ctx, testReport(fmt.Sprintf("s-%d", i), base.Add(time.Duration(i)*time.Minute), true)))
	}

	require.NoError(t, repo.Prune(ctx, 5))
	left, err := repo.RecentSessions(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, left, 5)
	assert.Equal(t, "s-6", left[0].ID)
	assert.Equal(t, "s-2", left[4].ID)

	// Fewer than keep is a no-op.
	require.NoError(t, repo.Prune(ctx, 10))
	left, err = repo.RecentSessions(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, left, 5)
}

func TestSelectionPreference(t *testing.T) {
	s := openTestStore(t)
	prefs := s.PreferenceRepo()
	ctx := context.Background()

	got, err := prefs.LastSelection(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, prefs.SaveSelection(ctx, []string{"genetics", "ecology"}))
	require.NoError(t, prefs.SaveSelection(ctx, []string{"evolution"}))

	got, err = prefs.LastSelection(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"evolution"}, got)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"explain", "explain", "hint"} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock-model",
			Purpose:      purpose,
			InputTokens:  100 + i,
			OutputTokens: 10,
			LatencyMs:    int64(200 * (i + 1)),
			Success:      i != 1,
			ErrorMessage: map[bool]string{true: "", false: "boom"}[i != 1],
		})
		require.NoError(t, err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "hint", events[0].Purpose)
	assert.False(t, events[1].Success)
	assert.Equal(t, "boom", events[1].ErrorMessage)

	one, err := repo.GetLLMEvent(ctx, events[1].ID)
	require.NoError(t, err)
	assert.Equal(t, events[1].Sequence, one.Sequence)

	_, err = repo.GetLLMEvent(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	usage, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, LLMUsage{Purpose: "explain", Calls: 2, InputTokens: 201, OutputTokens: 20, AvgLatencyMs: 300}, usage[0])
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.seq.Next(ctx)
	require.NoError(t, err)
	second, err := s.seq.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}
