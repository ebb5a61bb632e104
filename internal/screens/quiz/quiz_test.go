package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmaster/internal/bank"
	"github.com/abhisek/quizmaster/internal/llm"
	"github.com/abhisek/quizmaster/internal/router"
	"github.com/abhisek/quizmaster/internal/screen"
	"github.com/abhisek/quizmaster/internal/session"
	"github.com/abhisek/quizmaster/internal/store"
	"github.com/abhisek/quizmaster/internal/tutor"
)

type fakeSessions struct {
	mu      sync.Mutex
	saved   []*session.Report
	pruned  []int
	saveErr error
}

func (f *fakeSessions) SaveReport(_ context.Context, r *session.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, r)
	return nil
}
func (f *fakeSessions) RecentSessions(context.Context, store.QueryOpts) ([]store.SessionSummary, error) {
	return nil, nil
}
func (f *fakeSessions) Session(context.Context, string) (*store.SessionDetail, error) {
	return nil, store.ErrNotFound
}
func (f *fakeSessions) TopicTotals(context.Context) ([]store.TopicTotal, error) { return nil, nil }
func (f *fakeSessions) Delete(context.Context, string) error                    { return nil }
func (f *fakeSessions) Prune(_ context.Context, keep int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruned = append(f.pruned, keep)
	return nil
}

func press(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func cellPool() bank.TopicPool {
	return bank.TopicPool{
		ID:    "cells",
		Title: "Cell Biology",
		Questions: []bank.Question{
			{ID: "c1", Prompt: "Powerhouse of the cell?", Options: []string{"Mitochondria", "Nucleus"}, CorrectAnswer: 0, Explanation: "ATP."},
			{ID: "c2", Prompt: "Site of photosynthesis?", Options: []string{"Chloroplast", "Ribosome"}, CorrectAnswer: 0},
		},
	}
}

func testDeps() screen.Deps {
	return screen.Deps{ShuffleSeed: 42}
}

func update(t *testing.T, s screen.Screen, msg tea.Msg) (screen.Screen, tea.Cmd) {
	t.Helper()
	next, cmd := s.Update(msg)
	require.NotNil(t, next)
	return next, cmd
}

// answer picks the correct or a wrong option for the current question.
func answer(t *testing.T, q *QuizScreen, correct bool) tea.Cmd {
	t.Helper()
	opt := q.state.Current.CorrectAnswer
	if !correct {
		opt = (opt + 1) % len(q.state.Current.Options)
	}
	q.Update(press(string(rune('1' + opt))))
	_, cmd := update(t, q, press("enter"))
	return cmd
}

func resultsFrom(t *testing.T, cmd tea.Cmd) *ResultsScreen {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok, "expected ReplaceScreenMsg")
	res, ok := msg.Screen.(*ResultsScreen)
	require.True(t, ok, "expected results screen, got %T", msg.Screen)
	return res
}

func TestQuizRequeuesWrongAnswer(t *testing.T) {
	q := New(testDeps(), []bank.TopicPool{cellPool()})
	require.Empty(t, q.errMsg)
	first := q.state.Current.ID

	assert.Nil(t, answer(t, q, false), "zero delay waits for a key")
	require.NotNil(t, q.outcome)
	assert.False(t, q.outcome.Correct)
	assert.Equal(t, []string{"any key"}, []string{q.KeyHints()[0].Key})

	// Any key continues.
	update(t, q, press("x"))
	assert.Nil(t, q.outcome)
	assert.NotEqual(t, first, q.state.Current.ID, "missed question goes to the back")

	answer(t, q, true)
	update(t, q, press("enter"))
	assert.Equal(t, first, q.state.Current.ID)
	assert.Equal(t, "1/2 mastered", q.Status())

	answer(t, q, true)
	_, cmd := update(t, q, press("enter"))
	res := resultsFrom(t, cmd)

	assert.True(t, res.report.Completed)
	assert.Equal(t, 2, res.report.MasteredCount)
	assert.Len(t, res.report.Records, 3)
	require.Len(t, res.report.Missed, 1)
	assert.Equal(t, first, res.report.Missed[0].Question.ID)
}

func TestQuizFeedbackTimer(t *testing.T) {
	deps := testDeps()
	deps.FeedbackDelay = time.Hour
	q := New(deps, []bank.TopicPool{cellPool()})

	cmd := answer(t, q, false)
	assert.NotNil(t, cmd, "a delay schedules the advance")
	token := q.token

	update(t, q, feedbackDoneMsg{token: token - 1})
	assert.NotNil(t, q.outcome, "stale tick is ignored")

	update(t, q, feedbackDoneMsg{token: token})
	assert.Nil(t, q.outcome)
	assert.Equal(t, session.PhaseAwaitingAnswer, q.state.Phase)

	update(t, q, feedbackDoneMsg{token: token})
	assert.Equal(t, session.PhaseAwaitingAnswer, q.engine.Phase(), "tick after skipping does nothing")
}

func TestQuizEndEarly(t *testing.T) {
	q := New(testDeps(), []bank.TopicPool{cellPool()})
	assert.True(t, q.HandlesEscape())

	update(t, q, press("esc"))
	assert.True(t, q.confirming)
	update(t, q, press("n"))
	assert.False(t, q.confirming)

	answer(t, q, true)
	update(t, q, press("esc"))
	require.True(t, q.confirming)
	_, cmd := update(t, q, press("y"))
	res := resultsFrom(t, cmd)

	assert.False(t, res.report.Completed)
	assert.Equal(t, 1, res.report.QuestionsAttempted)
	assert.Equal(t, 2, res.report.TotalQuestions)
}

func TestQuizEmptySelection(t *testing.T) {
	q := New(testDeps(), nil)
	require.NotEmpty(t, q.errMsg)
	assert.Contains(t, q.View(80, 24), "Error")

	_, cmd := update(t, q, press("x"))
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}

func finishedResults(t *testing.T, deps screen.Deps, missFirst bool) *ResultsScreen {
	t.Helper()
	q := New(deps, []bank.TopicPool{cellPool()})
	if missFirst {
		answer(t, q, false)
		update(t, q, press("x"))
	}
	for {
		answer(t, q, true)
		_, cmd := update(t, q, press("enter"))
		if q.engine.Phase() == session.PhaseComplete {
			return resultsFrom(t, cmd)
		}
	}
}

func TestResultsSavesReport(t *testing.T) {
	repo := &fakeSessions{}
	deps := testDeps()
	deps.Sessions = repo
	deps.HistoryLimit = 10

	res := finishedResults(t, deps, false)
	cmd := res.Init()
	require.NotNil(t, cmd)
	update(t, res, cmd())

	assert.Equal(t, saved, res.save)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, res.report.SessionID, repo.saved[0].SessionID)
	assert.Equal(t, []int{10}, repo.pruned)
	assert.Contains(t, res.View(100, 40), "Saved to history")
}

func TestResultsSaveFailure(t *testing.T) {
	deps := testDeps()
	deps.Sessions = &fakeSessions{saveErr: errors.New("disk full")}

	res := finishedResults(t, deps, false)
	update(t, res, res.Init()())
	assert.Equal(t, saveFailed, res.save)
	assert.Contains(t, res.View(100, 40), "disk full")
	assert.Contains(t, res.View(100, 40), "Quiz Complete!")
}

func TestResultsNavigation(t *testing.T) {
	res := finishedResults(t, testDeps(), true)
	assert.Nil(t, res.Init(), "no repo, nothing to save")

	_, cmd := update(t, res, press("n"))
	assert.Equal(t, screen.ChooseTopicsMsg{Replace: true}, cmd())

	_, cmd = update(t, res, press("esc"))
	assert.IsType(t, router.PopToRootMsg{}, cmd())

	oldID := res.report.SessionID
	_, cmd = update(t, res, press("r"))
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	retake, ok := msg.Screen.(*QuizScreen)
	require.True(t, ok)
	assert.Equal(t, session.PhaseAwaitingAnswer, retake.state.Phase)
	assert.NotEqual(t, oldID, retake.state.SessionID)
	assert.Equal(t, 0, retake.state.MasteredCount)
}

func TestResultsExplainMistake(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(
		`{"why_wrong":"The nucleus holds DNA.","concept":"Mitochondria release energy.","tip":"Mito = motor."}`)})
	deps := testDeps()
	deps.Tutor = tutor.NewService(mock, tutor.DefaultConfig())

	res := finishedResults(t, deps, true)
	require.Len(t, res.report.Missed, 1)
	id := res.report.Missed[0].Question.ID

	_, cmd := update(t, res, press("e"))
	require.NotNil(t, cmd)
	assert.True(t, res.pending[id])
	assert.Contains(t, res.View(100, 40), "Asking the tutor")

	deadline := time.Now().Add(5 * time.Second)
	for res.pending[id] && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
		update(t, res, explainPollMsg{questionID: id})
	}
	require.False(t, res.pending[id])
	require.NoError(t, res.explanations[id].Err)
	assert.Contains(t, res.View(100, 40), "Tip:")
	assert.Equal(t, 1, mock.CallCount())

	// A finished explanation is not requested again.
	_, cmd = update(t, res, press("e"))
	assert.Nil(t, cmd)
}

func TestResultsExplainHiddenWithoutTutor(t *testing.T) {
	res := finishedResults(t, testDeps(), true)
	for _, h := range res.KeyHints() {
		assert.NotEqual(t, "E", h.Key)
	}
	_, cmd := update(t, res, press("e"))
	assert.Nil(t, cmd)
}
