// Package quiz holds the quiz and results screens, which share one engine.
package quiz

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizmaster/internal/bank"
	"github.com/abhisek/quizmaster/internal/router"
	"github.com/abhisek/quizmaster/internal/screen"
	"github.com/abhisek/quizmaster/internal/session"
	"github.com/abhisek/quizmaster/internal/ui/components"
	"github.com/abhisek/quizmaster/internal/ui/layout"
)

// QuizScreen presents questions from a session engine.
type QuizScreen struct {
	deps   screen.Deps
	engine *session.Engine
	state  session.State
	topics map[string]string // pool id -> title

	choice     components.MultiChoice
	outcome    *session.Outcome
	confirming bool
	token      int
	errMsg     string
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
	_ screen.EscapeHandler   = (*QuizScreen)(nil)
)

// New starts a session over pools. An empty selection leaves the screen
// showing the configuration error.
func New(deps screen.Deps, pools []bank.TopicPool) *QuizScreen {
	engine := deps.NewEngine()
	st, err := engine.Initialize(pools)
	q := resume(deps, engine, st)
	if err != nil {
		q.errMsg = err.Error()
	}
	return q
}

// resume wraps an engine that is already awaiting an answer.
func resume(deps screen.Deps, engine *session.Engine, st session.State) *QuizScreen {
	titles := make(map[string]string)
	for _, p := range engine.Pools() {
		titles[p.ID] = p.Title
	}
	q := &QuizScreen{deps: deps, engine: engine, topics: titles}
	q.present(st)
	return q
}

func (q *QuizScreen) present(st session.State) {
	q.state = st
	q.outcome = nil
	q.choice = components.NewMultiChoice(st.Current.Prompt, st.Current.Options)
}

func (q *QuizScreen) Init() tea.Cmd {
	if q.errMsg == "" {
		slog.Info("quiz started", "session", q.state.SessionID, "questions", q.state.TotalQuestions)
	}
	return nil
}

func (q *QuizScreen) Title() string { return "Quiz" }

func (q *QuizScreen) HandlesEscape() bool { return true }

func (q *QuizScreen) Status() string {
	if q.errMsg != "" {
		return ""
	}
	return fmt.Sprintf("%d/%d mastered", q.state.MasteredCount, q.state.TotalQuestions)
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case q.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case q.confirming:
		return hints(keys.Confirm, keys.Cancel)
	case q.outcome != nil:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	default:
		return hints(keys.Up, keys.Pick, keys.Submit, keys.End)
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case feedbackDoneMsg:
		if q.outcome == nil || msg.token != q.token {
			return q, nil
		}
		return q.advance()

	case tea.KeyPressMsg:
		return q.handleKey(msg)
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if q.errMsg != "" {
		return q, router.Pop
	}

	if q.confirming {
		switch {
		case key.Matches(msg, keys.Confirm):
			q.confirming = false
			return q.endEarly()
		case key.Matches(msg, keys.Cancel):
			q.confirming = false
		}
		return q, nil
	}

	if key.Matches(msg, keys.End) {
		q.confirming = true
		return q, nil
	}

	// Any key skips the feedback pause.
	if q.outcome != nil {
		return q.advance()
	}

	if key.Matches(msg, keys.Submit) {
		return q.submit()
	}
	q.choice = q.choice.Update(msg)
	return q, nil
}

func (q *QuizScreen) submit() (screen.Screen, tea.Cmd) {
	out, err := q.engine.SubmitAnswer(q.state.Current.ID, q.choice.Cursor)
	if err != nil {
		return q.fail(err)
	}
	q.outcome = &out
	q.choice = q.choice.Reveal(out.Selected, out.CorrectOption)
	q.state = q.engine.State()
	q.token++

	slog.Debug("answer", "question", out.QuestionID, "correct", out.Correct, "spent", out.TimeSpent)

	if q.deps.FeedbackDelay <= 0 {
		return q, nil
	}
	token := q.token
	return q, tea.Tick(q.deps.FeedbackDelay, func(time.Time) tea.Msg {
		return feedbackDoneMsg{token: token}
	})
}

func (q *QuizScreen) advance() (screen.Screen, tea.Cmd) {
	st, report, err := q.engine.Advance()
	if err != nil {
		return q.fail(err)
	}
	if report != nil {
		return q, q.showResults(report)
	}
	q.present(st)
	return q, nil
}

func (q *QuizScreen) endEarly() (screen.Screen, tea.Cmd) {
	report, err := q.engine.EndEarly()
	if err != nil {
		return q.fail(err)
	}
	return q, q.showResults(report)
}

func (q *QuizScreen) showResults(report *session.Report) tea.Cmd {
	slog.Info("quiz finished", "session", report.SessionID, "completed", report.Completed,
		"mastered", report.MasteredCount, "total", report.TotalQuestions, "elapsed", report.Elapsed)
	return router.Replace(NewResults(q.deps, q.engine, report))
}

// fail surfaces an engine error. These indicate a screen bug, so they are
// logged loudly but shown without crashing.
func (q *QuizScreen) fail(err error) (screen.Screen, tea.Cmd) {
	slog.Error("quiz engine", "err", err, "invalid_state", errors.Is(err, session.ErrInvalidState))
	q.errMsg = err.Error()
	return q, nil
}
