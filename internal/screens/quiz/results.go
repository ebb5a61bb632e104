package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizmaster/internal/router"
	"github.com/abhisek/quizmaster/internal/screen"
	"github.com/abhisek/quizmaster/internal/session"
	"github.com/abhisek/quizmaster/internal/tutor"
	"github.com/abhisek/quizmaster/internal/ui/layout"
	"github.com/abhisek/quizmaster/internal/ui/theme"
)

const explainPollInterval = 150 * time.Millisecond

type saveState int

const (
	saveSkipped saveState = iota
	saving
	saved
	saveFailed
)

// ResultsScreen shows a finished session's report.
type ResultsScreen struct {
	deps   screen.Deps
	engine *session.Engine
	report *session.Report
	titles map[string]string

	cursor       int // index into report.Missed
	explanations map[string]tutor.Result
	pending      map[string]bool
	spinner      spinner.Model

	save    saveState
	saveErr error
}

var (
	_ screen.Screen          = (*ResultsScreen)(nil)
	_ screen.KeyHintProvider = (*ResultsScreen)(nil)
	_ screen.EscapeHandler   = (*ResultsScreen)(nil)
)

// NewResults shows report, which engine produced. The engine is kept so
// the same selection can be retaken.
func NewResults(deps screen.Deps, engine *session.Engine, report *session.Report) *ResultsScreen {
	titles := make(map[string]string, len(report.Topics))
	for _, t := range report.Topics {
		titles[t.TopicID] = t.Title
	}
	return &ResultsScreen{
		deps:         deps,
		engine:       engine,
		report:       report,
		titles:       titles,
		explanations: make(map[string]tutor.Result),
		pending:      make(map[string]bool),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init persists the report.
func (r *ResultsScreen) Init() tea.Cmd {
	if r.deps.Sessions == nil {
		return nil
	}
	r.save = saving
	repo, report, keep := r.deps.Sessions, r.report, r.deps.HistoryLimit
	return func() tea.Msg {
		ctx := context.Background()
		if err := repo.SaveReport(ctx, report); err != nil {
			return savedMsg{err: err}
		}
		if keep > 0 {
			if err := repo.Prune(ctx, keep); err != nil {
				slog.Warn("prune history", "err", err)
			}
		}
		return savedMsg{}
	}
}

func (r *ResultsScreen) Title() string { return "Results" }

func (r *ResultsScreen) HandlesEscape() bool { return true }

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	var bindings []key.Binding
	if len(r.report.Missed) > 0 {
		bindings = append(bindings, keys.Up)
		if r.deps.Tutor != nil {
			bindings = append(bindings, keys.Explain)
		}
	}
	return hints(append(bindings, keys.Retake, keys.NewQuiz, keys.Home)...)
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			slog.Error("save report", "session", r.report.SessionID, "err", msg.err)
			r.save, r.saveErr = saveFailed, msg.err
		} else {
			r.save = saved
		}
		return r, nil

	case explainPollMsg:
		return r, r.poll(msg.questionID)

	case spinner.TickMsg:
		if len(r.pending) == 0 {
			return r, nil
		}
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd

	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *ResultsScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if r.cursor > 0 {
			r.cursor--
		}
	case key.Matches(msg, keys.Down):
		if r.cursor < len(r.report.Missed)-1 {
			r.cursor++
		}
	case key.Matches(msg, keys.Explain):
		return r, r.explain()
	case key.Matches(msg, keys.Retake):
		st, err := r.engine.Restart()
		if err != nil {
			slog.Error("restart quiz", "err", err)
			return r, nil
		}
		return r, router.Replace(resume(r.deps, r.engine, st))
	case key.Matches(msg, keys.NewQuiz):
		return r, func() tea.Msg { return screen.ChooseTopicsMsg{Replace: true} }
	case key.Matches(msg, keys.Home):
		return r, router.PopToRoot
	}
	return r, nil
}

func (r *ResultsScreen) explain() tea.Cmd {
	if r.deps.Tutor == nil || len(r.report.Missed) == 0 {
		return nil
	}
	m := r.report.Missed[r.cursor]
	id := m.Question.ID
	if r.pending[id] {
		return nil
	}
	if res, ok := r.explanations[id]; ok && res.Err == nil {
		return nil
	}
	delete(r.explanations, id)

	r.deps.Tutor.Request(context.Background(), tutor.Mistake{
		Topic:    r.titles[m.TopicID],
		Question: m.Question,
		Chosen:   m.LastChosen(),
	})
	r.pending[id] = true
	return tea.Batch(r.spinner.Tick, pollAfter(id))
}

func (r *ResultsScreen) poll(id string) tea.Cmd {
	if res, ok := r.deps.Tutor.Consume(id); ok {
		delete(r.pending, id)
		r.explanations[id] = res
		if res.Err != nil {
			slog.Warn("tutor explanation", "question", id, "err", res.Err)
		}
		return nil
	}
	if r.deps.Tutor.Pending(id) {
		return pollAfter(id)
	}
	delete(r.pending, id)
	return nil
}

func pollAfter(id string) tea.Cmd {
	return tea.Tick(explainPollInterval, func(time.Time) tea.Msg {
		return explainPollMsg{questionID: id}
	})
}

func (r *ResultsScreen) saveStatus() string {
	switch r.save {
	case saving:
		return theme.Hint.Render("Saving to history...")
	case saved:
		return theme.Hint.Render("Saved to history.")
	case saveFailed:
		return theme.Incorrect.Render(fmt.Sprintf("Could not save to history: %v", r.saveErr))
	default:
		return ""
	}
}
