// Package app is the root Bubble Tea model for the quiz TUI.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/bank"
	"github.com/abhisek/quizmaster/internal/router"
	"github.com/abhisek/quizmaster/internal/screen"
	"github.com/abhisek/quizmaster/internal/screens/history"
	"github.com/abhisek/quizmaster/internal/screens/home"
	"github.com/abhisek/quizmaster/internal/screens/quiz"
	"github.com/abhisek/quizmaster/internal/screens/topics"
	"github.com/abhisek/quizmaster/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps    screen.Deps
	router  *router.Router
	initCmd tea.Cmd
	width   int
	height  int
}

// newAppModel creates an AppModel rooted at the home screen.
func newAppModel(deps screen.Deps) AppModel {
	root := home.New(deps)
	return AppModel{
		deps:    deps,
		router:  router.New(root),
		initCmd: root.Init(),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.initCmd
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}

	case screen.ChooseTopicsMsg:
		s := topics.New(m.deps)
		if msg.Replace {
			return m, m.router.Replace(s)
		}
		return m, m.router.Push(s)

	case screen.StartQuizMsg:
		return m, m.router.Replace(quiz.New(m.deps, msg.Pools))

	case screen.ShowHistoryMsg:
		if m.deps.Sessions == nil {
			return m, nil
		}
		return m, m.router.Push(history.New(m.deps))
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), status(active), m.width)
	footer := layout.RenderFooter(m.hints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func status(s screen.Screen) string {
	if p, ok := s.(screen.StatusProvider); ok {
		return p.Status()
	}
	return ""
}

func (m AppModel) hints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, deps screen.Deps) error {
	p := tea.NewProgram(newAppModel(deps), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// RunQuiz starts directly on a quiz over pools. Leaving the results
// screen lands on home.
func RunQuiz(ctx context.Context, deps screen.Deps, pools []bank.TopicPool) error {
	m := newAppModel(deps)
	m.initCmd = tea.Batch(m.initCmd, m.router.Push(quiz.New(deps, pools)))
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run quiz: %w", err)
	}
	return nil
}
