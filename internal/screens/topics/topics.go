// Package topics lets the learner choose which pools to be quizzed on.
package topics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/screen"
	"github.com/abhisek/quizmaster/internal/ui/components"
	"github.com/abhisek/quizmaster/internal/ui/layout"
	"github.com/abhisek/quizmaster/internal/ui/theme"
)

type selectionLoadedMsg struct {
	ids []string
}

// TopicsScreen is a checklist of topic pools.
type TopicsScreen struct {
	deps    screen.Deps
	list    components.Checklist
	warning string
}

var (
	_ screen.Screen          = (*TopicsScreen)(nil)
	_ screen.KeyHintProvider = (*TopicsScreen)(nil)
	_ screen.StatusProvider  = (*TopicsScreen)(nil)
)

func New(deps screen.Deps) *TopicsScreen {
	var items []components.CheckItem
	for _, p := range deps.Bank.Pools() {
		items = append(items, components.CheckItem{
			ID:     p.ID,
			Label:  fmt.Sprintf("%s (%d)", p.Title, len(p.Questions)),
			Detail: p.Description,
		})
	}
	return &TopicsScreen{deps: deps, list: components.NewChecklist(items)}
}

// Init restores the previous selection.
func (t *TopicsScreen) Init() tea.Cmd {
	prefs := t.deps.Preferences
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		ids, err := prefs.LastSelection(context.Background())
		if err != nil {
			slog.Warn("load last selection", "err", err)
		}
		return selectionLoadedMsg{ids: ids}
	}
}

func (t *TopicsScreen) Title() string { return "Choose Topics" }

func (t *TopicsScreen) Status() string {
	n := 0
	for _, id := range t.list.Checked() {
		if p, ok := t.deps.Bank.Pool(id); ok {
			n += len(p.Questions)
		}
	}
	return fmt.Sprintf("%d questions", n)
}

func (t *TopicsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Space", Description: "Toggle"},
		{Key: "A", Description: "All"},
		{Key: "Enter", Description: "Quiz Me!"},
		{Key: "Esc", Description: "Back"},
	}
}

func (t *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case selectionLoadedMsg:
		want := make(map[string]bool, len(msg.ids))
		for _, id := range msg.ids {
			want[id] = true
		}
		items := make([]components.CheckItem, len(t.list.Items))
		copy(items, t.list.Items)
		for i := range items {
			items[i].Checked = want[items[i].ID]
		}
		t.list.Items = items
		return t, nil

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return t, t.start()
		}
		t.list = t.list.Update(msg)
		if len(t.list.Checked()) > 0 {
			t.warning = ""
		}
	}
	return t, nil
}

// start never hands the engine an empty selection.
func (t *TopicsScreen) start() tea.Cmd {
	ids := t.list.Checked()
	if len(ids) == 0 {
		t.warning = "Pick at least one topic first."
		return nil
	}
	pools, err := t.deps.Bank.Select(ids)
	if err != nil {
		t.warning = err.Error()
		return nil
	}

	prefs := t.deps.Preferences
	return func() tea.Msg {
		if prefs != nil {
			if err := prefs.SaveSelection(context.Background(), ids); err != nil {
				slog.Warn("save selection", "err", err)
			}
		}
		return screen.StartQuizMsg{Pools: pools}
	}
}

func (t *TopicsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(theme.Title.Render("What do you want to study?")))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(theme.Hint.Render("Missed questions come back until you get them right.")))
	b.WriteString("\n\n")
	b.WriteString(t.list.View(cw))

	if t.warning != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render("⚠ " + t.warning))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Render(b.String()))
}
