// Package home is the landing screen.
package home

import (
	"context"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizmaster/internal/screen"
	"github.com/abhisek/quizmaster/internal/store"
	"github.com/abhisek/quizmaster/internal/ui/components"
)

type statsLoadedMsg struct {
	stats stats
}

type stats struct {
	played  int
	best    int
	last    int
	hasLast bool
}

// HomeScreen shows the banner, mascot, history stats and main menu.
type HomeScreen struct {
	deps  screen.Deps
	menu  components.Menu
	stats stats
}

var _ screen.Screen = (*HomeScreen)(nil)

func New(deps screen.Deps) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START QUIZ", Action: func() tea.Cmd {
			return func() tea.Msg { return screen.ChooseTopicsMsg{} }
		}},
		{Label: "HISTORY", Disabled: deps.Sessions == nil, Action: func() tea.Cmd {
			return func() tea.Msg { return screen.ShowHistoryMsg{} }
		}},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &HomeScreen{deps: deps, menu: components.NewMenu(items)}
}

// Init reloads stats; the router calls it again when returning home.
func (h *HomeScreen) Init() tea.Cmd {
	repo := h.deps.Sessions
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		sessions, err := repo.RecentSessions(context.Background(), store.QueryOpts{})
		if err != nil {
			slog.Warn("load home stats", "err", err)
			return nil
		}
		return statsLoadedMsg{stats: summarize(sessions)}
	}
}

func summarize(sessions []store.SessionSummary) stats {
	var s stats
	s.played = len(sessions)
	for i, sess := range sessions {
		if i == 0 {
			s.last, s.hasLast = sess.Percent(), true
		}
		s.best = max(s.best, sess.Percent())
	}
	return s
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		h.stats = msg.stats
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 22 || width < 80
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		mood := components.MoodIdle
		if h.stats.hasLast {
			mood = components.MoodFor(h.stats.last)
		}
		sections = append(sections, renderMascot(mood, cw))
	}
	sections = append(sections,
		renderStatsBar(h.stats, cw, compact),
		renderMenu(h.menu, cw, compact),
	)

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string { return "Home" }
