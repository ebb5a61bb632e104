// Package history lists past quiz sessions.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/screen"
	"github.com/abhisek/quizmaster/internal/store"
	"github.com/abhisek/quizmaster/internal/ui/components"
	"github.com/abhisek/quizmaster/internal/ui/layout"
	"github.com/abhisek/quizmaster/internal/ui/theme"
)

const defaultLimit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionSummary
	Totals   []store.TopicTotal
	Err      error
}

type detailLoadedMsg struct {
	ID     string
	Detail *store.SessionDetail
	Err    error
}

type deletedMsg struct {
	ID  string
	Err error
}

// HistoryScreen displays past sessions with per-topic breakdowns.
type HistoryScreen struct {
	repo     store.SessionRepo
	limit    int
	sessions []store.SessionSummary
	totals   []store.TopicTotal
	details  map[string]*store.SessionDetail
	selected int
	expanded map[string]bool
	loaded   bool
	errMsg   string
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
	_ screen.StatusProvider  = (*HistoryScreen)(nil)
)

func New(deps screen.Deps) *HistoryScreen {
	limit := deps.HistoryLimit
	if limit <= 0 {
		limit = defaultLimit
	}
	return &HistoryScreen{
		repo:     deps.Sessions,
		limit:    limit,
		details:  make(map[string]*store.SessionDetail),
		expanded: make(map[string]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, limit := s.repo, s.limit
	return func() tea.Msg {
		ctx := context.Background()
		sessions, err := repo.RecentSessions(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		totals, err := repo.TopicTotals(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Sessions: sessions, Totals: totals}
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) Status() string {
	return fmt.Sprintf("%d sessions", len(s.sessions))
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "D", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.sessions, s.totals = msg.Sessions, msg.Totals
		s.selected = min(s.selected, max(len(s.sessions)-1, 0))
		return s, nil

	case detailLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.details[msg.ID] = msg.Detail
		return s, nil

	case deletedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		delete(s.details, msg.ID)
		delete(s.expanded, msg.ID)
		return s, s.Init()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			return s, s.toggle()
		case "d":
			return s, s.deleteSelected()
		}
	}
	return s, nil
}

func (s *HistoryScreen) current() (store.SessionSummary, bool) {
	if s.selected < 0 || s.selected >= len(s.sessions) {
		return store.SessionSummary{}, false
	}
	return s.sessions[s.selected], true
}

func (s *HistoryScreen) toggle() tea.Cmd {
	sess, ok := s.current()
	if !ok {
		return nil
	}
	s.expanded[sess.ID] = !s.expanded[sess.ID]
	if !s.expanded[sess.ID] || s.details[sess.ID] != nil {
		return nil
	}
	repo, id := s.repo, sess.ID
	return func() tea.Msg {
		d, err := repo.Session(context.Background(), id)
		return detailLoadedMsg{ID: id, Detail: d, Err: err}
	}
}

func (s *HistoryScreen) deleteSelected() tea.Cmd {
	sess, ok := s.current()
	if !ok {
		return nil
	}
	repo, id := s.repo, sess.ID
	return func() tea.Msg {
		return deletedMsg{ID: id, Err: repo.Delete(context.Background(), id)}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Go test yourself!")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		status := ""
		if !sess.Completed {
			status = "  (ended early)"
		}
		line := fmt.Sprintf("%s#%d  %s  %s  %d/%d mastered  %s%s",
			prefix, sess.Sequence,
			sess.StartedAt.Local().Format("Jan 02 15:04"),
			formatDuration(sess.Elapsed.Milliseconds()/1000),
			sess.MasteredCount, sess.TotalQuestions,
			theme.ScoreColor(sess.Percent()).Render(fmt.Sprintf("%d%%", sess.Percent())),
			status)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Width(cw).Render(style.Render(line))))
		b.WriteString("\n")

		if s.expanded[sess.ID] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				s.renderDetail(sess.ID, cw)))
			b.WriteString("\n")
		}
	}

	if len(s.totals) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderTotals(s.totals, cw)))
	}
	return b.String()
}

func (s *HistoryScreen) renderDetail(id string, cw int) string {
	d := s.details[id]
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	if d == nil {
		return lipgloss.NewStyle().Width(cw).Render(dim.Render("    Loading..."))
	}
	var lines []string
	for _, t := range d.Topics {
		bar := components.NewProgressBar(t.Title, percent(t.Correct, t.Total), cw-8)
		bar.LabelWidth = 22
		lines = append(lines, "    "+bar.View())
	}
	wrong := 0
	for _, a := range d.Answers {
		if !a.Correct {
			wrong++
		}
	}
	lines = append(lines, dim.Render(fmt.Sprintf("    %d answers, %d incorrect", len(d.Answers), wrong)))
	return lipgloss.NewStyle().Width(cw).Render(strings.Join(lines, "\n"))
}

func renderTotals(totals []store.TopicTotal, cw int) string {
	lines := []string{theme.Subtitle.Render("All-time by topic")}
	for _, t := range totals {
		bar := components.NewProgressBar(t.Title, percent(t.Correct, t.Total), cw-6)
		bar.LabelWidth = 22
		lines = append(lines, bar.View())
	}
	return components.Card(strings.Join(lines, "\n"), cw)
}

func percent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

func formatDuration(secs int64) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
