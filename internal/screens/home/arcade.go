package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/ui/components"
	"github.com/abhisek/quizmaster/internal/ui/theme"
)

const titleFull = ` ___ ___ ___  _    ___   _____   __
| _ )_ _/ _ \| |  / _ \ / __\ \ / /
| _ \| | (_) | |_| (_) | (_ |\ V /
|___/___\___/|____\___/ \___| |_|
       Q U I Z   M A S T E R`

const titleCompact = "B I O L O G Y  ·  Q U I Z"

func center(cw int, s string) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(s)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if compact {
		return center(cw, style.Render(titleCompact))
	}
	return center(cw, style.Render(titleFull))
}

func renderMascot(mood components.Mood, cw int) string {
	return center(cw, components.Mascot(mood))
}

func renderStatsBar(s stats, cw int, compact bool) string {
	played := lipgloss.NewStyle().Foreground(theme.Info).Bold(true)
	best := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var text string
	switch {
	case s.played == 0:
		text = dim.Render("No quizzes yet. Pick a topic to begin!")
	case compact:
		text = fmt.Sprintf("%s %s %s",
			played.Render(fmt.Sprintf("#%d", s.played)),
			best.Render(fmt.Sprintf("★%d%%", s.best)),
			theme.ScoreColor(s.last).Render(fmt.Sprintf("↺%d%%", s.last)))
	default:
		text = fmt.Sprintf("%s  %s  %s",
			played.Render(fmt.Sprintf("%d QUIZZES", s.played)),
			best.Render(fmt.Sprintf("★ BEST %d%%", s.best)),
			theme.ScoreColor(s.last).Render(fmt.Sprintf("LAST %d%%", s.last)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(text)
}

func renderMenu(m components.Menu, cw int, compact bool) string {
	if compact {
		return center(cw, m.View())
	}
	buttons := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		if item.Disabled {
			buttons = append(buttons, lipgloss.NewStyle().Foreground(theme.TextDim).
				Width(components.ButtonWidth).Align(lipgloss.Center).Render(item.Label))
			continue
		}
		buttons = append(buttons, components.Button(item.Label, i == m.Selected))
	}
	return center(cw, strings.Join(buttons, "\n"))
}
