package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/ui/theme"
)

// MultiChoice renders a question with lettered options. The cursor moves
// with arrows; digits 1-9 jump to an option. Enter is left to the caller.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int

	// Set by Reveal.
	revealed bool
	correct  int
	chosen   int
}

func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{Question: question, Options: options, chosen: -1}
}

// OptionLabel returns "A", "B", ... for index i.
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

// Update moves the cursor. It ignores input after Reveal.
func (m MultiChoice) Update(msg tea.Msg) MultiChoice {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || m.revealed {
		return m
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Cursor = i
			}
		}
	}
	return m
}

// Reveal marks the chosen and correct options for feedback.
func (m MultiChoice) Reveal(chosen, correct int) MultiChoice {
	m.revealed = true
	m.chosen = chosen
	m.correct = correct
	return m
}

func (m MultiChoice) Revealed() bool { return m.revealed }

// View renders the prompt wrapped to width and one line per option.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, OptionLabel(i), opt)

		var style lipgloss.Style
		switch {
		case m.revealed && i == m.correct:
			style = theme.Correct
			line += "  ✓"
		case m.revealed && i == m.chosen:
			style = theme.Incorrect
			line += "  ✗"
		case m.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteByte('\n')
	}
	return b.String()
}
