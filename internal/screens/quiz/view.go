package quiz

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/ui/components"
	"github.com/abhisek/quizmaster/internal/ui/theme"
)

func (q *QuizScreen) View(width, height int) string {
	if q.errMsg != "" {
		return renderError(width, q.errMsg)
	}
	if q.confirming {
		return renderConfirm(width, height, q.state.MasteredCount, q.state.TotalQuestions)
	}

	cw := components.ContentWidth(width)
	var b strings.Builder

	topic := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(q.topics[q.state.TopicID])
	info := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d  ·  %d left  ·  %s",
			q.state.Presented+1, q.state.Pending, formatElapsed(q.engine.Elapsed())))
	gap := max(cw-lipgloss.Width(topic)-lipgloss.Width(info), 1)
	b.WriteString(topic + strings.Repeat(" ", gap) + info + "\n")

	bar := components.NewProgressBar("Mastered", q.state.Progress, cw)
	b.WriteString(bar.View() + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	b.WriteString("\n\n")

	b.WriteString(q.choice.View(cw))

	if q.outcome != nil {
		b.WriteString("\n")
		b.WriteString(q.renderFeedback(cw))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(b.String()))
}

func (q *QuizScreen) renderFeedback(cw int) string {
	out := q.outcome
	var b strings.Builder
	if out.Correct {
		b.WriteString(theme.Correct.Render("✓ Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("✗ Not quite."))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(
			fmt.Sprintf("  The answer is %s) %s. It will come back later.",
				components.OptionLabel(out.CorrectOption), q.state.Current.Options[out.CorrectOption])))
	}
	if out.Explanation != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw - 4).Render(out.Explanation))
	}
	return components.Card(b.String(), cw)
}

func renderConfirm(width, height, mastered, total int) string {
	body := theme.Warning.Render("End the quiz early?") + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Render(
			fmt.Sprintf("You have mastered %d of %d questions.\nYour results so far will be saved.", mastered, total)) +
		"\n\n" + theme.Hint.Render("Y to end  ·  N to keep going")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.Card(lipgloss.NewStyle().Align(lipgloss.Center).Render(body), 46))
}

func renderError(width int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\nError: %s\n\nPress any key to go back.", msg))
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
