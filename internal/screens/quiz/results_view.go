package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/session"
	"github.com/abhisek/quizmaster/internal/ui/components"
	"github.com/abhisek/quizmaster/internal/ui/theme"
)

func (r *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	rep := r.report
	compact := height < 30

	var sections []string

	heading := "Quiz Complete!"
	if !rep.Completed {
		heading = "Quiz Ended Early"
	}
	sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(theme.Title.Render(heading)))

	if !compact {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render(components.Mascot(components.MoodFor(rep.Percent()))))
	}

	sections = append(sections, r.renderScore(cw))
	sections = append(sections, r.renderTopics(cw))
	if len(rep.Missed) > 0 {
		sections = append(sections, r.renderMissed(cw))
	} else if len(rep.Records) > 0 {
		sections = append(sections, theme.Correct.Render("No mistakes. Flawless!"))
	}
	if s := r.saveStatus(); s != "" {
		sections = append(sections, s)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, interleave(sections, "")...))
}

func (r *ResultsScreen) renderScore(cw int) string {
	rep := r.report
	pct := rep.Percent()
	score := theme.ScoreColor(pct).Render(fmt.Sprintf("%d%%", pct))
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	line1 := fmt.Sprintf("Mastered %d of %d questions  %s", rep.MasteredCount, rep.TotalQuestions, score)
	line2 := dim.Render(fmt.Sprintf("Time %s  ·  %d answers  ·  %d wrong  ·  %d of %d attempted",
		formatElapsed(rep.Elapsed), len(rep.Records), rep.IncorrectCount(),
		rep.QuestionsAttempted, rep.TotalQuestions))
	return components.Card(line1+"\n"+line2, cw)
}

func (r *ResultsScreen) renderTopics(cw int) string {
	labelWidth := 0
	for _, t := range r.report.Topics {
		labelWidth = max(labelWidth, lipgloss.Width(t.Title))
	}
	labelWidth = min(labelWidth, cw/2)

	var b strings.Builder
	b.WriteString(theme.Selected.Render("By topic") + "\n")
	for _, t := range r.report.Topics {
		bar := components.NewProgressBar(t.Title, float64(t.Correct)/float64(max(t.Total, 1)), cw-8)
		bar.LabelWidth = labelWidth
		b.WriteString(bar.View())
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf(" %d/%d", t.Correct, t.Total)))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *ResultsScreen) renderMissed(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Selected.Render("Review missed questions") + "\n")

	for i, m := range r.report.Missed {
		cursor := "  "
		style := theme.Unselected
		if i == r.cursor {
			cursor = "▸ "
			style = theme.Selected
		}
		status := theme.Correct.Render("mastered")
		if !m.Mastered {
			status = theme.Incorrect.Render("not yet")
		}
		b.WriteString(style.Width(cw - 12).Render(cursor + m.Question.Prompt))
		b.WriteString(" " + status + "\n")

		if i == r.cursor {
			b.WriteString(r.renderMissedDetail(m, cw))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *ResultsScreen) renderMissedDetail(m session.MissedQuestion, cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw - 6)
	indent := lipgloss.NewStyle().PaddingLeft(4)

	var lines []string
	for _, c := range uniqueInts(m.Chosen) {
		lines = append(lines, theme.Incorrect.Render(fmt.Sprintf("✗ You chose %s) %s",
			components.OptionLabel(c), m.Question.Options[c])))
	}
	lines = append(lines, theme.Correct.Render(fmt.Sprintf("✓ Answer: %s) %s",
		components.OptionLabel(m.Question.CorrectAnswer), m.Question.CorrectOption())))
	if m.Question.Explanation != "" {
		lines = append(lines, dim.Render(m.Question.Explanation))
	}

	id := m.Question.ID
	switch res, done := r.explanations[id]; {
	case r.pending[id]:
		lines = append(lines, r.spinner.View()+" Asking the tutor...")
	case done && res.Err != nil:
		lines = append(lines, theme.Incorrect.Render("Tutor unavailable: "+res.Err.Error()))
	case done:
		exp := res.Explanation
		lines = append(lines,
			theme.Warning.Render("Tutor"),
			dim.Render(exp.Why),
			dim.Render(exp.Concept),
			theme.Hint.Render("Tip: "+exp.Tip))
	}
	return indent.Render(strings.Join(lines, "\n")) + "\n"
}

func uniqueInts(in []int) []int {
	seen := make(map[int]bool, len(in))
	var out []int
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func interleave(items []string, sep string) []string {
	out := make([]string, 0, 2*len(items))
	for i, it := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, it)
	}
	return out
}
