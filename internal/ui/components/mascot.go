package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/ui/theme"
)

// Mood selects the mascot art.
type Mood int

const (
	MoodIdle        Mood = iota
	MoodCelebrating      // perfect or near-perfect score
	MoodEncouraging      // low score, keep going
)

const mascotIdle = `  .-"""-.
 /  o o  \
|    ^    |
 \  '-'  /
  '-----'`

const mascotCelebrating = `\ .-"""-. /
 /  * *  \
|    ^    |
 \ \___/ /
  '-----'`

const mascotEncouraging = `  .-"""-.
 /  o o  \  !
|    ^    |
 \  ---  /
  '-----'`

// Mascot renders the cell mascot for a mood.
func Mascot(mood Mood) string {
	art, fg := mascotIdle, theme.Primary
	switch mood {
	case MoodCelebrating:
		art, fg = mascotCelebrating, theme.Highlight
	case MoodEncouraging:
		art, fg = mascotEncouraging, theme.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}

// MoodFor picks a mood from a score percentage.
func MoodFor(percent int) Mood {
	switch {
	case percent >= 90:
		return MoodCelebrating
	case percent < 50:
		return MoodEncouraging
	default:
		return MoodIdle
	}
}
