package quiz

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/quizmaster/internal/ui/layout"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Pick    key.Binding
	Submit  key.Binding
	End     key.Binding
	Confirm key.Binding
	Cancel  key.Binding

	Explain key.Binding
	Retake  key.Binding
	NewQuiz key.Binding
	Home    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Move")),
	Down:    key.NewBinding(key.WithKeys("down", "j")),
	Pick:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "Pick")),
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Submit")),
	End:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "End quiz")),
	Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("Y", "End quiz")),
	Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("N", "Keep going")),

	Explain: key.NewBinding(key.WithKeys("e"), key.WithHelp("E", "Explain")),
	Retake:  key.NewBinding(key.WithKeys("r"), key.WithHelp("R", "Retake")),
	NewQuiz: key.NewBinding(key.WithKeys("n"), key.WithHelp("N", "New quiz")),
	Home:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Home")),
}

// hints converts bindings with help text into footer hints.
func hints(bindings ...key.Binding) []layout.KeyHint {
	out := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if h := b.Help(); h.Key != "" {
			out = append(out, layout.KeyHint{Key: h.Key, Description: h.Desc})
		}
	}
	return out
}
