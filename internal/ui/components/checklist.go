package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizmaster/internal/ui/theme"
)

// CheckItem is one toggleable row.
type CheckItem struct {
	ID      string
	Label   string
	Detail  string
	Checked bool
}

// Checklist is a vertical list of toggleable items. Space toggles the
// row under the cursor and "a" toggles all.
type Checklist struct {
	Items  []CheckItem
	Cursor int
}

func NewChecklist(items []CheckItem) Checklist {
	return Checklist{Items: items}
}

func (c Checklist) Update(msg tea.Msg) Checklist {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(c.Items) == 0 {
		return c
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Items)-1 {
			c.Cursor++
		}
	case "space", " ", "x":
		c.Items = c.cloneItems()
		c.Items[c.Cursor].Checked = !c.Items[c.Cursor].Checked
	case "a":
		all := len(c.Checked()) == len(c.Items)
		c.Items = c.cloneItems()
		for i := range c.Items {
			c.Items[i].Checked = !all
		}
	}
	return c
}

func (c Checklist) cloneItems() []CheckItem {
	out := make([]CheckItem, len(c.Items))
	copy(out, c.Items)
	return out
}

// Checked returns the ids of checked items in list order.
func (c Checklist) Checked() []string {
	var ids []string
	for _, it := range c.Items {
		if it.Checked {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func (c Checklist) View(width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var b strings.Builder
	for i, it := range c.Items {
		box := "[ ]"
		if it.Checked {
			box = "[✓]"
		}
		cursor := "  "
		style := theme.Unselected
		if i == c.Cursor {
			cursor = "▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(cursor + box + " " + it.Label))
		b.WriteByte('\n')
		if it.Detail != "" {
			b.WriteString(dim.Width(width).Render("      " + it.Detail))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
