package topics

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmaster/internal/bank"
	"github.com/abhisek/quizmaster/internal/screen"
)

type fakePrefs struct {
	last []string
}

func (f *fakePrefs) SaveSelection(_ context.Context, ids []string) error {
	f.last = append([]string(nil), ids...)
	return nil
}

func (f *fakePrefs) LastSelection(context.Context) ([]string, error) {
	return f.last, nil
}

func press(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	return tea.KeyPressMsg{Code: []rune(s)[0], Text: s}
}

func newScreen(t *testing.T, prefs *fakePrefs) *TopicsScreen {
	t.Helper()
	b, err := bank.Default()
	require.NoError(t, err)
	deps := screen.Deps{Bank: b}
	if prefs != nil {
		deps.Preferences = prefs
	}
	return New(deps)
}

func TestEmptySelectionWarns(t *testing.T) {
	s := newScreen(t, nil)
	assert.Nil(t, s.Init())

	_, cmd := s.Update(press("enter"))
	assert.Nil(t, cmd, "engine is never started without topics")
	assert.Contains(t, s.View(100, 40), "Pick at least one topic")

	s.Update(press("space"))
	assert.Empty(t, s.warning)
}

func TestToggleAndStart(t *testing.T) {
	prefs := &fakePrefs{}
	s := newScreen(t, prefs)

	s.Update(press("down"))
	s.Update(press("space"))
	s.Update(press("down"))
	s.Update(press("down"))
	s.Update(press("space"))
	assert.Equal(t, []string{"cell-biology", "ecology"}, s.list.Checked())
	assert.Equal(t, "6 questions", s.Status())

	_, cmd := s.Update(press("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(screen.StartQuizMsg)
	require.True(t, ok)
	require.Len(t, msg.Pools, 2)
	assert.Equal(t, "cell-biology", msg.Pools[0].ID)
	assert.Equal(t, []string{"cell-biology", "ecology"}, prefs.last)
}

func TestSelectAll(t *testing.T) {
	s := newScreen(t, nil)
	s.Update(press("a"))
	assert.Len(t, s.list.Checked(), 5)
	s.Update(press("a"))
	assert.Empty(t, s.list.Checked())
}

func TestRestoresLastSelection(t *testing.T) {
	s := newScreen(t, &fakePrefs{last: []string{"genetics", "retired-topic"}})
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
	assert.Equal(t, []string{"genetics"}, s.list.Checked())
}
