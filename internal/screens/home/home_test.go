package home

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmaster/internal/screen"
	"github.com/abhisek/quizmaster/internal/store"
)

type fakeSessions struct {
	store.SessionRepo
	rows []store.SessionSummary
}

func (f fakeSessions) RecentSessions(context.Context, store.QueryOpts) ([]store.SessionSummary, error) {
	return f.rows, nil
}

func TestMenuNavigation(t *testing.T) {
	h := New(screen.Deps{})
	assert.Nil(t, h.Init())

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, screen.ChooseTopicsMsg{}, cmd())

	// History is disabled without a store, so down skips to EXIT.
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 2, h.menu.Selected)
}

func TestHistoryItem(t *testing.T) {
	h := New(screen.Deps{Sessions: fakeSessions{}})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, screen.ShowHistoryMsg{}, cmd())
}

func TestStats(t *testing.T) {
	repo := fakeSessions{rows: []store.SessionSummary{
		{TotalQuestions: 10, MasteredCount: 4},
		{TotalQuestions: 5, MasteredCount: 5},
	}}
	h := New(screen.Deps{Sessions: repo})
	cmd := h.Init()
	require.NotNil(t, cmd)
	h.Update(cmd())

	assert.Equal(t, stats{played: 2, best: 100, last: 40, hasLast: true}, h.stats)
	view := h.View(100, 40)
	assert.Contains(t, view, "2 QUIZZES")
	assert.Contains(t, view, "BEST 100%")
}
