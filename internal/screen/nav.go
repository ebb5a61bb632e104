package screen

import "github.com/abhisek/quizmaster/internal/bank"

// Navigation requests handled by the app, which owns screen construction.

// ChooseTopicsMsg opens topic selection. Replace swaps out the active
// screen instead of pushing.
type ChooseTopicsMsg struct {
	Replace bool
}

// StartQuizMsg starts a quiz over Pools in place of the active screen.
type StartQuizMsg struct {
	Pools []bank.TopicPool
}

// ShowHistoryMsg opens the history screen.
type ShowHistoryMsg struct{}
