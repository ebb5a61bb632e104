package screen

import (
	"time"

	"github.com/abhisek/quizmaster/internal/bank"
	"github.com/abhisek/quizmaster/internal/session"
	"github.com/abhisek/quizmaster/internal/store"
	"github.com/abhisek/quizmaster/internal/tutor"
)

// Deps are the collaborators shared by every screen. Repos and Tutor may
// be nil; screens degrade by hiding the features that need them.
type Deps struct {
	Bank        *bank.Bank
	Sessions    store.SessionRepo
	Preferences store.PreferenceRepo
	Tutor       *tutor.Service

	FeedbackDelay time.Duration // 0 waits for a key press
	ShuffleSeed   uint64        // 0 picks a random seed
	HistoryLimit  int           // sessions kept after pruning; 0 keeps all
}

// NewEngine builds a session engine honoring ShuffleSeed.
func (d Deps) NewEngine() *session.Engine {
	return session.New(session.WithSeed(d.ShuffleSeed))
}
