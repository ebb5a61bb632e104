package session

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizmaster/internal/bank"
)

// State is the view of a running session handed to the presentation layer
// after every transition.
type State struct {
	SessionID      string
	Phase          Phase
	Current        bank.Question
	TopicID        string
	Presented      int // questions presented so far, including repeats
	Pending        int // questions still in the working queue
	MasteredCount  int
	TotalQuestions int
	Progress       float64 // MasteredCount / TotalQuestions
}

// Outcome is the feedback for a submitted answer.
type Outcome struct {
	QuestionID    string
	Selected      int
	Correct       bool
	CorrectOption int
	Explanation   string
	TimeSpent     time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.clock = now }
}

// WithRand sets the source used to shuffle the working queue.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSeed makes the shuffle reproducible. A zero seed keeps the default
// random source.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		}
	}
}

// Engine drives one quiz session: it owns the working queue, the answer
// log and the mastered set. It is not safe for concurrent use.
type Engine struct {
	clock func() time.Time
	rng   *rand.Rand

	phase     Phase
	sessionID string
	pools     []bank.TopicPool
	questions map[string]entry

	queue       []entry
	mastered    map[string]bool
	records     []AnswerRecord
	total       int
	presented   int
	startedAt   time.Time
	presentedAt time.Time

	lastCorrect bool
	report      *Report
}

// New creates an engine in PhaseUninitialized.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock: time.Now,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Initialize starts a session over the given pools. It may be called on a
// fresh engine or after the previous session completed. On error the engine
// is left untouched.
func (e *Engine) Initialize(pools []bank.TopicPool) (State, error) {
	if e.phase != PhaseUninitialized && e.phase != PhaseComplete {
		return State{}, fmt.Errorf("%w: initialize while %s", ErrInvalidState, e.phase)
	}
	if len(pools) == 0 {
		return State{}, fmt.Errorf("%w: no topics selected", ErrInvalidConfiguration)
	}
	for _, p := range pools {
		if err := p.Validate(); err != nil {
			return State{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
	}

	queue := flatten(pools)
	if len(queue) == 0 {
		return State{}, fmt.Errorf("%w: selected topics contain no questions", ErrInvalidConfiguration)
	}

	index := make(map[string]entry, len(queue))
	for _, en := range queue {
		if prev, dup := index[en.question.ID]; dup {
			return State{}, fmt.Errorf("%w: question %q appears in %q and %q",
				ErrInvalidConfiguration, en.question.ID, prev.topicID, en.topicID)
		}
		index[en.question.ID] = en
	}

	shuffle(e.rng, queue)

	now := e.clock()
	e.pools = append([]bank.TopicPool(nil), pools...)
	e.questions = index
	e.queue = queue
	e.mastered = make(map[string]bool, len(queue))
	e.records = nil
	e.total = len(queue)
	e.presented = 1
	e.startedAt = now
	e.presentedAt = now
	e.sessionID = uuid.New().String()
	e.report = nil
	e.phase = PhaseAwaitingAnswer

	return e.State(), nil
}

// Restart begins a new session over the same pools with a fresh shuffle.
func (e *Engine) Restart() (State, error) {
	if e.phase != PhaseComplete {
		return State{}, fmt.Errorf("%w: restart while %s", ErrInvalidState, e.phase)
	}
	return e.Initialize(e.pools)
}

// SubmitAnswer scores option against the question at the head of the queue.
func (e *Engine) SubmitAnswer(questionID string, option int) (Outcome, error) {
	if e.phase != PhaseAwaitingAnswer {
		return Outcome{}, fmt.Errorf("%w: submit while %s", ErrInvalidState, e.phase)
	}
	head := e.queue[0].question
	if questionID != head.ID {
		return Outcome{}, fmt.Errorf("%w: answered %q but %q is presented", ErrInvalidState, questionID, head.ID)
	}
	if option < 0 || option >= len(head.Options) {
		return Outcome{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRangeAnswer, option, len(head.Options))
	}

	now := e.clock()
	correct := head.IsCorrect(option)
	spent := now.Sub(e.presentedAt)

	e.records = append(e.records, AnswerRecord{
		QuestionID: head.ID,
		TopicID:    e.queue[0].topicID,
		Selected:   option,
		Correct:    correct,
		TimeSpent:  spent,
		AnsweredAt: now,
	})
	if correct {
		e.mastered[head.ID] = true
	}
	e.lastCorrect = correct
	e.phase = PhaseShowingFeedback

	return Outcome{
		QuestionID:    head.ID,
		Selected:      option,
		Correct:       correct,
		CorrectOption: head.CorrectAnswer,
		Explanation:   head.Explanation,
		TimeSpent:     spent,
	}, nil
}

// Advance applies the queue transition for the question just answered.
// A correct answer drops it; a wrong one sends it to the tail. The returned
// report is non-nil exactly when the queue emptied and the session ended.
func (e *Engine) Advance() (State, *Report, error) {
	if e.phase != PhaseShowingFeedback {
		return State{}, nil, fmt.Errorf("%w: advance while %s", ErrInvalidState, e.phase)
	}

	if e.lastCorrect {
		e.queue = e.queue[1:]
	} else {
		e.queue = requeue(e.queue)
	}

	if len(e.queue) == 0 {
		e.finish(true)
		return e.State(), e.report, nil
	}

	e.presented++
	e.presentedAt = e.clock()
	e.phase = PhaseAwaitingAnswer
	return e.State(), nil, nil
}

// EndEarly stops the session and reports on whatever was answered.
func (e *Engine) EndEarly() (*Report, error) {
	if e.phase == PhaseUninitialized || e.phase == PhaseComplete {
		return nil, fmt.Errorf("%w: end early while %s", ErrInvalidState, e.phase)
	}
	e.finish(false)
	return e.report, nil
}

func (e *Engine) finish(completed bool) {
	e.report = buildReport(e, completed)
	e.phase = PhaseComplete
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase { return e.phase }

// SessionID returns the id of the current or last session.
func (e *Engine) SessionID() string { return e.sessionID }

// Report returns the terminal report, or nil before completion.
func (e *Engine) Report() *Report { return e.report }

// Pools returns the pools of the current or last session.
func (e *Engine) Pools() []bank.TopicPool {
	return append([]bank.TopicPool(nil), e.pools...)
}

// Pending returns the working queue, head first.
func (e *Engine) Pending() []bank.Question {
	out := make([]bank.Question, len(e.queue))
	for i, en := range e.queue {
		out[i] = en.question
	}
	return out
}

// IsMastered reports whether questionID has been answered correctly.
func (e *Engine) IsMastered(questionID string) bool {
	return e.mastered[questionID]
}

// Records returns a copy of the answer log so far.
func (e *Engine) Records() []AnswerRecord {
	return append([]AnswerRecord(nil), e.records...)
}

// Elapsed returns time since the session started, frozen once complete.
func (e *Engine) Elapsed() time.Duration {
	switch {
	case e.phase == PhaseUninitialized:
		return 0
	case e.report != nil:
		return e.report.Elapsed
	default:
		return e.clock().Sub(e.startedAt)
	}
}

// State returns the presentation view of the engine.
func (e *Engine) State() State {
	s := State{
		SessionID:      e.sessionID,
		Phase:          e.phase,
		Presented:      e.presented,
		Pending:        len(e.queue),
		MasteredCount:  len(e.mastered),
		TotalQuestions: e.total,
	}
	if e.total > 0 {
		s.Progress = float64(s.MasteredCount) / float64(e.total)
	}
	if len(e.queue) > 0 && e.phase != PhaseComplete {
		s.Current = e.queue[0].question
		s.TopicID = e.queue[0].topicID
	}
	return s
}
