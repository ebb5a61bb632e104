package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/quizmaster/internal/session"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit         int       // max results (0 = unlimited)
	Offset        int       // rows to skip
	From          time.Time // started_at >= From
	To            time.Time // started_at <= To
	CompletedOnly bool      // skip sessions ended early
}

// SessionSummary is one row of session history.
type SessionSummary struct {
	ID                 string
	Sequence           int64
	StartedAt          time.Time
	EndedAt            time.Time
	Elapsed            time.Duration
	TotalQuestions     int
	QuestionsAttempted int
	MasteredCount      int
	IncorrectCount     int
	Completed          bool
}

// Percent returns mastered questions as a share of the session total.
func (s SessionSummary) Percent() int {
	if s.TotalQuestions == 0 {
		return 0
	}
	return s.MasteredCount * 100 / s.TotalQuestions
}

// SessionDetail is a stored session with its topic breakdown and answers.
type SessionDetail struct {
	SessionSummary
	Topics  []session.TopicScore
	Answers []session.AnswerRecord
}

// Report rebuilds a session.Report from stored rows. Missed questions are
// left empty since question text lives in the bank, not the database.
func (d *SessionDetail) Report() *session.Report {
	attempted := make(map[string]bool)
	for _, a := range d.Answers {
		attempted[a.QuestionID] = true
	}
	return &session.Report{
		SessionID:          d.ID,
		StartedAt:          d.StartedAt,
		EndedAt:            d.EndedAt,
		Elapsed:            d.Elapsed,
		Records:            d.Answers,
		QuestionsAttempted: len(attempted),
		TotalQuestions:     d.TotalQuestions,
		MasteredCount:      d.MasteredCount,
		Completed:          d.Completed,
		Topics:             d.Topics,
	}
}

// TopicTotal aggregates a topic's results across every stored session.
type TopicTotal struct {
	TopicID  string
	Title    string
	Sessions int
	Correct  int
	Total    int
}

// SessionRepo persists finished quiz sessions.
type SessionRepo interface {
	// SaveReport stores a report with its topic scores and answer records.
	SaveReport(ctx context.Context, r *session.Report) error

	// RecentSessions returns sessions newest first.
	RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionSummary, error)

	// Session returns one session in full, or ErrNotFound.
	Session(ctx context.Context, id string) (*SessionDetail, error)

	// TopicTotals aggregates topic scores across all sessions.
	TopicTotals(ctx context.Context) ([]TopicTotal, error)

	// Delete removes a session and its rows.
	Delete(ctx context.Context, id string) error

	// Prune deletes all but the N most recent sessions.
	Prune(ctx context.Context, keep int) error
}

// PreferenceRepo remembers small bits of UI state between runs.
type PreferenceRepo interface {
	// SaveSelection stores the last chosen topic ids.
	SaveSelection(ctx context.Context, topicIDs []string) error

	// LastSelection returns the stored topic ids, or nil if none.
	LastSelection(ctx context.Context) ([]string, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose.
type LLMUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo records LLM requests made by the tutor.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates calls and tokens per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func millis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
