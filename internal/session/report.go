package session

import (
	"time"

	"github.com/abhisek/quizmaster/internal/bank"
)

// AnswerRecord is one submitted attempt.
type AnswerRecord struct {
	QuestionID string
	TopicID    string
	Selected   int
	Correct    bool
	TimeSpent  time.Duration
	AnsweredAt time.Time
}

// TopicScore is the mastered/total breakdown for one pool.
type TopicScore struct {
	TopicID string
	Title   string
	Correct int
	Total   int
}

// Percent returns the rounded-down percentage of mastered questions.
func (t TopicScore) Percent() int {
	if t.Total == 0 {
		return 0
	}
	return t.Correct * 100 / t.Total
}

// MissedQuestion is a question answered incorrectly at least once.
type MissedQuestion struct {
	Question bank.Question
	TopicID  string
	Chosen   []int // every wrong option picked, in order
	Mastered bool  // eventually answered correctly
}

// LastChosen returns the most recent wrong option.
func (m MissedQuestion) LastChosen() int {
	if len(m.Chosen) == 0 {
		return -1
	}
	return m.Chosen[len(m.Chosen)-1]
}

// Report is the immutable result of a finished or abandoned session.
type Report struct {
	SessionID          string
	StartedAt          time.Time
	EndedAt            time.Time
	Elapsed            time.Duration
	Records            []AnswerRecord
	QuestionsAttempted int
	TotalQuestions     int
	MasteredCount      int
	Completed          bool // false when ended early
	Topics             []TopicScore
	Missed             []MissedQuestion
}

// IncorrectCount returns the number of wrong attempts.
func (r *Report) IncorrectCount() int {
	n := 0
	for _, rec := range r.Records {
		if !rec.Correct {
			n++
		}
	}
	return n
}

// Accuracy returns correct attempts over all attempts (0 when none).
func (r *Report) Accuracy() float64 {
	if len(r.Records) == 0 {
		return 0
	}
	return float64(len(r.Records)-r.IncorrectCount()) / float64(len(r.Records))
}

// Percent returns mastered questions as a percentage of the session total.
func (r *Report) Percent() int {
	if r.TotalQuestions == 0 {
		return 0
	}
	return r.MasteredCount * 100 / r.TotalQuestions
}

// RecordsFor returns every attempt at the given question, oldest first.
func (r *Report) RecordsFor(questionID string) []AnswerRecord {
	var out []AnswerRecord
	for _, rec := range r.Records {
		if rec.QuestionID == questionID {
			out = append(out, rec)
		}
	}
	return out
}

// buildReport derives a report from the engine's current records and
// mastered set. It copies everything so later engine mutation cannot leak in.
func buildReport(e *Engine, completed bool) *Report {
	now := e.clock()

	records := make([]AnswerRecord, len(e.records))
	copy(records, e.records)

	attempted := make(map[string]bool)
	missedIdx := make(map[string]int)
	var missed []MissedQuestion
	for _, rec := range records {
		attempted[rec.QuestionID] = true
		if rec.Correct {
			continue
		}
		i, ok := missedIdx[rec.QuestionID]
		if !ok {
			i = len(missed)
			missedIdx[rec.QuestionID] = i
			missed = append(missed, MissedQuestion{
				Question: e.questions[rec.QuestionID].question,
				TopicID:  rec.TopicID,
			})
		}
		missed[i].Chosen = append(missed[i].Chosen, rec.Selected)
	}
	for i := range missed {
		missed[i].Mastered = e.mastered[missed[i].Question.ID]
	}

	topics := make([]TopicScore, 0, len(e.pools))
	for _, p := range e.pools {
		ts := TopicScore{TopicID: p.ID, Title: p.Title, Total: len(p.Questions)}
		for _, q := range p.Questions {
			if e.mastered[q.ID] {
				ts.Correct++
			}
		}
		topics = append(topics, ts)
	}

	return &Report{
		SessionID:          e.sessionID,
		StartedAt:          e.startedAt,
		EndedAt:            now,
		Elapsed:            now.Sub(e.startedAt),
		Records:            records,
		QuestionsAttempted: len(attempted),
		TotalQuestions:     e.total,
		MasteredCount:      len(e.mastered),
		Completed:          completed,
		Topics:             topics,
		Missed:             missed,
	}
}
