package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizmaster/internal/session"
)

type sessionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var sessionColumns = []string{
	"id", "sequence", "started_at", "ended_at", "elapsed_ms",
	"total_questions", "questions_attempted", "mastered_count", "incorrect_count", "completed",
}

func (r *sessionRepo) SaveReport(ctx context.Context, rep *session.Report) error {
	if rep == nil || rep.SessionID == "" {
		return fmt.Errorf("save report: missing session id")
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	b := builder()

	// Saving the same report twice replaces the earlier rows.
	del, args := b.Delete("sessions").Where(entsql.EQ("id", rep.SessionID)).Query()
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	ins, args := b.Insert("sessions").
		Columns(sessionColumns...).
		Values(
			rep.SessionID, seqNum, millis(rep.StartedAt), millis(rep.EndedAt), rep.Elapsed.Milliseconds(),
			rep.TotalQuestions, rep.QuestionsAttempted, rep.MasteredCount, rep.IncorrectCount(), boolInt(rep.Completed),
		).
		Query()
	if _, err := tx.ExecContext(ctx, ins, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	if len(rep.Topics) > 0 {
		tb := b.Insert("topic_scores").Columns("session_id", "position", "topic_id", "title", "correct", "total")
		for i, t := range rep.Topics {
			tb.Values(rep.SessionID, i, t.TopicID, t.Title, t.Correct, t.Total)
		}
		q, args := tb.Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert topic scores: %w", err)
		}
	}

	if len(rep.Records) > 0 {
		ab := b.Insert("answer_records").Columns(
			"session_id", "position", "question_id", "topic_id", "selected", "correct", "time_spent_ms", "answered_at",
		)
		for i, a := range rep.Records {
			ab.Values(rep.SessionID, i, a.QuestionID, a.TopicID, a.Selected, boolInt(a.Correct),
				a.TimeSpent.Milliseconds(), millis(a.AnsweredAt))
		}
		q, args := ab.Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert answer records: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *sessionRepo) RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionSummary, error) {
	b := builder()
	sel := b.Select(sessionColumns...).From(b.Table("sessions"))

	var preds []*entsql.Predicate
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("started_at", millis(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("started_at", millis(opts.To)))
	}
	if opts.CompletedOnly {
		preds = append(preds, entsql.EQ("completed", 1))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}

	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			sel.Limit(-1)
		}
		sel.Offset(opts.Offset)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sessionRepo) Session(ctx context.Context, id string) (*SessionDetail, error) {
	b := builder()

	query, args := b.Select(sessionColumns...).
		From(b.Table("sessions")).
		Where(entsql.EQ("id", id)).
		Query()
	sum, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	detail := &SessionDetail{SessionSummary: sum}

	query, args = b.Select("topic_id", "title", "correct", "total").
		From(b.Table("topic_scores")).
		Where(entsql.EQ("session_id", id)).
		OrderBy("position").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topic scores: %w", err)
	}
	for rows.Next() {
		var t session.TopicScore
		if err := rows.Scan(&t.TopicID, &t.Title, &t.Correct, &t.Total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan topic score: %w", err)
		}
		detail.Topics = append(detail.Topics, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query, args = b.Select("question_id", "topic_id", "selected", "correct", "time_spent_ms", "answered_at").
		From(b.Table("answer_records")).
		Where(entsql.EQ("session_id", id)).
		OrderBy("position").
		Query()
	rows, err = r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			a                 session.AnswerRecord
			correct           int
			spentMs, answered int64
		)
		if err := rows.Scan(&a.QuestionID, &a.TopicID, &a.Selected, &correct, &spentMs, &answered); err != nil {
			return nil, fmt.Errorf("scan answer record: %w", err)
		}
		a.Correct = correct == 1
		a.TimeSpent = time.Duration(spentMs) * time.Millisecond
		a.AnsweredAt = fromMillis(answered)
		detail.Answers = append(detail.Answers, a)
	}
	return detail, rows.Err()
}

func (r *sessionRepo) TopicTotals(ctx context.Context) ([]TopicTotal, error) {
	b := builder()
	query, args := b.Select(
		"topic_id",
		entsql.As("MAX(title)", "title"),
		entsql.As(entsql.Count("*"), "sessions"),
		entsql.As(entsql.Sum("correct"), "correct"),
		entsql.As(entsql.Sum("total"), "total"),
	).
		From(b.Table("topic_scores")).
		GroupBy("topic_id").
		OrderBy("topic_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query topic totals: %w", err)
	}
	defer rows.Close()

	var out []TopicTotal
	for rows.Next() {
		var t TopicTotal
		if err := rows.Scan(&t.TopicID, &t.Title, &t.Sessions, &t.Correct, &t.Total); err != nil {
			return nil, fmt.Errorf("scan topic total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	query, args := builder().Delete("sessions").Where(entsql.EQ("id", id)).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	return nil
}

func (r *sessionRepo) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	b := builder()
	keepSel := b.Select("id").From(b.Table("sessions")).OrderBy(entsql.Desc("sequence")).Limit(keep)
	query, args := b.Delete("sessions").Where(entsql.NotIn("id", keepSel)).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune sessions: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (SessionSummary, error) {
	var (
		s                         SessionSummary
		started, ended, elapsedMs int64
		completed                 int
	)
	err := row.Scan(&s.ID, &s.Sequence, &started, &ended, &elapsedMs,
		&s.TotalQuestions, &s.QuestionsAttempted, &s.MasteredCount, &s.IncorrectCount, &completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("scan session: %w", err)
	}
	s.StartedAt = fromMillis(started)
	s.EndedAt = fromMillis(ended)
	s.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	s.Completed = completed == 1
	return s, nil
}
