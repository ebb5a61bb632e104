// Package export writes session reports as spreadsheets or JSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/quizmaster/internal/bank"
	"github.com/abhisek/quizmaster/internal/session"
)

const (
	sheetSummary = "Summary"
	sheetTopics  = "Topics"
	sheetAnswers = "Answers"
)

// Questions resolves question ids to their text. *bank.Bank satisfies it.
type Questions interface {
	Question(id string) (bank.Question, string, bool)
}

// WriteXLSX writes r as a workbook with Summary, Topics and Answers sheets.
// qs may be nil, in which case answers show ids only.
func WriteXLSX(w io.Writer, r *session.Report, qs Questions) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{sheetTopics, sheetAnswers} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	status := "Completed"
	if !r.Completed {
		status = "Ended early"
	}
	summary := [][]any{
		{"Session", r.SessionID},
		{"Started", r.StartedAt.Format(time.RFC3339)},
		{"Ended", r.EndedAt.Format(time.RFC3339)},
		{"Elapsed (s)", r.Elapsed.Round(time.Second).Seconds()},
		{"Status", status},
		{"Mastered", r.MasteredCount},
		{"Total questions", r.TotalQuestions},
		{"Questions attempted", r.QuestionsAttempted},
		{"Attempts", len(r.Records)},
		{"Incorrect attempts", r.IncorrectCount()},
		{"Score (%)", r.Percent()},
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetSummary, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return err
	}

	topics := [][]any{{"Topic", "Title", "Mastered", "Total", "Percent"}}
	for _, t := range r.Topics {
		topics = append(topics, []any{t.TopicID, t.Title, t.Correct, t.Total, t.Percent()})
	}
	if err := writeRows(f, sheetTopics, topics); err != nil {
		return err
	}

	answers := [][]any{{"#", "Question", "Topic", "Prompt", "Chosen", "Correct answer", "Result", "Time (s)", "Answered at"}}
	for i, rec := range r.Records {
		prompt, chosen, correct := "", fmt.Sprint(rec.Selected+1), ""
		if qs != nil {
			if q, _, ok := qs.Question(rec.QuestionID); ok {
				prompt = q.Prompt
				if rec.Selected < len(q.Options) {
					chosen = q.Options[rec.Selected]
				}
				correct = q.CorrectOption()
			}
		}
		result := "wrong"
		if rec.Correct {
			result = "correct"
		}
		answers = append(answers, []any{
			i + 1, rec.QuestionID, rec.TopicID, prompt, chosen, correct, result,
			rec.TimeSpent.Seconds(), rec.AnsweredAt.Format(time.RFC3339),
		})
	}
	if err := writeRows(f, sheetAnswers, answers); err != nil {
		return err
	}

	for _, sheet := range []string{sheetTopics, sheetAnswers} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetAnswers, "D", "F", 40); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

type reportJSON struct {
	SessionID          string       `json:"session_id"`
	StartedAt          time.Time    `json:"started_at"`
	EndedAt            time.Time    `json:"ended_at"`
	ElapsedMs          int64        `json:"elapsed_ms"`
	Completed          bool         `json:"completed"`
	QuestionsAttempted int          `json:"questions_attempted"`
	TotalQuestions     int          `json:"total_questions"`
	MasteredCount      int          `json:"mastered_count"`
	Topics             []topicJSON  `json:"topics"`
	Answers            []answerJSON `json:"answers"`
	Missed             []missedJSON `json:"missed,omitempty"`
}

type topicJSON struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Mastered int    `json:"mastered"`
	Total    int    `json:"total"`
}

type answerJSON struct {
	QuestionID  string    `json:"question_id"`
	TopicID     string    `json:"topic_id"`
	Selected    int       `json:"selected"`
	Correct     bool      `json:"correct"`
	TimeSpentMs int64     `json:"time_spent_ms"`
	AnsweredAt  time.Time `json:"answered_at"`
}

type missedJSON struct {
	QuestionID string `json:"question_id"`
	Prompt     string `json:"prompt"`
	Chosen     []int  `json:"chosen"`
	Mastered   bool   `json:"mastered"`
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *session.Report) error {
	doc := reportJSON{
		SessionID:          r.SessionID,
		StartedAt:          r.StartedAt.UTC(),
		EndedAt:            r.EndedAt.UTC(),
		ElapsedMs:          r.Elapsed.Milliseconds(),
		Completed:          r.Completed,
		QuestionsAttempted: r.QuestionsAttempted,
		TotalQuestions:     r.TotalQuestions,
		MasteredCount:      r.MasteredCount,
		Topics:             make([]topicJSON, 0, len(r.Topics)),
		Answers:            make([]answerJSON, 0, len(r.Records)),
	}
	for _, t := range r.Topics {
		doc.Topics = append(doc.Topics, topicJSON{ID: t.TopicID, Title: t.Title, Mastered: t.Correct, Total: t.Total})
	}
	for _, rec := range r.Records {
		doc.Answers = append(doc.Answers, answerJSON{
			QuestionID:  rec.QuestionID,
			TopicID:     rec.TopicID,
			Selected:    rec.Selected,
			Correct:     rec.Correct,
			TimeSpentMs: rec.TimeSpent.Milliseconds(),
			AnsweredAt:  rec.AnsweredAt.UTC(),
		})
	}
	for _, m := range r.Missed {
		doc.Missed = append(doc.Missed, missedJSON{
			QuestionID: m.Question.ID,
			Prompt:     m.Question.Prompt,
			Chosen:     m.Chosen,
			Mastered:   m.Mastered,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
