package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/quizmaster/internal/bank"
	"github.com/abhisek/quizmaster/internal/session"
)

func sampleReport(t *testing.T) *session.Report {
	t.Helper()
	b, err := bank.Default()
	require.NoError(t, err)
	pools, err := b.Select([]string{"genetics"})
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := session.New(session.WithSeed(7), session.WithClock(func() time.Time {
		now = now.Add(2 * time.Second)
		return now
	}))
	st, err := e.Initialize(pools)
	require.NoError(t, err)

	// Miss the first question once, then answer everything correctly.
	missed := false
	for {
		q := st.Current
		choice := q.CorrectAnswer
		if !missed {
			choice = (q.CorrectAnswer + 1) % len(q.Options)
			missed = true
		}
		_, err := e.SubmitAnswer(q.ID, choice)
		require.NoError(t, err)
		next, report, err := e.Advance()
		require.NoError(t, err)
		if report != nil {
			return report
		}
		st = next
	}
}

func TestWriteXLSX(t *testing.T) {
	r := sampleReport(t)

	var buf bytes.Buffer
	b, err := bank.Default()
	require.NoError(t, err)
	require.NoError(t, WriteXLSX(&buf, r, b))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetSummary, sheetTopics, sheetAnswers}, f.GetSheetList())

	id, err := f.GetCellValue(sheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, r.SessionID, id)
	status, _ := f.GetCellValue(sheetSummary, "B5")
	assert.Equal(t, "Completed", status)

	topics, err := f.GetRows(sheetTopics)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, []string{"genetics", "Genetics & Heredity", "3", "3", "100"}, topics[1])

	answers, err := f.GetRows(sheetAnswers)
	require.NoError(t, err)
	require.Len(t, answers, len(r.Records)+1)
	assert.Equal(t, "wrong", answers[1][6])
	assert.NotEmpty(t, answers[1][3], "prompt resolved from the bank")
	assert.Equal(t, "correct", answers[len(answers)-1][6])
}

func TestWriteXLSXWithoutBank(t *testing.T) {
	r := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, r, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	prompt, _ := f.GetCellValue(sheetAnswers, "D2")
	assert.Empty(t, prompt)
}

func TestWriteJSON(t *testing.T) {
	r := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, r.SessionID, doc["session_id"])
	assert.Equal(t, true, doc["completed"])
	assert.EqualValues(t, 3, doc["total_questions"])
	assert.EqualValues(t, 3, doc["mastered_count"])
	assert.Len(t, doc["answers"], 4)
	assert.Len(t, doc["missed"], 1)
	assert.Greater(t, doc["elapsed_ms"].(float64), 0.0)
}
