package tutor

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizmaster/internal/bank"
	"github.com/abhisek/quizmaster/internal/llm"
)

func powerhouse() Mistake {
	return Mistake{
		Topic: "Cell Biology",
		Question: bank.Question{
			ID:            "cell-2",
			Prompt:        "Which organelle is known as the powerhouse of the cell?",
			Options:       []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi apparatus"},
			CorrectAnswer: 1,
			Explanation:   "Mitochondria produce ATP through cellular respiration.",
		},
		Chosen: 0,
	}
}

const validJSON = `{"why_wrong":"The nucleus stores DNA.","concept":"Mitochondria make ATP.","tip":"Mighty mito makes energy."}`

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validJSON)})
	svc := NewService(mock, DefaultConfig())

	exp, err := svc.Explain(t.Context(), powerhouse())
	require.NoError(t, err)
	assert.Equal(t, "cell-2", exp.QuestionID)
	assert.Equal(t, "The nucleus stores DNA.", exp.Why)
	assert.Equal(t, "Mighty mito makes energy.", exp.Tip)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, ExplanationSchema, req.Schema)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Student chose: A) Nucleus")
	assert.Contains(t, prompt, "Correct answer: B) Mitochondria")
	assert.Contains(t, prompt, "Topic: Cell Biology")
}

func TestExplainErrors(t *testing.T) {
	m := powerhouse()
	m.Chosen = 9
	_, err := NewService(llm.NewMockProvider(), DefaultConfig()).Explain(t.Context(), m)
	assert.Error(t, err)

	boom := errors.New("boom")
	svc := NewService(llm.NewMockProvider(llm.MockResponse{Err: boom}), DefaultConfig())
	_, err = svc.Explain(t.Context(), powerhouse())
	assert.ErrorIs(t, err, boom)

	svc = NewService(llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"why_wrong":"x"}`)}), DefaultConfig())
	_, err = svc.Explain(t.Context(), powerhouse())
	var invalid *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func waitFor(t *testing.T, svc *Service, id string) (*Explanation, error) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if r, ok := svc.Consume(id); ok {
			return r.Explanation, r.Err
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for explanation")
	return nil, nil
}

func TestRequestConsume(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validJSON)})
	svc := NewService(mock, DefaultConfig())

	_, ok := svc.Consume("cell-2")
	assert.False(t, ok)

	assert.True(t, svc.Request(t.Context(), powerhouse()))
	exp, err := waitFor(t, svc, "cell-2")
	require.NoError(t, err)
	assert.Equal(t, "Mitochondria make ATP.", exp.Concept)
	assert.False(t, svc.Pending("cell-2"))

	_, ok = svc.Consume("cell-2")
	assert.False(t, ok, "result is cleared after consumption")
}

func TestRequestDeduplicates(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validJSON)})
	svc := NewService(mock, DefaultConfig())

	svc.Request(t.Context(), powerhouse())
	assert.False(t, svc.Request(t.Context(), powerhouse()))
	_, err := waitFor(t, svc, "cell-2")
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCount())
}
