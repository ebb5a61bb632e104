// Package tutor asks a language model to explain why a chosen answer was
// wrong. Requests run in the background; the results screen polls for them.
package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/quizmaster/internal/bank"
	"github.com/abhisek/quizmaster/internal/llm"
)

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{MaxTokens: 400, Temperature: 0.4}
}

// Mistake is one missed question and the option the learner picked.
type Mistake struct {
	Topic    string
	Question bank.Question
	Chosen   int
}

// Explanation is the tutor's answer.
type Explanation struct {
	QuestionID string
	Why        string // why the chosen option is wrong
	Concept    string // the idea behind the correct option
	Tip        string // a short memory aid
}

// ExplanationSchema is the structured output requested from the provider.
var ExplanationSchema = &llm.Schema{
	Name:        "mistake-explanation",
	Description: "Why a quiz answer was wrong and how to remember the right one",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"why_wrong": map[string]any{
				"type":        "string",
				"description": "1-2 sentences on why the chosen option is incorrect",
			},
			"concept": map[string]any{
				"type":        "string",
				"description": "2-3 sentences explaining the concept behind the correct option",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One short memory aid (under 20 words)",
			},
		},
		"required":             []any{"why_wrong", "concept", "tip"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a friendly biology tutor for high-school students. A student just answered a multiple-choice question incorrectly. Be accurate, brief and encouraging. Never invent facts that contradict the provided correct answer.`

// Result is a finished request.
type Result struct {
	Explanation *Explanation
	Err         error
}

// Service runs explanation requests asynchronously. At most one request per
// question is in flight; finished results wait in a slot until consumed.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu       sync.Mutex
	inflight map[string]bool
	done     map[string]Result
}

func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{
		provider: provider,
		cfg:      cfg,
		inflight: make(map[string]bool),
		done:     make(map[string]Result),
	}
}

// Request starts explaining m unless a request for the same question is
// already running or waiting to be consumed. It reports whether a new
// request was started.
func (s *Service) Request(ctx context.Context, m Mistake) bool {
	id := m.Question.ID
	s.mu.Lock()
	if s.inflight[id] {
		s.mu.Unlock()
		return false
	}
	if _, ok := s.done[id]; ok {
		s.mu.Unlock()
		return false
	}
	s.inflight[id] = true
	s.mu.Unlock()

	go func() {
		exp, err := s.Explain(ctx, m)
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.inflight, id)
		s.done[id] = Result{Explanation: exp, Err: err}
	}()
	return true
}

// Pending reports whether a request for questionID is still running.
func (s *Service) Pending(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[questionID]
}

// Consume returns the finished result for questionID and clears it.
// ok is false while nothing is ready.
func (s *Service) Consume(questionID string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.done[questionID]
	if ok {
		delete(s.done, questionID)
	}
	return r, ok
}

type explanationOutput struct {
	WhyWrong string `json:"why_wrong"`
	Concept  string `json:"concept"`
	Tip      string `json:"tip"`
}

// Explain asks the provider synchronously.
func (s *Service) Explain(ctx context.Context, m Mistake) (*Explanation, error) {
	if m.Chosen < 0 || m.Chosen >= len(m.Question.Options) {
		return nil, fmt.Errorf("chosen option %d out of range for %s", m.Chosen, m.Question.ID)
	}

	req := llm.UserPrompt(systemPrompt, buildPrompt(m))
	req.Schema = ExplanationSchema
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "explain"), req)
	if err != nil {
		return nil, fmt.Errorf("explain %s: %w", m.Question.ID, err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	return &Explanation{
		QuestionID: m.Question.ID,
		Why:        out.WhyWrong,
		Concept:    out.Concept,
		Tip:        out.Tip,
	}, nil
}

func buildPrompt(m Mistake) string {
	var b strings.Builder
	if m.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", m.Topic)
	}
	fmt.Fprintf(&b, "Question: %s\n\nOptions:\n", m.Question.Prompt)
	for i, opt := range m.Question.Options {
		fmt.Fprintf(&b, "%c) %s\n", 'A'+i, opt)
	}
	fmt.Fprintf(&b, "\nStudent chose: %c) %s\n", 'A'+m.Chosen, m.Question.Options[m.Chosen])
	fmt.Fprintf(&b, "Correct answer: %c) %s\n", 'A'+m.Question.CorrectAnswer, m.Question.CorrectOption())
	if m.Question.Explanation != "" {
		fmt.Fprintf(&b, "Reference explanation: %s\n", m.Question.Explanation)
	}
	b.WriteString("\nExplain the mistake using the reference explanation as ground truth.")
	return b.String()
}
