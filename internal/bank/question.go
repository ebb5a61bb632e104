package bank

import (
	"fmt"
	"strings"
)

// Question is a single multiple-choice item.
type Question struct {
	ID            string
	Prompt        string
	Options       []string
	CorrectAnswer int // index into Options
	Explanation   string
}

// IsCorrect reports whether option is the correct choice.
func (q Question) IsCorrect(option int) bool {
	return option == q.CorrectAnswer
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectAnswer]
}

// Validate checks the structural rules for a question.
func (q Question) Validate() error {
	var errs []string
	if strings.TrimSpace(q.ID) == "" {
		errs = append(errs, "empty id")
	}
	if strings.TrimSpace(q.Prompt) == "" {
		errs = append(errs, "empty prompt")
	}
	if len(q.Options) < 2 {
		errs = append(errs, fmt.Sprintf("needs at least 2 options, has %d", len(q.Options)))
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		errs = append(errs, fmt.Sprintf("correct answer %d out of range [0, %d)", q.CorrectAnswer, len(q.Options)))
	}
	if len(errs) > 0 {
		return &ValidationError{Subject: "question " + quoteOrBlank(q.ID), Problems: errs}
	}
	return nil
}

// TopicPool is a named group of questions on one subject.
type TopicPool struct {
	ID          string
	Title       string
	Description string
	Questions   []Question
}

// Validate checks the pool and every question inside it.
func (p TopicPool) Validate() error {
	var errs []string
	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, "empty id")
	}
	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, "empty title")
	}
	if len(p.Questions) == 0 {
		errs = append(errs, "no questions")
	}

	seen := make(map[string]bool, len(p.Questions))
	for _, q := range p.Questions {
		if err := q.Validate(); err != nil {
			errs = append(errs, err.Error())
		}
		if seen[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question id %q", q.ID))
		}
		seen[q.ID] = true
	}

	if len(errs) > 0 {
		return &ValidationError{Subject: "topic " + quoteOrBlank(p.ID), Problems: errs}
	}
	return nil
}

func quoteOrBlank(s string) string {
	if s == "" {
		return "<unnamed>"
	}
	return fmt.Sprintf("%q", s)
}
