package bank

import (
	"errors"
	"strings"
)

// ErrUnknownTopic is returned when a topic id is not in the bank.
var ErrUnknownTopic = errors.New("unknown topic")

// ErrUnsupportedFormat is returned by LoadFile for unrecognised extensions.
var ErrUnsupportedFormat = errors.New("unsupported bank format")

// ValidationError collects every structural problem found in a subject
// (a question, a topic or a whole bank file).
type ValidationError struct {
	Subject  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return e.Subject + ": " + strings.Join(e.Problems, "; ")
}
