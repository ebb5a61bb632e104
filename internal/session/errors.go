package session

import "errors"

var (
	// ErrInvalidConfiguration is returned by Initialize when the selection
	// holds no pools, no questions, an invalid pool or question, or a
	// question id shared by two pools.
	ErrInvalidConfiguration = errors.New("invalid session configuration")

	// ErrInvalidState is returned when an operation is called out of sequence.
	ErrInvalidState = errors.New("invalid engine state")

	// ErrOutOfRangeAnswer is returned when the chosen option does not exist.
	ErrOutOfRangeAnswer = errors.New("answer index out of range")
)
