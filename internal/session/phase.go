package session

// Phase is the engine's position in the session lifecycle.
type Phase int

const (
	PhaseUninitialized   Phase = iota // No session started yet
	PhaseAwaitingAnswer               // Head of the queue is presented
	PhaseShowingFeedback              // Answer recorded, queue not yet moved
	PhaseComplete                     // Terminal; report available
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseAwaitingAnswer:
		return "awaiting-answer"
	case PhaseShowingFeedback:
		return "showing-feedback"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}
