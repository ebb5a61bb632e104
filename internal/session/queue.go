package session

import (
	"math/rand/v2"

	"github.com/abhisek/quizmaster/internal/bank"
)

// entry is a queued question tagged with the pool it came from.
type entry struct {
	question bank.Question
	topicID  string
}

// flatten concatenates the questions of every pool in pool order.
func flatten(pools []bank.TopicPool) []entry {
	n := 0
	for _, p := range pools {
		n += len(p.Questions)
	}
	out := make([]entry, 0, n)
	for _, p := range pools {
		for _, q := range p.Questions {
			out = append(out, entry{question: q, topicID: p.ID})
		}
	}
	return out
}

// shuffle permutes entries uniformly in place (Fisher-Yates).
func shuffle(r *rand.Rand, entries []entry) {
	r.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})
}

// requeue moves the head of q to its tail.
func requeue(q []entry) []entry {
	if len(q) < 2 {
		return q
	}
	head := q[0]
	copy(q, q[1:])
	q[len(q)-1] = head
	return q
}
