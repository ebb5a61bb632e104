package session

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/abhisek/quizmaster/internal/bank"
)

func TestShuffleIsUniform(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	base := flatten([]bank.TopicPool{makePool("u", 3)})

	counts := map[string]int{}
	const runs = 6000
	for i := 0; i < runs; i++ {
		e := append([]entry(nil), base...)
		shuffle(r, e)
		ids := make([]string, len(e))
		for j, en := range e {
			ids[j] = en.question.ID
		}
		counts[strings.Join(ids, ",")]++
	}

	if len(counts) != 6 {
		t.Fatalf("expected all 6 permutations, got %d", len(counts))
	}
	for perm, n := range counts {
		if n < 800 || n > 1200 {
			t.Errorf("permutation %s seen %d times, want about %d", perm, n, runs/6)
		}
	}
}

func TestRequeue(t *testing.T) {
	q := flatten([]bank.TopicPool{makePool("r", 3)})
	ids := func() string {
		var s []string
		for _, en := range q {
			s = append(s, en.question.ID)
		}
		return strings.Join(s, ",")
	}

	q = requeue(q)
	if got := ids(); got != "r-2,r-3,r-1" {
		t.Errorf("requeue = %s", got)
	}

	single := q[:1]
	if got := requeue(single); len(got) != 1 {
		t.Errorf("requeue of single entry changed length to %d", len(got))
	}
}
