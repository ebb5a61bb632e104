package bank

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Bank is an ordered, read-only collection of topic pools.
type Bank struct {
	title string
	pools []TopicPool
	index map[string]int
}

// New validates pools and builds a Bank. Question ids must be unique across
// the whole bank, not just within a pool.
func New(title string, pools []TopicPool) (*Bank, error) {
	var errs []string

	index := make(map[string]int, len(pools))
	owner := make(map[string]string)
	for i, p := range pools {
		if err := p.Validate(); err != nil {
			errs = append(errs, err.Error())
		}
		if _, dup := index[p.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate topic id %q", p.ID))
		}
		index[p.ID] = i
		for _, q := range p.Questions {
			if prev, ok := owner[q.ID]; ok && prev != p.ID {
				errs = append(errs, fmt.Sprintf("question id %q used in both %q and %q", q.ID, prev, p.ID))
			}
			owner[q.ID] = p.ID
		}
	}
	if len(pools) == 0 {
		errs = append(errs, "no topics")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Subject: "bank " + quoteOrBlank(title), Problems: errs}
	}

	cp := make([]TopicPool, len(pools))
	copy(cp, pools)
	return &Bank{title: title, pools: cp, index: index}, nil
}

// Title returns the bank's display title.
func (b *Bank) Title() string { return b.title }

// Pools returns all pools in bank order.
func (b *Bank) Pools() []TopicPool {
	out := make([]TopicPool, len(b.pools))
	copy(out, b.pools)
	return out
}

// Pool returns the pool with the given id.
func (b *Bank) Pool(id string) (TopicPool, bool) {
	i, ok := b.index[id]
	if !ok {
		return TopicPool{}, false
	}
	return b.pools[i], true
}

// Select returns the pools named by ids in bank order, ignoring duplicates.
func (b *Bank) Select(ids []string) ([]TopicPool, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := b.index[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, id)
		}
		want[id] = true
	}

	var out []TopicPool
	for _, p := range b.pools {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// Match finds a pool by id or title, ignoring case.
func (b *Bank) Match(name string) (TopicPool, bool) {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(name))
	for _, p := range b.pools {
		if fold.String(p.ID) == needle || fold.String(p.Title) == needle {
			return p, true
		}
	}
	return TopicPool{}, false
}

// Resolve maps user-supplied names (ids or titles) to pool ids.
func (b *Bank) Resolve(names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		p, ok := b.Match(n)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, n)
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// QuestionCount returns the number of questions across all pools.
func (b *Bank) QuestionCount() int {
	n := 0
	for _, p := range b.pools {
		n += len(p.Questions)
	}
	return n
}

// Question looks up a question by id and returns it with its topic id.
func (b *Bank) Question(id string) (Question, string, bool) {
	for _, p := range b.pools {
		for _, q := range p.Questions {
			if q.ID == id {
				return q, p.ID, true
			}
		}
	}
	return Question{}, "", false
}
