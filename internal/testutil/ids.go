package testutil

import "sync"

// FixedIDGenerator returns a scripted sequence of ids.
//
// Once the script is used up, the last id repeats forever. This makes
// id-collision handling easy to provoke: a store drawing from an exhausted
// generator only ever sees an id it has already issued.
//
// Thread-safety: FixedIDGenerator is safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	n   int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
// With no ids, Generate returns "test-id-default".
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	if len(ids) == 0 {
		ids = []string{"test-id-default"}
	}
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next scripted id.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.ids[min(g.n, len(g.ids)-1)]
	g.n++
	return id
}

// Calls returns how many ids have been drawn.
func (g *FixedIDGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}
