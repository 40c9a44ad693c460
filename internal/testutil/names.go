package testutil

import (
	"fmt"
	"sync"
)

// SequenceNames generates predictable plot names: "000001", "000002", ...
//
// Names sort in generation order, like the UUIDv7 names used in production,
// so archive pruning can be tested without depending on the wall clock.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceNames struct {
	mu  sync.Mutex
	seq int
}

// NewSequenceNames creates a generator whose first name is "000001".
func NewSequenceNames() *SequenceNames {
	return &SequenceNames{}
}

// Generate returns the next name in the sequence.
func (g *SequenceNames) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%06d", g.seq)
}

// Count returns how many names have been generated.
func (g *SequenceNames) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. The next call to Generate returns "000001".
func (g *SequenceNames) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
