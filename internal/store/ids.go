package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces candidate entity ids.
// Implemented by UUIDGenerator (production) and SequenceGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates random version-4 UUIDs.
//
// Format: "550e8400-e29b-41d4-a716-446655440000" (36 characters)
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate creates a new UUIDv4 string.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}

// SequenceGenerator returns "<prefix>-0001", "<prefix>-0002", ...
//
// This keeps scenario traces byte-identical across runs.
//
// Thread-safety: SequenceGenerator is safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator with the given prefix.
// An empty prefix defaults to "id".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next id in the sequence.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
