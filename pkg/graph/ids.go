package graph

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces unique node and connection identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator draws random version 4 UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string { return uuid.NewString() }

// SequentialIDs yields Prefix1, Prefix2, ... It is safe for concurrent use.
type SequentialIDs struct {
	Prefix string

	mu sync.Mutex
	n  int
}

// NewID returns the next identifier in the sequence.
func (s *SequentialIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s%d", s.Prefix, s.n)
}

var (
	_ IDGenerator = UUIDGenerator{}
	_ IDGenerator = (*SequentialIDs)(nil)
)
