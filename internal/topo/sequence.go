// Package topo builds the topological graph: one node per skeleton keypoint,
// adjacency discovered by bounded walks over the skeleton, then refined into
// a symmetric, spatially pruned graph with stable node ids.
package topo

import "sync"

// Sequence hands out monotonically increasing node ids starting at 0.
// Ids are never reused for the lifetime of the sequence, even across
// repeated graph computations; construct a fresh Sequence per process
// (or per test) and share it with the service.
type Sequence struct {
	mu   sync.Mutex
	next int
}

// NewSequence returns a sequence starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next id.
func (s *Sequence) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id
}
