package extension

import "sync"

// usedSet is an insertion-ordered, append-only set of extensions.
// Membership is by descriptor identity. It is owned by a single scan.
type usedSet struct {
	mu    sync.RWMutex
	seen  map[*Extension]struct{}
	order []*Extension
}

func newUsedSet(capacity int) *usedSet {
	return &usedSet{
		seen:  make(map[*Extension]struct{}, capacity),
		order: make([]*Extension, 0, capacity),
	}
}

// Has reports whether ext was already recorded.
func (s *usedSet) Has(ext *Extension) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[ext]
	return ok
}

// Add records ext and reports whether it was newly added.
func (s *usedSet) Add(ext *Extension) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[ext]; ok {
		return false
	}
	s.seen[ext] = struct{}{}
	s.order = append(s.order, ext)
	return true
}

// Len returns the number of recorded extensions.
func (s *usedSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Slice returns the recorded extensions in insertion order.
func (s *usedSet) Slice() []*Extension {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Extension, len(s.order))
	copy(out, s.order)
	return out
}
