package walker

import "sync"

// identity keys a filesystem object across all the names it is reachable by.
type identity struct {
	dev uint64
	ino uint64
}

// identitySet records hard-linked objects that have already been counted.
type identitySet interface {
	// shouldCount reports whether id has not been seen before, recording it
	// as seen when so.
	shouldCount(id identity) bool
}

// seenSet is the sequential implementation: a plain map, no locking. The
// walk threads it through one stack frame at a time.
type seenSet map[identity]struct{}

func (s seenSet) shouldCount(id identity) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// lockedSet guards a seenSet for the parallel fan-out, where sibling
// branches may observe the two names of a hard-linked pair concurrently.
// The check and insert happen under one lock so a pair is never counted
// twice.
type lockedSet struct {
	mu   sync.Mutex
	seen seenSet
}

func newLockedSet() *lockedSet {
	return &lockedSet{seen: make(seenSet)}
}

func (s *lockedSet) shouldCount(id identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen.shouldCount(id)
}
