// Package dedup tracks which part numbers have already been written to the
// batch that is currently open.
package dedup

// Set is a seen-key set for one batch session. The zero value is not usable; call New.
type Set struct {
	keys map[string]struct{}
}

// New returns an empty set
func New() *Set {
	return &Set{keys: make(map[string]struct{})}
}

// Seen reports whether key was marked during this session
func (s *Set) Seen(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// MarkSeen records key
func (s *Set) MarkSeen(key string) {
	s.keys[key] = struct{}{}
}

// Len returns the number of distinct keys marked
func (s *Set) Len() int {
	return len(s.keys)
}
