package tag

// Set is an insertion-ordered, de-duplicating, append-only tag collection.
//
// Adding a tag identical in key, value and cardinality to one already present
// is a no-op. The same key with a different value is a distinct entry.
//
// Set is not safe for concurrent writes. The zero value is ready to use.
type Set struct {
	order []Tag
	seen  map[Tag]struct{}
}

// Add appends t unless an identical tag is already present.
// Returns true if the tag was added.
func (s *Set) Add(t Tag) bool {
	if s.seen == nil {
		s.seen = make(map[Tag]struct{})
	}
	if _, ok := s.seen[t]; ok {
		return false
	}
	s.seen[t] = struct{}{}
	s.order = append(s.order, t)
	return true
}

// All returns a copy of the tags in insertion order.
func (s *Set) All() []Tag {
	if len(s.order) == 0 {
		return nil
	}
	out := make([]Tag, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of distinct tags.
func (s *Set) Len() int {
	return len(s.order)
}
