package ksymtab

// Entry is a single symbol-index record: its insertion-order value and a
// mark bit used to track "symbol seen while processing modules".
type Entry struct {
	Name   string
	Order  int
	Marked bool
}

// Set is an insertion-ordered, name-keyed collection of symbol entries.
// It backs both the whitelist (read from a text file) and the per-module
// exported-symbol index (read from ELF): a plain map plus an order slice is
// the idiomatic Go equivalent of a hash table here, not a hand-rolled one.
type Set struct {
	byName    map[string]*Entry
	order     []*Entry
	markCount int
}

// NewSet creates an empty Set pre-sized for capacity entries.
func NewSet(capacity int) *Set {
	return &Set{
		byName: make(map[string]*Entry, capacity),
		order:  make([]*Entry, 0, capacity),
	}
}

// Add inserts name with the given insertion-order value, returning the new
// entry. If name is already present, the existing entry is returned
// unchanged (order is not updated).
func (s *Set) Add(name string, order int) *Entry {
	if e, ok := s.byName[name]; ok {
		return e
	}
	e := &Entry{Name: name, Order: order}
	s.byName[name] = e
	s.order = append(s.order, e)
	return e
}

// Find looks up name, returning (entry, true) if present.
func (s *Set) Find(name string) (*Entry, bool) {
	e, ok := s.byName[name]
	return e, ok
}

// Len returns the number of entries in the set.
func (s *Set) Len() int { return len(s.order) }

// ForEach calls cb for every entry in insertion order.
func (s *Set) ForEach(cb func(*Entry)) {
	for _, e := range s.order {
		cb(e)
	}
}

// ForEachUnmarked calls cb for every entry that has not been Marked.
func (s *Set) ForEachUnmarked(cb func(*Entry)) {
	for _, e := range s.order {
		if !e.Marked {
			cb(e)
		}
	}
}

// Mark flags e as seen, incrementing the set's mark count the first time
// any given entry is marked.
func (s *Set) Mark(e *Entry) {
	if !e.Marked {
		s.markCount++
	}
	e.Marked = true
}

// MarkCount returns how many distinct entries have been Marked.
func (s *Set) MarkCount() int { return s.markCount }
