// Package selection tracks the coins picked for bulk operations. It is
// independent of sorting, filtering and pagination.
package selection

import (
	"slices"
	"sync"
)

// Set is a set of selected coin ids.
type Set struct {
	mu        sync.Mutex
	ids       map[int64]struct{}
	selecting bool
}

// New creates an empty selection.
func New() *Set {
	return &Set{ids: make(map[int64]struct{})}
}

func (s *Set) sync() {
	s.selecting = len(s.ids) > 0
}

// Toggle selects id if absent and deselects it if present.
func (s *Set) Toggle(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	s.sync()
}

// Select adds id.
func (s *Set) Select(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
	s.sync()
}

// Deselect removes id.
func (s *Set) Deselect(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
	s.sync()
}

// SelectAll replaces the selection with ids.
func (s *Set) SelectAll(ids []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	s.selecting = len(ids) > 0
}

// SelectRange adds every id between start and end (inclusive, either order)
// as they appear in all. If either endpoint is not in all, nothing changes:
// the list can be re-sorted between the two clicks.
func (s *Set) SelectRange(start, end int64, all []int64) {
	i := slices.Index(all, start)
	j := slices.Index(all, end)
	if i < 0 || j < 0 {
		return
	}
	if i > j {
		i, j = j, i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range all[i : j+1] {
		s.ids[id] = struct{}{}
	}
	s.sync()
}

// Clear empties the selection.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[int64]struct{})
	s.selecting = false
}

// IsSelected reports whether id is selected.
func (s *Set) IsSelected(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids.
func (s *Set) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IsSelecting is true while anything is selected.
func (s *Set) IsSelecting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selecting
}

// ToArray returns the selected ids in ascending order.
func (s *Set) ToArray() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
