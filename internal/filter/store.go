package filter

import "sync"

// Store is the single authoritative filter state of a session. Every setter
// except SetPage and ToggleSortDir moves the view back to page 1, so a
// narrowed filter can never leave the UI on a page that no longer exists.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []func(State)

	// notifyMu is taken before mu is released, so listeners see
	// snapshots in mutation order.
	notifyMu sync.Mutex
}

// NewStore creates a Store starting from initial.
func NewStore(initial State) *Store {
	return &Store{state: initial.Clone()}
}

// OnChange registers fn to be called with a snapshot after every mutation.
// Listeners run on the mutating goroutine, outside the store lock, one
// mutation at a time and in the order the mutations happened.
func (s *Store) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Serialize returns the backend query parameters for the current state.
func (s *Store) Serialize() Params {
	return Serialize(s.Snapshot())
}

// CountActiveFilters returns the active filter count of the current state.
func (s *Store) CountActiveFilters() int {
	return CountActiveFilters(s.Snapshot())
}

func (s *Store) update(resetPage bool, fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	if resetPage {
		s.state.Page = 1
	}
	snap := s.state.Clone()
	listeners := s.listeners
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store) SetSearch(v string)           { s.update(true, func(st *State) { st.Search = v }) }
func (s *Store) SetCategory(v string)         { s.update(true, func(st *State) { st.Category = v }) }
func (s *Store) SetSubCategory(v string)      { s.update(true, func(st *State) { st.SubCategory = v }) }
func (s *Store) SetMetal(v string)            { s.update(true, func(st *State) { st.Metal = v }) }
func (s *Store) SetDenomination(v string)     { s.update(true, func(st *State) { st.Denomination = v }) }
func (s *Store) SetGrade(v string)            { s.update(true, func(st *State) { st.Grade = v }) }
func (s *Store) SetRarity(v string)           { s.update(true, func(st *State) { st.Rarity = v }) }
func (s *Store) SetStorageLocation(v string)  { s.update(true, func(st *State) { st.StorageLocation = v }) }
func (s *Store) SetIssuingAuthority(v string) { s.update(true, func(st *State) { st.IssuingAuthority = v }) }
func (s *Store) SetMint(v string)             { s.update(true, func(st *State) { st.Mint = v }) }

func (s *Store) SetRulerUnknown(v *bool) {
	s.update(true, func(st *State) { st.RulerUnknown = cloneBool(v) })
}

func (s *Store) SetMintUnknown(v *bool) {
	s.update(true, func(st *State) { st.MintUnknown = cloneBool(v) })
}

func (s *Store) SetYearUnknown(v *bool) {
	s.update(true, func(st *State) { st.YearUnknown = cloneBool(v) })
}

func (s *Store) SetCirca(v *bool) {
	s.update(true, func(st *State) { st.Circa = cloneBool(v) })
}

func (s *Store) SetTestCut(v *bool) {
	s.update(true, func(st *State) { st.TestCut = cloneBool(v) })
}

// SetPriceRange sets both price bounds, swapping them if inverted. Pass
// DefaultPriceRange to clear.
func (s *Store) SetPriceRange(r PriceRange) {
	s.update(true, func(st *State) { st.PriceRange = r.Ordered() })
}

// SetYearRange sets the mint year bounds; nil leaves a side open.
func (s *Store) SetYearRange(from, to *int) {
	s.update(true, func(st *State) {
		st.YearMin = cloneInt(from)
		st.YearMax = cloneInt(to)
	})
}

// SetSort sorts by field. Without an explicit dir, re-selecting the current
// field flips the direction and a new field starts ascending.
func (s *Store) SetSort(field SortField, dir ...SortDir) {
	s.update(true, func(st *State) {
		switch {
		case len(dir) > 0:
			st.SortDir = dir[0]
		case st.SortBy == field:
			st.SortDir = st.SortDir.Flip()
		default:
			st.SortDir = Asc
		}
		st.SortBy = field
	})
}

// ToggleSortDir flips the direction, keeping field and page.
func (s *Store) ToggleSortDir() {
	s.update(false, func(st *State) { st.SortDir = st.SortDir.Flip() })
}

// SetPage moves to page without touching anything else.
func (s *Store) SetPage(page int) {
	s.update(false, func(st *State) { st.Page = page })
}

// SetPageSize changes the page size and returns to page 1.
func (s *Store) SetPageSize(size PageSize) {
	s.update(true, func(st *State) { st.PageSize = size })
}

// Reset restores the session default.
func (s *Store) Reset() {
	s.update(true, func(st *State) { *st = Default() })
}

// Replace swaps in a whole state, e.g. one loaded from storage.
func (s *Store) Replace(st State) {
	s.update(false, func(cur *State) { *cur = st.Clone() })
}
