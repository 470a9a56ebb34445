// Package columns tracks which coin table columns are shown and in which
// order, and carries the user's choices across schema upgrades.
package columns

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/isayev/coinstack-sub001/internal/filter"
)

// SchemaVersion is the version of Defaults. Bump it whenever a column is
// added, removed or its metadata changes.
const SchemaVersion = 2

// ErrIndexOutOfRange is returned by Reorder for a position outside the list.
var ErrIndexOutOfRange = errors.New("column index out of range")

// Column describes one table column.
type Column struct {
	ID        string           `json:"id"`
	Label     string           `json:"label"`
	Visible   bool             `json:"visible"`
	Sortable  bool             `json:"sortable"`
	SortField filter.SortField `json:"sort_field,omitempty"`
	Width     string           `json:"width,omitempty"`
}

// Defaults returns the compiled-in column schema.
func Defaults() []Column {
	return []Column{
		{ID: "image", Label: "", Visible: true, Width: "56px"},
		{ID: "category", Label: "Category", Visible: true, Sortable: true, SortField: filter.SortCategory, Width: "110px"},
		{ID: "ruler", Label: "Ruler", Visible: true, Sortable: true, SortField: filter.SortName, Width: "180px"},
		{ID: "denomination", Label: "Denomination", Visible: true, Sortable: true, SortField: filter.SortDenomination, Width: "130px"},
		{ID: "metal", Label: "Metal", Visible: true, Sortable: true, SortField: filter.SortMetal, Width: "70px"},
		{ID: "year", Label: "Year", Visible: true, Sortable: true, SortField: filter.SortYear, Width: "100px"},
		{ID: "mint", Label: "Mint", Visible: true, Width: "120px"},
		{ID: "grade", Label: "Grade", Visible: true, Sortable: true, SortField: filter.SortGrade, Width: "80px"},
		{ID: "rarity", Label: "Rarity", Visible: false, Sortable: true, SortField: filter.SortRarity, Width: "70px"},
		{ID: "weight", Label: "Weight", Visible: false, Sortable: true, SortField: filter.SortWeight, Width: "80px"},
		{ID: "price", Label: "Paid", Visible: true, Sortable: true, SortField: filter.SortPrice, Width: "90px"},
		{ID: "value", Label: "Value", Visible: false, Sortable: true, SortField: filter.SortValue, Width: "90px"},
		{ID: "storage", Label: "Storage", Visible: false, Width: "110px"},
		{ID: "acquired", Label: "Acquired", Visible: false, Sortable: true, SortField: filter.SortAcquired, Width: "110px"},
	}
}

// Migrate merges a stored column list into the current schema. Columns come
// out in defaults order with their metadata refreshed and the stored
// visibility kept; columns missing from storage are taken as-is from
// defaults; stored columns unknown to defaults are appended in stored order.
func Migrate(stored, defaults []Column) []Column {
	byID := make(map[string]Column, len(stored))
	for _, c := range stored {
		byID[c.ID] = c
	}

	known := make(map[string]bool, len(defaults))
	merged := make([]Column, 0, len(defaults)+len(stored))
	for _, d := range defaults {
		known[d.ID] = true
		if s, ok := byID[d.ID]; ok {
			d.Visible = s.Visible
		}
		merged = append(merged, d)
	}
	for _, s := range stored {
		if !known[s.ID] {
			known[s.ID] = true
			merged = append(merged, s)
		}
	}
	return merged
}

// Layout is the persisted shape of the column state.
type Layout struct {
	Columns []Column `json:"columns"`
}

// MigrateStored decodes a layout written at fromVersion and merges it onto
// Defaults. Version 1 stored a bare array; later versions store a Layout.
func MigrateStored(data []byte, fromVersion int) (Layout, error) {
	var stored []Column
	if fromVersion <= 1 {
		if err := json.Unmarshal(data, &stored); err != nil {
			return Layout{}, fmt.Errorf("decode v%d columns: %w", fromVersion, err)
		}
	} else {
		var l Layout
		if err := json.Unmarshal(data, &l); err != nil {
			return Layout{}, fmt.Errorf("decode v%d layout: %w", fromVersion, err)
		}
		stored = l.Columns
	}
	return Layout{Columns: Migrate(stored, Defaults())}, nil
}

// Store holds the ordered column list of a session.
type Store struct {
	mu        sync.Mutex
	columns   []Column
	listeners []func(Layout)

	// notifyMu orders listener calls the same way mutations were ordered.
	notifyMu sync.Mutex
}

// NewStore creates a Store from a loaded layout. An empty layout starts
// from Defaults.
func NewStore(l Layout) *Store {
	cols := l.Columns
	if len(cols) == 0 {
		cols = Defaults()
	}
	return &Store{columns: append([]Column(nil), cols...)}
}

// OnChange registers fn to be called after every mutation.
func (s *Store) OnChange(fn func(Layout)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Columns returns every column in display order.
func (s *Store) Columns() []Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Column(nil), s.columns...)
}

// Layout returns the persistable form of the store.
func (s *Store) Layout() Layout {
	return Layout{Columns: s.Columns()}
}

// Visible returns the visible columns in display order.
func (s *Store) Visible() []Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Column
	for _, c := range s.columns {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// SetVisibility shows or hides a column. Unknown ids are ignored; the
// return value reports whether the id was found.
func (s *Store) SetVisibility(id string, visible bool) bool {
	return s.mutate(func(cols []Column) bool {
		for i := range cols {
			if cols[i].ID == id {
				cols[i].Visible = visible
				return true
			}
		}
		return false
	})
}

// Toggle flips a column's visibility. Unknown ids are ignored.
func (s *Store) Toggle(id string) bool {
	return s.mutate(func(cols []Column) bool {
		for i := range cols {
			if cols[i].ID == id {
				cols[i].Visible = !cols[i].Visible
				return true
			}
		}
		return false
	})
}

// Reorder moves the column at from to position to. Indices outside the
// list are rejected and leave the order unchanged.
func (s *Store) Reorder(from, to int) error {
	var err error
	s.mutateSlice(func(cols []Column) ([]Column, bool) {
		if from < 0 || from >= len(cols) || to < 0 || to >= len(cols) {
			err = fmt.Errorf("%w: move %d to %d of %d", ErrIndexOutOfRange, from, to, len(cols))
			return cols, false
		}
		if from == to {
			return cols, false
		}
		c := cols[from]
		cols = append(cols[:from], cols[from+1:]...)
		cols = append(cols[:to], append([]Column{c}, cols[to:]...)...)
		return cols, true
	})
	return err
}

// ResetToDefaults replaces the whole list with Defaults.
func (s *Store) ResetToDefaults() {
	s.mutateSlice(func([]Column) ([]Column, bool) { return Defaults(), true })
}

func (s *Store) mutate(fn func([]Column) bool) bool {
	changed := false
	s.mutateSlice(func(cols []Column) ([]Column, bool) {
		changed = fn(cols)
		return cols, changed
	})
	return changed
}

func (s *Store) mutateSlice(fn func([]Column) ([]Column, bool)) {
	s.mu.Lock()
	cols, changed := fn(s.columns)
	s.columns = cols
	if !changed {
		s.mu.Unlock()
		return
	}
	snap := Layout{Columns: append([]Column(nil), s.columns...)}
	listeners := s.listeners
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}
