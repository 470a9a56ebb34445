package columns

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.ID
	}
	return out
}

func find(t *testing.T, cols []Column, id string) Column {
	t.Helper()
	for _, c := range cols {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("column %q not found in %v", id, ids(cols))
	return Column{}
}

func TestMigrateKeepsVisibilityRefreshesMetadata(t *testing.T) {
	stored := []Column{{ID: "grade", Visible: false, Label: "OLD LABEL", Width: "10px"}}
	defaults := []Column{{ID: "grade", Visible: true, Label: "Grade", Width: "50px"}}

	got := Migrate(stored, defaults)
	assert.Equal(t, []Column{{ID: "grade", Visible: false, Label: "Grade", Width: "50px"}}, got)
}

func TestMigrateAddsNewDefaultsAndKeepsUnknownStored(t *testing.T) {
	stored := []Column{
		{ID: "legacy", Label: "Legacy", Visible: true},
		{ID: "b", Label: "B old", Visible: false},
	}
	defaults := []Column{
		{ID: "a", Label: "A", Visible: true},
		{ID: "b", Label: "B", Visible: true, Sortable: true},
		{ID: "c", Label: "C", Visible: false},
	}

	got := Migrate(stored, defaults)
	assert.Equal(t, []string{"a", "b", "c", "legacy"}, ids(got))
	assert.Equal(t, Column{ID: "b", Label: "B", Visible: false, Sortable: true}, got[1])
	assert.Equal(t, stored[0], got[3])
}

func TestMigrateIsSupersetOfDefaults(t *testing.T) {
	got := Migrate(nil, Defaults())
	assert.Equal(t, Defaults(), got)

	got = Migrate([]Column{{ID: "metal", Visible: false}}, Defaults())
	for _, d := range Defaults() {
		find(t, got, d.ID)
	}
	assert.False(t, find(t, got, "metal").Visible)
}

func TestMigrateStoredAcceptsBothShapes(t *testing.T) {
	v1 := []byte(`[{"id":"year","label":"Yr","visible":false}]`)
	l, err := MigrateStored(v1, 1)
	require.NoError(t, err)
	year := find(t, l.Columns, "year")
	assert.False(t, year.Visible)
	assert.Equal(t, "Year", year.Label)

	v3, _ := json.Marshal(Layout{Columns: []Column{{ID: "rarity", Visible: true}}})
	l, err = MigrateStored(v3, 3)
	require.NoError(t, err)
	assert.True(t, find(t, l.Columns, "rarity").Visible)

	_, err = MigrateStored([]byte(`{"columns":`), 2)
	assert.Error(t, err)
}

func TestStoreVisibility(t *testing.T) {
	s := NewStore(Layout{})

	assert.True(t, s.SetVisibility("metal", false))
	assert.False(t, find(t, s.Columns(), "metal").Visible)

	assert.True(t, s.Toggle("metal"))
	assert.True(t, find(t, s.Columns(), "metal").Visible)

	before := s.Columns()
	assert.False(t, s.Toggle("nope"))
	assert.False(t, s.SetVisibility("nope", true))
	assert.Equal(t, before, s.Columns())
}

func TestStoreVisibleKeepsOrder(t *testing.T) {
	s := NewStore(Layout{Columns: []Column{
		{ID: "a", Visible: true},
		{ID: "b", Visible: false},
		{ID: "c", Visible: true},
	}})
	assert.Equal(t, []string{"a", "c"}, ids(s.Visible()))
}

func TestStoreReorder(t *testing.T) {
	s := NewStore(Layout{Columns: []Column{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}})

	require.NoError(t, s.Reorder(0, 2))
	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(s.Columns()))

	require.NoError(t, s.Reorder(3, 0))
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(s.Columns()))

	require.NoError(t, s.Reorder(1, 1))
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(s.Columns()))
}

func TestStoreReorderRejectsOutOfRange(t *testing.T) {
	s := NewStore(Layout{Columns: []Column{{ID: "a"}, {ID: "b"}}})
	calls := 0
	s.OnChange(func(Layout) { calls++ })

	for _, c := range [][2]int{{-1, 0}, {0, 2}, {2, 0}, {0, -1}} {
		err := s.Reorder(c[0], c[1])
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "%v", c)
	}
	assert.Equal(t, []string{"a", "b"}, ids(s.Columns()))
	assert.Zero(t, calls)
}

func TestStoreResetToDefaults(t *testing.T) {
	s := NewStore(Layout{Columns: []Column{{ID: "x"}}})
	var last Layout
	s.OnChange(func(l Layout) { last = l })

	s.ResetToDefaults()
	assert.Equal(t, Defaults(), s.Columns())
	assert.Equal(t, Defaults(), last.Columns)
}

func TestColumnsReturnsCopy(t *testing.T) {
	s := NewStore(Layout{})
	cols := s.Columns()
	cols[0].Visible = !cols[0].Visible
	assert.NotEqual(t, cols[0].Visible, s.Columns()[0].Visible)
}
