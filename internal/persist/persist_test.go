package persist

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/isayev/coinstack-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type prefs struct {
	Theme string `json:"theme"`
	Size  int    `json:"size"`
}

// failingBackend rejects every write.
type failingBackend struct {
	Backend
	puts int
}

func (f *failingBackend) Put(rec Record) error {
	f.puts++
	return errors.New("disk full")
}

func TestSQLiteBackend_PutGetDelete(t *testing.T) {
	b := NewSQLiteBackend(testutil.SetupTestDB(t))

	_, err := b.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Put(Record{Key: "k", Version: 1, Data: []byte(`{"a":1}`)}))
	require.NoError(t, b.Put(Record{Key: "k", Version: 2, Data: []byte(`{"a":2}`)}))

	rec, err := b.Get("k")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Version)
	assert.JSONEq(t, `{"a":2}`, string(rec.Data))
	assert.False(t, rec.UpdatedAt.IsZero())

	require.NoError(t, b.Delete("k"))
	require.NoError(t, b.Delete("k"))
	_, err = b.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSlot_LoadFallsBackToDefault(t *testing.T) {
	b := NewSQLiteBackend(testutil.SetupTestDB(t))
	def := prefs{Theme: "light", Size: 20}

	t.Run("absent", func(t *testing.T) {
		s := NewSlot[prefs](b, "absent", 1)
		assert.Equal(t, def, s.Load(def))
	})

	t.Run("corrupt", func(t *testing.T) {
		require.NoError(t, b.Put(Record{Key: "corrupt", Version: 1, Data: []byte("{not json")}))
		s := NewSlot[prefs](b, "corrupt", 1)
		assert.Equal(t, def, s.Load(def))
	})

	t.Run("migration error", func(t *testing.T) {
		require.NoError(t, b.Put(Record{Key: "old", Version: 0, Data: []byte(`{}`)}))
		s := NewSlot(b, "old", 1, WithMigrator(func(data []byte, from int) (prefs, error) {
			return prefs{}, errors.New("unsupported")
		}))
		assert.Equal(t, def, s.Load(def))
	})
}

func TestSlot_SaveAndLoadRoundTrip(t *testing.T) {
	b := NewSQLiteBackend(testutil.SetupTestDB(t))
	s := NewSlot[prefs](b, "prefs", 3)

	s.Save(prefs{Theme: "dark", Size: 50})

	rec, err := b.Get("prefs")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Version)
	assert.Equal(t, prefs{Theme: "dark", Size: 50}, s.Load(prefs{}))
}

func TestSlot_MigratorRunsOnlyOnVersionMismatch(t *testing.T) {
	b := NewSQLiteBackend(testutil.SetupTestDB(t))
	calls := 0
	var gotFrom int
	migrate := func(data []byte, from int) (prefs, error) {
		calls++
		gotFrom = from
		var p prefs
		if err := json.Unmarshal(data, &p); err != nil {
			return prefs{}, err
		}
		p.Theme = "migrated-" + p.Theme
		return p, nil
	}

	require.NoError(t, b.Put(Record{Key: "prefs", Version: 1, Data: []byte(`{"theme":"dark","size":20}`)}))
	s := NewSlot(b, "prefs", 2, WithMigrator(migrate))
	assert.Equal(t, prefs{Theme: "migrated-dark", Size: 20}, s.Load(prefs{}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, gotFrom)

	s.Save(prefs{Theme: "dark", Size: 20})
	assert.Equal(t, prefs{Theme: "dark", Size: 20}, s.Load(prefs{}))
	assert.Equal(t, 1, calls, "current-version data must not be migrated")
}

func TestSlot_UnversionedDataDecodesDirectly(t *testing.T) {
	b := NewSQLiteBackend(testutil.SetupTestDB(t))
	require.NoError(t, b.Put(Record{Key: "prefs", Version: 0, Data: []byte(`{"theme":"dark"}`)}))

	s := NewSlot[prefs](b, "prefs", 5)
	assert.Equal(t, prefs{Theme: "dark"}, s.Load(prefs{}))
}

func TestSlot_NormalizerApplied(t *testing.T) {
	b := NewSQLiteBackend(testutil.SetupTestDB(t))
	require.NoError(t, b.Put(Record{Key: "prefs", Version: 1, Data: []byte(`{"size":-4}`)}))

	s := NewSlot(b, "prefs", 1, WithNormalizer(func(p prefs) prefs {
		if p.Size < 1 {
			p.Size = 1
		}
		return p
	}))
	assert.Equal(t, 1, s.Load(prefs{}).Size)
}

func TestSlot_SaveFailureIsSwallowed(t *testing.T) {
	fb := &failingBackend{}
	s := NewSlot[prefs](fb, "prefs", 1, WithLogger[prefs](zap.NewNop()))

	assert.NotPanics(t, func() { s.Save(prefs{Theme: "dark"}) })
	assert.Equal(t, 1, fb.puts)
}

func TestSlot_FlushWritesLatestPendingValue(t *testing.T) {
	b := NewSQLiteBackend(testutil.SetupTestDB(t))
	s := NewSlot[prefs](b, "prefs", 1)

	assert.NoError(t, s.Flush(), "flush with nothing pending is a no-op")

	s.MarkDirty(prefs{Size: 1})
	s.MarkDirty(prefs{Size: 2})
	assert.True(t, s.Dirty())
	require.NoError(t, s.Flush())
	assert.False(t, s.Dirty())
	assert.Equal(t, 2, s.Load(prefs{}).Size)
}

func TestSlot_FailedFlushKeepsValuePending(t *testing.T) {
	fb := &failingBackend{}
	s := NewSlot[prefs](fb, "prefs", 1)

	s.MarkDirty(prefs{Size: 7})
	assert.Error(t, s.Flush())
	assert.True(t, s.Dirty())
}

func TestFlusher_FlushAllCountsFailures(t *testing.T) {
	b := NewSQLiteBackend(testutil.SetupTestDB(t))
	good := NewSlot[prefs](b, "good", 1)
	bad := NewSlot[prefs](&failingBackend{}, "bad", 1)

	f := NewFlusher(zap.NewNop(), good)
	f.Add(bad)

	good.MarkDirty(prefs{Size: 3})
	bad.MarkDirty(prefs{Size: 4})
	assert.Equal(t, 1, f.FlushAll())
	assert.Equal(t, 3, good.Load(prefs{}).Size)
	assert.Equal(t, 1, f.FlushAll(), "the failed slot is retried on the next flush")
}
