package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Migrator turns data stored at an older (or newer) schema version into the
// current shape. It must be pure: same input, same output.
type Migrator[T any] func(data []byte, fromVersion int) (T, error)

// Slot is typed, versioned access to one key of a Backend.
type Slot[T any] struct {
	backend   Backend
	key       string
	version   int
	migrate   Migrator[T]
	normalize func(T) T
	log       *zap.Logger

	mu      sync.Mutex
	pending *T
}

// SlotOption configures a Slot.
type SlotOption[T any] func(*Slot[T])

// WithMigrator registers the function run when the stored version differs
// from the slot's current version.
func WithMigrator[T any](m Migrator[T]) SlotOption[T] {
	return func(s *Slot[T]) { s.migrate = m }
}

// WithNormalizer registers a validation pass applied to every loaded value.
func WithNormalizer[T any](fn func(T) T) SlotOption[T] {
	return func(s *Slot[T]) { s.normalize = fn }
}

// WithLogger sets the logger used for load and write failures.
func WithLogger[T any](l *zap.Logger) SlotOption[T] {
	return func(s *Slot[T]) { s.log = l }
}

// NewSlot binds key at schema version to T.
func NewSlot[T any](backend Backend, key string, version int, opts ...SlotOption[T]) *Slot[T] {
	s := &Slot[T]{
		backend: backend,
		key:     key,
		version: version,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Key returns the backend key of the slot.
func (s *Slot[T]) Key() string { return s.key }

// Load reads, migrates and validates the stored value. Any problem along the
// way (absent record, unreadable data, failed migration) yields def.
func (s *Slot[T]) Load(def T) T {
	v, err := s.load()
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("Discarding persisted state", zap.String("key", s.key), zap.Error(err))
		}
		return def
	}
	if s.normalize != nil {
		v = s.normalize(v)
	}
	return v
}

func (s *Slot[T]) load() (T, error) {
	var zero T
	rec, err := s.backend.Get(s.key)
	if err != nil {
		return zero, err
	}

	if rec.Version != s.version && s.migrate != nil {
		s.log.Info("Migrating persisted state",
			zap.String("key", s.key), zap.Int("from", rec.Version), zap.Int("to", s.version))
		v, err := s.migrate(rec.Data, rec.Version)
		if err != nil {
			return zero, fmt.Errorf("migrate from version %d: %w", rec.Version, err)
		}
		return v, nil
	}

	var v T
	if err := json.Unmarshal(rec.Data, &v); err != nil {
		return zero, fmt.Errorf("decode: %w", err)
	}
	return v, nil
}

// Save writes v immediately. Failures are logged and otherwise ignored.
func (s *Slot[T]) Save(v T) {
	if err := s.write(v); err != nil {
		s.log.Warn("Failed to persist state", zap.String("key", s.key), zap.Error(err))
	}
}

// MarkDirty records v as the value to write on the next Flush.
func (s *Slot[T]) MarkDirty(v T) {
	s.mu.Lock()
	s.pending = &v
	s.mu.Unlock()
}

// Flush writes the pending value, if any. A failed write keeps the value
// pending unless a newer one was marked in the meantime.
func (s *Slot[T]) Flush() error {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()
	if p == nil {
		return nil
	}

	if err := s.write(*p); err != nil {
		s.mu.Lock()
		if s.pending == nil {
			s.pending = p
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// Dirty reports whether a value is waiting to be flushed.
func (s *Slot[T]) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

func (s *Slot[T]) write(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return s.backend.Put(Record{Key: s.key, Version: s.version, Data: data})
}
