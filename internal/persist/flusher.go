package persist

import (
	"sync"

	"go.uber.org/zap"
)

// Flushable is anything holding deferred writes.
type Flushable interface {
	Key() string
	Flush() error
}

// Flusher writes every registered slot's pending state.
type Flusher struct {
	mu    sync.Mutex
	slots []Flushable
	log   *zap.Logger
}

// NewFlusher creates a Flusher over slots.
func NewFlusher(log *zap.Logger, slots ...Flushable) *Flusher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Flusher{slots: slots, log: log}
}

// Add registers another slot.
func (f *Flusher) Add(s Flushable) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots = append(f.slots, s)
}

// FlushAll flushes each slot and returns how many failed. Failures are
// logged here and go no further.
func (f *Flusher) FlushAll() int {
	f.mu.Lock()
	slots := append([]Flushable(nil), f.slots...)
	f.mu.Unlock()

	failed := 0
	for _, s := range slots {
		if err := s.Flush(); err != nil {
			failed++
			f.log.Warn("State flush failed", zap.String("key", s.Key()), zap.Error(err))
		}
	}
	return failed
}
