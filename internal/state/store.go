package state

import (
	"sync"
	"time"
)

// Reducer computes the next state from the current one. It must not mutate
// its input.
type Reducer[S, A any] func(S, A) S

// Cloner returns a deep copy of a state value.
type Cloner[S any] func(S) S

// Snapshot is a copy of the stored state at a point in time.
type Snapshot[S any] struct {
	State       S
	Revision    uint64 // Incremented by every dispatch that changed the state
	LastUpdated time.Time
}

// Store coordinates concurrent dispatches against one reducer domain.
type Store[S, A any] struct {
	mu       sync.RWMutex
	reduce   Reducer[S, A]
	clone    Cloner[S]
	equal    func(a, b S) bool
	snapshot Snapshot[S]
	updates  chan struct{}
}

// Option customizes a Store.
type Option[S, A any] func(*Store[S, A])

// WithEqual lets the store skip notifications for dispatches that leave the
// state unchanged.
func WithEqual[S, A any](equal func(a, b S) bool) Option[S, A] {
	return func(s *Store[S, A]) { s.equal = equal }
}

// New builds a store holding initial. clone may be nil for value types
// without reference fields.
func New[S, A any](initial S, reduce Reducer[S, A], clone Cloner[S], opts ...Option[S, A]) *Store[S, A] {
	if clone == nil {
		clone = func(v S) S { return v }
	}
	s := &Store[S, A]{
		reduce:  reduce,
		clone:   clone,
		updates: make(chan struct{}, 1),
	}
	s.snapshot.State = clone(initial)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch reduces action into the stored state and returns copies of the
// state before and after.
func (s *Store[S, A]) Dispatch(action A) (prev, next S) {
	s.mu.Lock()
	prev = s.clone(s.snapshot.State)
	reduced := s.reduce(s.clone(s.snapshot.State), action)
	changed := s.equal == nil || !s.equal(prev, reduced)
	if changed {
		s.snapshot.State = reduced
		s.snapshot.Revision++
		s.snapshot.LastUpdated = time.Now()
	}
	next = s.clone(s.snapshot.State)
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return prev, next
}

// Snapshot returns a copy of the current state and its bookkeeping.
func (s *Store[S, A]) Snapshot() Snapshot[S] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.State = s.clone(s.snapshot.State)
	return snap
}

// State is shorthand for Snapshot().State.
func (s *Store[S, A]) State() S {
	return s.Snapshot().State
}

// Updates delivers a signal after state changes. Signals coalesce: a reader
// that falls behind sees one pending signal, then reads the latest Snapshot.
func (s *Store[S, A]) Updates() <-chan struct{} {
	return s.updates
}

func (s *Store[S, A]) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
