package state

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

type counter struct {
	N     int
	Names []string
}

type add struct {
	Name string
}

func reduceCounter(s counter, a add) counter {
	if a.Name == "" {
		return s
	}
	s.N++
	s.Names = append(s.Names, a.Name)
	return s
}

func cloneCounter(s counter) counter {
	s.Names = append([]string(nil), s.Names...)
	return s
}

func newCounterStore(opts ...Option[counter, add]) *Store[counter, add] {
	return New(counter{}, reduceCounter, cloneCounter, opts...)
}

func TestStore_DispatchAndSnapshotClone(t *testing.T) {
	s := newCounterStore()

	before := time.Now()
	prev, next := s.Dispatch(add{Name: "a"})
	if prev.N != 0 || next.N != 1 {
		t.Fatalf("Dispatch = (%d, %d), want (0, 1)", prev.N, next.N)
	}

	snap := s.Snapshot()
	if snap.Revision != 1 {
		t.Fatalf("Revision = %d, want 1", snap.Revision)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.State.Names[0] = "mutated"
	next.Names[0] = "mutated"
	if got := s.State().Names[0]; got != "a" {
		t.Fatalf("Snapshot should clone state; got %q want a", got)
	}
}

func TestStore_InitialStateIsCopied(t *testing.T) {
	initial := counter{Names: []string{"seed"}}
	s := New(initial, reduceCounter, cloneCounter)
	initial.Names[0] = "changed"
	if got := s.State().Names[0]; got != "seed" {
		t.Fatalf("store aliased initial state: got %q", got)
	}
}

func TestStore_NotifiesAndCoalesces(t *testing.T) {
	s := newCounterStore()

	s.Dispatch(add{Name: "a"})
	s.Dispatch(add{Name: "b"})

	select {
	case <-s.Updates():
	default:
		t.Fatal("expected a pending update signal")
	}
	select {
	case <-s.Updates():
		t.Fatal("signals should coalesce into one")
	default:
	}
	if got := s.State().N; got != 2 {
		t.Fatalf("N = %d, want 2", got)
	}
}

func TestStore_WithEqualSkipsNoops(t *testing.T) {
	s := newCounterStore(WithEqual[counter, add](func(a, b counter) bool { return reflect.DeepEqual(a, b) }))

	prev, next := s.Dispatch(add{})
	if !reflect.DeepEqual(prev, next) {
		t.Fatalf("no-op dispatch changed state: %#v -> %#v", prev, next)
	}
	if rev := s.Snapshot().Revision; rev != 0 {
		t.Fatalf("Revision = %d, want 0 after no-op", rev)
	}
	select {
	case <-s.Updates():
		t.Fatal("no-op dispatch should not notify")
	default:
	}
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := newCounterStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(add{Name: "x"})
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	if snap.State.N != 50 || len(snap.State.Names) != 50 {
		t.Fatalf("state = %d/%d, want 50/50", snap.State.N, len(snap.State.Names))
	}
	if snap.Revision != 50 {
		t.Fatalf("Revision = %d, want 50", snap.Revision)
	}
}
