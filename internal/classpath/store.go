package classpath

import (
	"reflect"

	"github.com/five82/jconf/internal/state"
)

// Store holds the classpath panel state.
type Store = state.Store[State, Action]

// NewStore returns a store seeded with initial. Dispatches that leave the
// state unchanged do not notify readers.
func NewStore(initial State) *Store {
	return state.New(initial, Reduce, State.Clone,
		state.WithEqual[State, Action](func(a, b State) bool { return reflect.DeepEqual(a, b) }))
}
