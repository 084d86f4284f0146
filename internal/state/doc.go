// Package state provides the thread-safe reducer store shared by the panels.
//
// # Overview
//
// Each panel keeps everything it displays in one state value. Inbound host
// messages and user intents are turned into actions, and a pure reducer
// folds each action into the next state. The Store serializes those
// dispatches and hands out copies to readers.
//
// # Architecture
//
//	Router listener:              UI program:
//	┌────────────────┐            ┌──────────────────┐
//	│ decode message │            │ key press        │
//	│      ↓         │            │      ↓           │
//	│ store.Dispatch │──(mutex)──→│ store.Dispatch   │
//	└────────────────┘            │ <-store.Updates()│
//	                              │ store.Snapshot() │
//	                              │      ↓           │
//	                              │ render           │
//	                              └──────────────────┘
//
// Both goroutines reach the state only through the Store, so a reader never
// sees a half-applied action.
//
// # Core Types
//
// Store:
//   - Generic over the state type S and action type A
//   - Holds a Reducer and a Cloner supplied by the owning panel
//   - Uses sync.RWMutex; Dispatch takes the write lock, Snapshot the read lock
//
// Snapshot:
//   - The state plus a revision counter and the time of the last change
//   - Returned by value with the state deep-copied through the Cloner
//
// # Change Notification
//
// Updates returns a channel with a buffer of one. A dispatch that changes
// the state performs a non-blocking send, so signals coalesce and a slow
// reader never stalls the router. Readers re-read Snapshot after each
// signal. Stores built WithEqual skip the signal and the revision bump when
// the reducer returned an equal state.
//
// # Usage Example
//
//	store := state.New(classpath.NewState(), classpath.Reduce, classpath.State.Clone)
//	prev, next := store.Dispatch(classpath.StartAdd{List: classpath.ListSources})
//	if next.SourceSession != nil && prev.SourceSession == nil {
//		// session opened
//	}
//
// # Testing Considerations
//
// Reducers are pure functions and are tested directly; Store tests only
// cover locking, copying and notification.
package state
