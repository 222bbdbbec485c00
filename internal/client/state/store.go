// Package state implements the client-side state container: a single
// store holding the auth, catalog, and UI slices, mutated only through
// dispatched actions reduced by pure per-slice functions.
package state

import (
	"sync"
)

// Action is a state transition request. Each concrete action type is
// handled by exactly one slice reducer; unknown actions are ignored.
type Action interface {
	actionName() string
}

// State is the full client state tree.
type State struct {
	Auth    AuthState
	Catalog CatalogState
	UI      UIState
}

// Listener receives a snapshot of the state after every dispatch.
type Listener func(State)

// Store serializes dispatches and fans the resulting state out to
// subscribers. Reducers are pure; all mutation happens while holding
// the store lock, so listeners always observe consistent snapshots.
type Store struct {
	mu        sync.Mutex
	state     State
	nextSubID int
	listeners map[int]Listener
}

func NewStore() *Store {
	return &Store{
		state:     initialState(),
		listeners: make(map[int]Listener),
	}
}

func initialState() State {
	return State{
		Auth:    initialAuthState(),
		Catalog: initialCatalogState(),
		UI:      initialUIState(),
	}
}

// GetState returns a snapshot of the current state.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces the action into the state and notifies subscribers.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	s.state.Auth = reduceAuth(s.state.Auth, action)
	s.state.Catalog = reduceCatalog(s.state.Catalog, action)
	s.state.UI = reduceUI(s.state.UI, action)

	snapshot := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// NextFetchSeq allocates a sequence number for a catalog fetch. The
// catalog reducer discards fulfilled/rejected actions carrying a stale
// sequence, so a slow earlier response can never overwrite the result
// of a newer one.
func (s *Store) NextFetchSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Catalog.fetchSeq++
	return s.state.Catalog.fetchSeq
}
