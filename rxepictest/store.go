// Package rxepictest contains a state container fixture
// for tests that exercise a Middleware end to end.
package rxepictest

import (
	"maps"
	"sync"

	"github.com/gordian-engine/rxepic"
	"github.com/gordian-engine/rxepic/rxpatch"
)

// State is the state type managed by [Store].
type State = map[string]any

// Store is a minimal state container.
// Every call to [*Store.Update] derives a new state,
// diffs it against the previous one with [rxpatch.Diff],
// and reports the transition to the attached handler.
//
// Updates are serialized, but the handler is called without the lock held,
// so epics may update the store re-entrantly.
type Store struct {
	mu      sync.Mutex
	state   State
	handler rxepic.TransitionHandler[State]

	// Number of updates applied.
	updates int
}

// NewStore returns a Store holding a shallow copy of initial.
func NewStore(initial State) *Store {
	return &Store{state: maps.Clone(initial)}
}

// Attach attaches mw to s, the way a host container would.
func Attach[D any](s *Store, mw *rxepic.Middleware[State, D]) error {
	h, err := mw.Attach(s)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
	return nil
}

// Update applies fn to a deep copy of the current state,
// then notifies the attached handler with the resulting patches.
func (s *Store) Update(fn func(State) State) {
	s.mu.Lock()
	prev := s.state
	next := fn(deepClone(prev))
	if next == nil {
		next = State{}
	}
	s.state = next
	s.updates++
	h := s.handler
	s.mu.Unlock()

	if h == nil {
		return
	}

	h(rxepic.Changeset{Patches: rxpatch.Diff(prev, next)}, deepClone(next))
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deepClone(s.state)
}

// Updates returns the number of updates applied so far.
func (s *Store) Updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// Notify reports a transition with no state change,
// which yields an empty changeset.
func (s *Store) Notify() {
	s.mu.Lock()
	h := s.handler
	cur := deepClone(s.state)
	s.mu.Unlock()

	if h != nil {
		h(rxepic.Changeset{}, cur)
	}
}

func deepClone(m State) State {
	if m == nil {
		return nil
	}

	out := make(State, len(m))
	for k, v := range m {
		if child, ok := v.(map[string]any); ok {
			v = deepClone(child)
		}
		out[k] = v
	}
	return out
}
