package editor

import (
	"sync"
	"time"
)

// Listener is called with the new state after every dispatch that changed it.
type Listener func(State)

// EffectHandler receives the effects produced by a dispatch.
type EffectHandler func([]Effect)

// Store owns an editor State and serialises dispatches.
type Store struct {
	mu       sync.RWMutex
	state    State
	now      func() time.Time
	version  uint64
	nextID   int
	onChange map[int]Listener
	onEffect []EffectHandler
}

// NewStore creates a store holding initial.
func NewStore(initial State) *Store {
	return &Store{
		state:    initial,
		now:      time.Now,
		onChange: make(map[int]Listener),
	}
}

// SetClock replaces the time source used for history timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Version increments on every dispatch.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers a state listener and returns a function removing it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.onChange[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.onChange, id)
	}
}

// OnEffect registers an effect handler.
func (s *Store) OnEffect(h EffectHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEffect = append(s.onEffect, h)
}

// Dispatch reduces a into the state, notifies listeners and effect handlers
// outside the lock, and returns the effects.
func (s *Store) Dispatch(a Action) []Effect {
	s.mu.Lock()
	next, effects := ReduceAt(s.state, a, s.now())
	s.state = next
	s.version++
	listeners := make([]Listener, 0, len(s.onChange))
	for i := 0; i < s.nextID; i++ {
		if l, ok := s.onChange[i]; ok {
			listeners = append(listeners, l)
		}
	}
	handlers := s.onEffect
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	if len(effects) > 0 {
		for _, h := range handlers {
			h(effects)
		}
	}
	return effects
}
