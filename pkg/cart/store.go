package cart

import (
	"encoding/json"
	"sync"
)

// PersistenceAdapter stores the serialized cart between sessions. Any
// client-side storage (local file, browser storage bridge, key-value
// cache) satisfies the interface.
type PersistenceAdapter interface {
	// Load returns the stored cart payload, or nil when none exists
	Load() ([]byte, error)
	// Save stores the cart payload
	Save(data []byte) error
	// Clear removes the stored payload
	Clear() error
}

// Store holds the current cart state and writes every change through
// the persistence adapter. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	state   State
	adapter PersistenceAdapter
}

// NewStore creates a store backed by the given adapter. A previously
// persisted cart is restored; corrupt or missing payloads start empty.
func NewStore(adapter PersistenceAdapter) *Store {
	s := &Store{adapter: adapter, state: Empty()}
	if adapter == nil {
		return s
	}

	data, err := adapter.Load()
	if err != nil || len(data) == 0 {
		return s
	}

	var restored State
	if err := json.Unmarshal(data, &restored); err == nil {
		s.state = restored
	}
	return s
}

// State returns the current cart contents
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Totals returns the estimated cost breakdown for the current cart
func (s *Store) Totals() Totals {
	return ComputeTotals(s.State())
}

// Dispatch applies a reducer to the current state and persists the
// result
func (s *Store) Dispatch(reduce func(State) State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = reduce(s.state)
	return s.persistLocked()
}

// Add merges a line into the cart
func (s *Store) Add(line Line) error {
	return s.Dispatch(func(state State) State {
		return Add(state, line)
	})
}

// persistLocked writes the current state through the adapter. Callers
// must hold the write lock.
func (s *Store) persistLocked() error {
	if s.adapter == nil {
		return nil
	}

	if s.state.IsEmpty() {
		return s.adapter.Clear()
	}

	data, err := json.Marshal(s.state)
	if err != nil {
		return err
	}
	return s.adapter.Save(data)
}

// InMemoryAdapter keeps the cart payload in process memory. Useful for
// tests and short-lived sessions.
type InMemoryAdapter struct {
	mu   sync.Mutex
	data []byte
}

// NewInMemoryAdapter creates an empty in-memory adapter
func NewInMemoryAdapter() *InMemoryAdapter {
	return &InMemoryAdapter{}
}

// Load returns the stored payload
func (a *InMemoryAdapter) Load() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.data, nil
}

// Save stores the payload
func (a *InMemoryAdapter) Save(data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data = append([]byte(nil), data...)
	return nil
}

// Clear removes the stored payload
func (a *InMemoryAdapter) Clear() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data = nil
	return nil
}
