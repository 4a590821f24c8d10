package market

import (
	"fmt"
	"sync"
)

// Registry manages all markets in a thread-safe manner, keyed by pool ID.
type Registry struct {
	mu      sync.RWMutex
	markets map[string]*Market
}

// NewRegistry creates an empty market registry.
func NewRegistry() *Registry {
	return &Registry{
		markets: make(map[string]*Market),
	}
}

// Register adds a new market to the registry.
// Returns error if a market with the same pool ID already exists.
func (r *Registry) Register(m *Market) error {
	if m == nil {
		return fmt.Errorf("cannot register nil market")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.markets[m.PoolID]; exists {
		return fmt.Errorf("market %s already registered", m.PoolID)
	}

	r.markets[m.PoolID] = m
	return nil
}

// Get retrieves a market by pool ID.
func (r *Registry) Get(poolID string) (*Market, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.markets[poolID]
	if !exists {
		return nil, fmt.Errorf("market %s not found", poolID)
	}
	return m, nil
}

// Replace swaps in an updated market. Used by the engine to install a
// mutated working copy after a successful operation.
func (r *Registry) Replace(m *Market) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.markets[m.PoolID]; !exists {
		return fmt.Errorf("market %s not found", m.PoolID)
	}
	r.markets[m.PoolID] = m
	return nil
}

// List returns all registered markets.
// Returns a copy of the slice to avoid concurrent modification.
func (r *Registry) List() []*Market {
	r.mu.RLock()
	defer r.mu.RUnlock()

	markets := make([]*Market, 0, len(r.markets))
	for _, m := range r.markets {
		markets = append(markets, m)
	}
	return markets
}

// Count returns the total number of registered markets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.markets)
}

// Exists checks if a market is registered.
func (r *Registry) Exists(poolID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.markets[poolID]
	return exists
}
