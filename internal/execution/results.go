package execution

import (
	"sync"

	"simple/internal/domain"
)

// Results stores the outcome of every executed unit keyed by its properties.
// Storing a key twice keeps the last result.
type Results struct {
	mu    sync.RWMutex
	byKey map[domain.Properties]domain.TestResult
	order []domain.Properties
}

// NewResults creates an empty store
func NewResults() *Results {
	return &Results{byKey: make(map[domain.Properties]domain.TestResult)}
}

// Store records a result
func (r *Results) Store(result domain.TestResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[result.Properties]; !ok {
		r.order = append(r.order, result.Properties)
	}
	r.byKey[result.Properties] = result
}

// Get returns the result for props
func (r *Results) Get(props domain.Properties) (domain.TestResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.byKey[props]
	return result, ok
}

// Len returns the number of distinct executed units
func (r *Results) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}

// All returns the results in the order their keys were first stored
func (r *Results) All() []domain.TestResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TestResult, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}
