package discovery

import (
	"path/filepath"
	"sync"

	"simple/internal/domain"
)

// Registry resolves files to Go test classes registered for them. Paths are
// relative to the test root and slash separated.
type Registry struct {
	mu   sync.RWMutex
	defs map[string][]domain.Definition
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string][]domain.Definition)}
}

// Register binds definitions to a file path
func (r *Registry) Register(path string, defs ...domain.Definition) {
	key := filepath.ToSlash(filepath.Clean(path))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[key] = append(r.defs[key], defs...)
}

// Len returns the number of registered paths
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// Resolve returns the definitions registered for path
func (r *Registry) Resolve(root, path string) ([]domain.Definition, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := r.defs[filepath.ToSlash(rel)]
	if len(defs) == 0 {
		return nil, nil
	}
	out := make([]domain.Definition, len(defs))
	copy(out, defs)
	return out, nil
}

var defaultRegistry = NewRegistry()

// Register binds definitions to a path in the process-wide registry,
// typically from an init function
func Register(path string, defs ...domain.Definition) {
	defaultRegistry.Register(path, defs...)
}

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// ChainResolver asks each resolver in turn; the first one that finds
// definitions wins
type ChainResolver []Resolver

// Resolve implements Resolver
func (c ChainResolver) Resolve(root, path string) ([]domain.Definition, error) {
	for _, r := range c {
		defs, err := r.Resolve(root, path)
		if err != nil {
			return nil, err
		}
		if len(defs) > 0 {
			return defs, nil
		}
	}
	return nil, nil
}
