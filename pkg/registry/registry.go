package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hsmkit/hsm/pkg/domain"
)

// Registry manages named handlers so that declarative machine definitions
// (chart files) and network adapters can refer to Go functions by name.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]domain.Handler
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]domain.Handler),
	}
}

// Register adds a handler under name. If the name exists, it is overwritten.
func (r *Registry) Register(name string, h domain.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Get looks up a handler by name.
func (r *Registry) Get(name string) (domain.Handler, error) {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("handler not found: %s", name)
	}
	return h, nil
}

// Names returns the registered handler names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
