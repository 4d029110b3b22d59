// Package workflow provides workflow registration and management.
package workflow

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages workflow handlers for different migration targets.
type Registry struct {
	handlers map[string]Handler
	mu       sync.RWMutex
}

// NewRegistry creates a new workflow registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register registers a workflow handler under its target platform.
func (r *Registry) Register(handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := handler.TargetPlatform()
	if _, exists := r.handlers[key]; exists {
		return fmt.Errorf("workflow handler for %s already registered", key)
	}

	r.handlers[key] = handler
	return nil
}

// Get retrieves the workflow handler for the given target platform.
func (r *Registry) Get(targetPlatform string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.handlers[targetPlatform]
	if !exists {
		return nil, fmt.Errorf("no workflow handler registered for %s", targetPlatform)
	}

	return handler, nil
}

// List returns all registered workflow handlers ordered by target platform.
func (r *Registry) List() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handlers := make([]Handler, 0, len(r.handlers))
	for _, handler := range r.handlers {
		handlers = append(handlers, handler)
	}
	sort.Slice(handlers, func(i, j int) bool {
		return handlers[i].TargetPlatform() < handlers[j].TargetPlatform()
	})
	return handlers
}
