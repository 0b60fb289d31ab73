package core

import (
	"slices"
	"sync"
)

// Registry maps component names to render functions.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]RenderFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]RenderFunc)}
}

// Register stores fn under name, replacing any earlier registration.
func (r *Registry) Register(name string, fn RenderFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = fn
}

// Lookup returns the render function registered under name.
func (r *Registry) Lookup(name string) (RenderFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.entries[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.entries)
}
