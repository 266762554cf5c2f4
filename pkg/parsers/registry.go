package parsers

import (
	"fmt"
	"sort"
	"sync"
)

type entry struct {
	ctor Constructor
	// positional decoders get byte offset and record index attached
	// to their errors; text formats report line context themselves.
	positional bool
}

// Registry maps parser names to decoder constructors. Safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a decoder constructor under name, replacing any
// previous registration.
func (r *Registry) Register(name string, ctor Constructor, positional bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = entry{ctor: ctor, positional: positional}
}

// Get returns a fresh decoder for name.
func (r *Registry) Get(name string) (Decoder, bool, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false, fmt.Errorf("no decoder registered for %q", name)
	}
	return e.ctor(), e.positional, nil
}

// Names returns the registered parser names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in decoders; each decoder file
// registers itself in an init function.
var DefaultRegistry = NewRegistry()

// Register adds a constructor to the default registry.
func Register(name string, ctor Constructor, positional bool) {
	DefaultRegistry.Register(name, ctor, positional)
}

// Get returns a fresh decoder from the default registry.
func Get(name string) (Decoder, bool, error) {
	return DefaultRegistry.Get(name)
}

// Names lists the default registry.
func Names() []string {
	return DefaultRegistry.Names()
}
