package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/praxisllmlab/dongchaLLM/internal/model"
)

// Factory constructs a Provider instance from a Spec.
type Factory func(spec Spec) (Provider, error)

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
)

// Register adds a provider factory to the global registry.
// Typically called from provider package init() functions.
// Registration is additive and idempotent: last registration for a name wins.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = f
}

// Create builds a provider by registry name.
func Create(name string, spec Spec) (Provider, error) {
	mu.RLock()
	f, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider %q: %w", name, model.ErrUnknownProvider)
	}
	return f(spec)
}

// List returns all registered provider kind names in sorted order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
