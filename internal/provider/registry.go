package provider

import (
	"fmt"
	"sort"
	"sync"
)

// ProviderFactory creates a new provider instance
type ProviderFactory func(cfg *Config) (Provider, error)

// Registry manages available providers
type Registry struct {
	mu           sync.RWMutex
	factories    map[string]ProviderFactory
	descriptions map[string]string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories:    make(map[string]ProviderFactory),
		descriptions: make(map[string]string),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry
func Default() *Registry {
	return defaultRegistry
}

// Register adds a provider factory to the registry
func (r *Registry) Register(name, description string, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	r.descriptions[name] = description
}

// Get creates a provider instance by name
func (r *Registry) Get(name string, cfg *Config) (Provider, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("provider not found: %s", name)
	}

	return factory(cfg)
}

// List returns all registered provider names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the description registered for name
func (r *Registry) Describe(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.descriptions[name]
}

// IsRegistered checks if a provider is registered
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[name]
	return exists
}

// Register adds a provider factory to the default registry
func Register(name, description string, factory ProviderFactory) {
	defaultRegistry.Register(name, description, factory)
}
