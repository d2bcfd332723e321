package backend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrBackendExists is returned when registering a duplicate provider name.
var ErrBackendExists = errors.New("backend already registered")

// Registry manages the capability providers of one agent.
type Registry struct {
	mu        sync.RWMutex
	backends  map[string]Backend
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		backends:  make(map[string]Backend),
		factories: make(map[string]Factory),
	}
}

// RegisterFactory registers a factory for a provider kind. Empty kinds and
// nil factories are ignored.
func (r *Registry) RegisterFactory(kind string, factory Factory) {
	if kind == "" || factory == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
}

// Create instantiates and registers a provider of the given kind.
func (r *Registry) Create(kind, name string) (Backend, error) {
	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no factory for kind %q", ErrBackendNotFound, kind)
	}
	b, err := factory(name)
	if err != nil {
		return nil, err
	}
	if err := r.Register(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Register adds a provider to the registry.
func (r *Registry) Register(b Backend) error {
	if b == nil {
		return fmt.Errorf("backend is nil")
	}
	name := b.Name()
	if name == "" {
		return fmt.Errorf("backend name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.backends[name]; exists {
		return fmt.Errorf("%w: %s", ErrBackendExists, name)
	}
	r.backends[name] = b
	return nil
}

// Unregister stops and removes a provider.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, exists := r.backends[name]; exists {
		_ = b.Stop()
		delete(r.backends, name)
	}
}

// Get retrieves a provider by name.
func (r *Registry) Get(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// List returns all providers.
func (r *Registry) List() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Backend, 0, len(r.backends))
	for _, b := range r.backends {
		out = append(out, b)
	}
	return out
}

// ListEnabled returns enabled providers only.
func (r *Registry) ListEnabled() []Backend {
	all := r.List()
	out := make([]Backend, 0, len(all))
	for _, b := range all {
		if b.Enabled() {
			out = append(out, b)
		}
	}
	return out
}

// Names returns provider names sorted for deterministic output.
func (r *Registry) Names() []string {
	all := r.List()
	out := make([]string, 0, len(all))
	for _, b := range all {
		out = append(out, b.Name())
	}
	sort.Strings(out)
	return out
}

// DescribeAll returns Info snapshots for every provider, sorted by name.
func (r *Registry) DescribeAll(ctx context.Context) []Info {
	all := r.List()
	out := make([]Info, 0, len(all))
	for _, b := range all {
		out = append(out, Describe(ctx, b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// StartAll starts every enabled provider, stopping at the first failure.
func (r *Registry) StartAll(ctx context.Context) error {
	for _, b := range r.ListEnabled() {
		if err := b.Start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", b.Name(), err)
		}
	}
	return nil
}

// StopAll stops all providers, returning the first error encountered.
func (r *Registry) StopAll() error {
	var firstErr error
	for _, b := range r.List() {
		if err := b.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("stop %s: %w", b.Name(), err)
		}
	}
	return firstErr
}
