// Package local provides an in-process capability provider backed by
// registered handler functions. It is the provider used for the built-in
// tool sets (workspace files, git, reasoning, knowledge search).
package local

import (
	"context"
	"sort"
	"sync"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rjhall/agentrt/backend"
)

// HandlerFunc is the function signature for tool handlers.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// ToolDef defines a local tool with its handler and metadata.
type ToolDef struct {
	Name         string
	Title        string
	Description  string
	InputSchema  map[string]any
	OutputSchema map[string]any
	Tags         []string
	Handler      HandlerFunc
}

// Backend implements backend.Backend over a map of handler functions.
type Backend struct {
	name    string
	mu      sync.RWMutex
	enabled bool
	defs    map[string]ToolDef
}

// New creates a local provider with the given name and tool definitions.
func New(name string, defs ...ToolDef) *Backend {
	b := &Backend{
		name:    name,
		enabled: true,
		defs:    make(map[string]ToolDef, len(defs)),
	}
	for _, def := range defs {
		b.Register(def)
	}
	return b
}

// Kind returns "local".
func (b *Backend) Kind() string { return "local" }

// Name returns the provider instance name.
func (b *Backend) Name() string { return b.name }

// Enabled reports whether the provider serves tools.
func (b *Backend) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// SetEnabled enables or disables the provider.
func (b *Backend) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

// Register adds or replaces a tool definition.
func (b *Backend) Register(def ToolDef) {
	if def.Name == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.defs[def.Name] = def
}

// Unregister removes a tool definition.
func (b *Backend) Unregister(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.defs, name)
}

// ListTools returns the provider's tools, sorted by name for deterministic
// listings.
func (b *Backend) ListTools(_ context.Context) ([]model.Tool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Tool, 0, len(b.defs))
	for _, def := range b.defs {
		out = append(out, model.Tool{
			Tool: mcp.Tool{
				Name:         def.Name,
				Title:        def.Title,
				Description:  def.Description,
				InputSchema:  def.InputSchema,
				OutputSchema: def.OutputSchema,
			},
			Namespace: b.name,
			Tags:      model.NormalizeTags(def.Tags),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Execute invokes a tool handler.
func (b *Backend) Execute(ctx context.Context, tool string, args map[string]any) (any, error) {
	b.mu.RLock()
	enabled := b.enabled
	def, ok := b.defs[tool]
	b.mu.RUnlock()

	if !enabled {
		return nil, backend.ErrBackendDisabled
	}
	if !ok || def.Handler == nil {
		return nil, backend.ErrToolNotFound
	}
	return def.Handler(ctx, args)
}

// Start is a no-op for local providers.
func (b *Backend) Start(_ context.Context) error { return nil }

// Stop is a no-op for local providers.
func (b *Backend) Stop() error { return nil }
