package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/toolfoundation/model"
)

// ErrInvalidToolID is returned for malformed tool IDs.
var ErrInvalidToolID = errors.New("invalid tool ID format")

// Aggregator combines and dispatches tools from every registered provider.
type Aggregator struct {
	registry *Registry
}

// NewAggregator creates an aggregator over the given registry.
func NewAggregator(registry *Registry) *Aggregator {
	return &Aggregator{registry: registry}
}

// ListAllTools returns the tools of every enabled provider, with each
// tool's namespace defaulted to its provider name.
func (a *Aggregator) ListAllTools(ctx context.Context) ([]model.Tool, error) {
	backends := a.registry.ListEnabled()
	all := make([]model.Tool, 0)

	for _, b := range backends {
		tools, err := b.ListTools(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tools from %s: %w", b.Name(), err)
		}
		for i := range tools {
			if tools[i].Namespace == "" {
				tools[i].Namespace = b.Name()
			}
			all = append(all, tools[i])
		}
	}
	return all, nil
}

// Execute dispatches a namespace-qualified tool ID to its provider.
func (a *Aggregator) Execute(ctx context.Context, toolID string, args map[string]any) (any, error) {
	namespace, tool, err := ParseToolID(toolID)
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		return nil, ErrInvalidToolID
	}

	b, ok := a.registry.Get(namespace)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendNotFound, namespace)
	}
	if !b.Enabled() {
		return nil, fmt.Errorf("%w: %s", ErrBackendDisabled, namespace)
	}
	return b.Execute(ctx, tool, args)
}

// IndexTools publishes every enabled provider's tools into a discovery
// index, making them searchable by ID, description, and tags.
func (a *Aggregator) IndexTools(ctx context.Context, idx index.Index) error {
	tools, err := a.ListAllTools(ctx)
	if err != nil {
		return err
	}
	for _, t := range tools {
		handlerID := FormatToolID(t.Namespace, t.Name)
		if err := idx.RegisterTool(t, model.NewLocalBackend(handlerID)); err != nil {
			return fmt.Errorf("index %s: %w", handlerID, err)
		}
	}
	return nil
}

// ParseToolID splits a tool ID into provider namespace and tool name.
func ParseToolID(id string) (namespace, tool string, err error) {
	namespace, tool, err = model.ParseToolID(id)
	if err != nil {
		return "", "", ErrInvalidToolID
	}
	return namespace, tool, nil
}

// FormatToolID builds a namespace-qualified tool ID.
func FormatToolID(namespace, tool string) string {
	if namespace == "" {
		return tool
	}
	return fmt.Sprintf("%s:%s", namespace, tool)
}
