package backend

import (
	"context"
	"errors"

	"github.com/jonwraymond/toolfoundation/model"
)

// Common errors for capability-provider operations.
var (
	ErrBackendNotFound    = errors.New("backend not found")
	ErrBackendDisabled    = errors.New("backend disabled")
	ErrToolNotFound       = errors.New("tool not found in backend")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Backend is a source of agent tools.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods must honor cancellation/deadlines.
// - Errors: use ErrBackendDisabled/ErrToolNotFound/ErrBackendUnavailable
//   where applicable so callers can classify failures.
type Backend interface {
	// Kind returns the provider type (e.g. "local", "mcp").
	Kind() string

	// Name returns the unique instance name; it doubles as the tool
	// namespace.
	Name() string

	// Enabled reports whether this provider currently serves tools.
	Enabled() bool

	// ListTools returns all tools available from this provider.
	ListTools(ctx context.Context) ([]model.Tool, error)

	// Execute invokes a tool on this provider with the given arguments.
	Execute(ctx context.Context, tool string, args map[string]any) (any, error)

	// Start initializes the provider (connect to a server, open state).
	Start(ctx context.Context) error

	// Stop gracefully shuts the provider down.
	Stop() error
}

// Factory creates provider instances by name.
type Factory func(name string) (Backend, error)

// Info is a point-in-time description of a provider, suitable for
// member-information and debugging surfaces.
type Info struct {
	Kind      string   `json:"kind"`
	Name      string   `json:"name"`
	Enabled   bool     `json:"enabled"`
	ToolCount int      `json:"toolCount"`
	Tools     []string `json:"tools,omitempty"`
}

// Describe builds an Info snapshot for a provider. Tool listing failures
// leave the tool fields zero; the snapshot is best-effort.
func Describe(ctx context.Context, b Backend) Info {
	info := Info{
		Kind:    b.Kind(),
		Name:    b.Name(),
		Enabled: b.Enabled(),
	}
	tools, err := b.ListTools(ctx)
	if err != nil {
		return info
	}
	info.ToolCount = len(tools)
	for _, t := range tools {
		info.Tools = append(info.Tools, t.Name)
	}
	return info
}
