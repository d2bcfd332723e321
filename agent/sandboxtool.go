package agent

import (
	"context"
	"fmt"
	"time"

	provider "github.com/rjhall/agentrt/backend/local"
	"github.com/rjhall/agentrt/sandbox"
)

// SandboxBackendName is the namespace of the sandbox provider.
const SandboxBackendName = "sandbox"

// sandboxProvider exposes the code executor as a run_code tool.
func sandboxProvider(executor *sandbox.Executor) *provider.Backend {
	return provider.New(SandboxBackendName, provider.ToolDef{
		Name:        "run_code",
		Title:       "Run Code",
		Description: "Execute a code snippet in the sandbox and return its result and output.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"code":       map[string]any{"type": "string"},
				"language":   map[string]any{"type": "string"},
				"timeout_ms": map[string]any{"type": "integer"},
			},
			"required": []any{"code"},
		},
		Tags:    []string{"sandbox", "code"},
		Handler: runCodeHandler(executor),
	})
}

func runCodeHandler(executor *sandbox.Executor) provider.HandlerFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		code, _ := args["code"].(string)
		if code == "" {
			return nil, fmt.Errorf("code is required")
		}
		params := sandbox.Params{Code: code}
		if lang, ok := args["language"].(string); ok {
			params.Language = lang
		}
		if ms, ok := args["timeout_ms"].(float64); ok && ms > 0 {
			params.Timeout = time.Duration(ms) * time.Millisecond
		}

		outcome, err := executor.Run(ctx, params)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"value":       outcome.Value,
			"stdout":      outcome.Stdout,
			"stderr":      outcome.Stderr,
			"duration_ms": outcome.DurationMs,
		}, nil
	}
}
