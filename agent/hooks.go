package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rjhall/agentrt/policy"
	"github.com/rjhall/agentrt/toolrun"
)

// ToolCall describes one tool invocation passing through the hook chain.
type ToolCall struct {
	// ToolID is the namespace-qualified tool identifier.
	ToolID string

	// Args are the invocation arguments. Hooks must treat them as
	// read-only.
	Args map[string]any
}

// Hook observes tool dispatch. Hooks run synchronously around every
// RunTool call, in registration order.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: hooks are observers; they cannot veto or alter a call and
//     must not panic.
type Hook interface {
	BeforeToolCall(ctx context.Context, call ToolCall)
	AfterToolCall(ctx context.Context, call ToolCall, result toolrun.Result, err error, elapsed time.Duration)
}

// LoggingHook logs tool calls through the agent logger.
type LoggingHook struct {
	logger     Logger
	logResults bool
}

// NewLoggingHook creates a hook logging each call, and each result when
// logResults is set.
func NewLoggingHook(logger Logger, logResults bool) *LoggingHook {
	return &LoggingHook{logger: logger, logResults: logResults}
}

// BeforeToolCall implements Hook.
func (h *LoggingHook) BeforeToolCall(_ context.Context, call ToolCall) {
	h.logger.Info("tool call", "tool", call.ToolID)
}

// AfterToolCall implements Hook.
func (h *LoggingHook) AfterToolCall(_ context.Context, call ToolCall, result toolrun.Result, err error, elapsed time.Duration) {
	switch {
	case err != nil:
		h.logger.Error("tool call failed", "tool", call.ToolID, "elapsed", elapsed, "error", err)
	case !result.Success:
		h.logger.Warn("tool call failed", "tool", call.ToolID, "elapsed", elapsed, "reason", result.Error)
	case h.logResults:
		h.logger.Info("tool call done", "tool", call.ToolID, "elapsed", elapsed, "result", previewResult(result.Data))
	default:
		h.logger.Info("tool call done", "tool", call.ToolID, "elapsed", elapsed)
	}
}

// previewResult renders a result value for logging, capped so large tool
// outputs do not flood the log.
func previewResult(v any) string {
	const maxPreview = 200
	s := fmt.Sprintf("%v", v)
	if len(s) > maxPreview {
		return s[:maxPreview] + "..."
	}
	return s
}

// ToolMetrics aggregates timing and failure counts for one tool.
type ToolMetrics struct {
	Calls    int64
	Failures int64
	Elapsed  time.Duration
}

// MetricsHook collects per-tool call metrics in memory.
type MetricsHook struct {
	mu      sync.Mutex
	perTool map[string]ToolMetrics
}

// NewMetricsHook creates an empty metrics collector.
func NewMetricsHook() *MetricsHook {
	return &MetricsHook{perTool: make(map[string]ToolMetrics)}
}

// BeforeToolCall implements Hook.
func (h *MetricsHook) BeforeToolCall(context.Context, ToolCall) {}

// AfterToolCall implements Hook.
func (h *MetricsHook) AfterToolCall(_ context.Context, call ToolCall, result toolrun.Result, err error, elapsed time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.perTool[call.ToolID]
	m.Calls++
	if err != nil || !result.Success {
		m.Failures++
	}
	m.Elapsed += elapsed
	h.perTool[call.ToolID] = m
}

// Snapshot returns a copy of the collected metrics keyed by tool ID.
func (h *MetricsHook) Snapshot() map[string]ToolMetrics {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]ToolMetrics, len(h.perTool))
	for k, v := range h.perTool {
		out[k] = v
	}
	return out
}

// hooksFromPolicy builds the hook chain an observability policy asks for.
// The returned metrics hook is nil unless metrics collection is enabled.
func hooksFromPolicy(p policy.ObservabilityPolicy, logger Logger) ([]Hook, *MetricsHook) {
	if !p.Enabled || !p.EnableToolHooks {
		return nil, nil
	}
	var hooks []Hook
	if p.LogToolCalls {
		hooks = append(hooks, NewLoggingHook(logger, p.LogToolResults))
	}
	var metrics *MetricsHook
	if p.CollectMetrics {
		metrics = NewMetricsHook()
		hooks = append(hooks, metrics)
	}
	return hooks, metrics
}
