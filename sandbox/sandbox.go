package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rjhall/agentrt/policy"
)

// Sentinel errors for error classification.
var (
	// ErrConfiguration indicates an invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrExecution indicates a failure while running the code itself.
	ErrExecution = errors.New("code execution error")

	// ErrLimitExceeded indicates an execution limit was reached, such as
	// the timeout or the tool call budget.
	ErrLimitExceeded = errors.New("limit exceeded")
)

// Params specifies one code execution.
type Params struct {
	// Language is the language of the snippet.
	Language string `json:"language"`

	// Code is the source to execute.
	Code string `json:"code"`

	// Timeout bounds the execution. Zero uses the executor default.
	Timeout time.Duration `json:"timeout,omitempty"`

	// Env holds extra environment variables for the run.
	Env map[string]string `json:"env,omitempty"`
}

// ToolCallRecord captures one tool invocation made during execution, for
// observability and debugging.
type ToolCallRecord struct {
	ToolID     string         `json:"toolId"`
	Args       map[string]any `json:"args,omitempty"`
	Result     any            `json:"result,omitempty"`
	Error      string         `json:"error,omitempty"`
	DurationMs int64          `json:"durationMs"`
}

// Outcome is the result of one code execution.
type Outcome struct {
	// Value is the final result, from the __out convention when present.
	Value any `json:"value,omitempty"`

	// Stdout holds captured standard output.
	Stdout string `json:"stdout,omitempty"`

	// Stderr holds captured error output.
	Stderr string `json:"stderr,omitempty"`

	// ExitCode is the process or service exit status.
	ExitCode int `json:"exitCode"`

	// ToolCalls records tool invocations made during execution.
	ToolCalls []ToolCallRecord `json:"toolCalls,omitempty"`

	// DurationMs is the total execution time in milliseconds.
	DurationMs int64 `json:"durationMs"`
}

// Engine runs code snippets.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return ctx.Err() when
//   canceled.
// - Errors: execution failures wrap ErrExecution; callers use errors.Is.
// - Ownership: params are read-only; the returned Outcome is caller-owned.
type Engine interface {
	// Run executes one code snippet.
	Run(ctx context.Context, params Params) (Outcome, error)

	// Kind identifies the engine ("subproc", "remote").
	Kind() string
}

// Logger is an optional interface for execution observability.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort; Logf should not panic.
type Logger interface {
	Logf(format string, args ...any)
}

// Config holds the configuration for an Executor.
type Config struct {
	// Engine runs the code. Required.
	Engine Engine

	// Policy supplies the execution limits.
	Policy policy.SandboxPolicy

	// DefaultTimeout applies when Params.Timeout is zero.
	DefaultTimeout time.Duration

	// DefaultLanguage applies when Params.Language is empty.
	DefaultLanguage string

	// Logger is an optional logger.
	Logger Logger
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	if c.Engine == nil {
		return fmt.Errorf("%w: missing required field: Engine", ErrConfiguration)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "python"
	}
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = 60 * time.Second
	}
}

// Executor runs code snippets through an Engine with policy limits
// enforced.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Context: honors cancellation/deadlines; deadline exceeded is wrapped
//   with ErrLimitExceeded.
type Executor struct {
	cfg Config
}

// NewExecutor creates an Executor. Returns ErrConfiguration when required
// fields are missing.
func NewExecutor(cfg Config) (*Executor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &Executor{cfg: cfg}, nil
}

// Run executes one code snippet with limits applied.
func (e *Executor) Run(ctx context.Context, params Params) (Outcome, error) {
	if params.Language == "" {
		params.Language = e.cfg.DefaultLanguage
	}
	if params.Timeout == 0 {
		params.Timeout = e.cfg.DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, params.Timeout)
	defer cancel()

	start := time.Now()
	outcome, err := e.cfg.Engine.Run(runCtx, params)
	duration := time.Since(start).Milliseconds()
	if outcome.DurationMs == 0 {
		outcome.DurationMs = duration
	}

	if max := e.cfg.Policy.MaxToolCalls; max > 0 && len(outcome.ToolCalls) > max {
		outcome.ToolCalls = outcome.ToolCalls[:max]
		if err == nil {
			err = fmt.Errorf("%w: tool call budget (%d)", ErrLimitExceeded, max)
		}
	}

	if e.cfg.Logger != nil {
		e.cfg.Logger.Logf("sandbox run: engine=%s lang=%s calls=%d duration=%dms",
			e.cfg.Engine.Kind(), params.Language, len(outcome.ToolCalls), duration)
	}

	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return outcome, fmt.Errorf("%w: timeout after %v", ErrLimitExceeded, params.Timeout)
	}
	return outcome, err
}

// MaxIterations reports the policy's run/fix/re-run budget.
func (e *Executor) MaxIterations() int {
	if n := e.cfg.Policy.MaxIterations; n > 0 {
		return n
	}
	return policy.DefaultSandboxIterations
}
