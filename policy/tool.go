package policy

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrorStrategy selects how exhausted tool executions are reported.
type ErrorStrategy string

const (
	// ErrorStrategyStructured reports failures as a returned result
	// envelope; execution never propagates an error to the caller.
	ErrorStrategyStructured ErrorStrategy = "structured"

	// ErrorStrategyRaise propagates the final failure as an error; the
	// caller must handle it.
	ErrorStrategyRaise ErrorStrategy = "raise"
)

// Default tool execution limits.
const (
	DefaultToolTimeout    = 45 * time.Second
	DefaultMaxRetries     = 2
	DefaultMaxResultChars = 16_000
)

// ToolPolicy holds the limits governing one agent's tool-call behavior:
// per-attempt timeout, retry budget, result size cap, and error reporting
// mode. It is constructed once per agent spec and shared read-only across
// all tool invocations.
type ToolPolicy struct {
	// Timeout bounds each execution attempt. Must be positive.
	Timeout Duration `yaml:"timeout" json:"timeout"`

	// MaxRetries is the number of retries after the initial attempt.
	// Zero disables retrying. Must not be negative.
	MaxRetries int `yaml:"maxRetries" json:"maxRetries"`

	// MaxResultChars caps textual results; longer strings are truncated
	// with a marker suffix. Must be positive.
	MaxResultChars int `yaml:"maxResultChars" json:"maxResultChars"`

	// ErrorStrategy selects structured envelopes or propagated errors.
	ErrorStrategy ErrorStrategy `yaml:"errorStrategy" json:"errorStrategy"`
}

// DefaultToolPolicy returns the standard tool execution limits.
func DefaultToolPolicy() ToolPolicy {
	return ToolPolicy{
		Timeout:        Duration(DefaultToolTimeout),
		MaxRetries:     DefaultMaxRetries,
		MaxResultChars: DefaultMaxResultChars,
		ErrorStrategy:  ErrorStrategyStructured,
	}
}

// Validate checks the policy limits. Failures wrap ErrConfiguration.
func (p ToolPolicy) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Timeout, validation.Required, validation.Min(Duration(1))),
		validation.Field(&p.MaxRetries, validation.Min(0)),
		validation.Field(&p.MaxResultChars, validation.Required, validation.Min(1)),
		validation.Field(&p.ErrorStrategy, validation.Required,
			validation.In(ErrorStrategyStructured, ErrorStrategyRaise)),
	)
	return wrapConfig("tools", err)
}
