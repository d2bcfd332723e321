package policy

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SandboxProvider names an isolated code-execution provider.
type SandboxProvider string

const (
	// SandboxLocal executes code in a local subprocess. Suitable for
	// development only; there is no isolation boundary.
	SandboxLocal SandboxProvider = "local"

	// SandboxRemote executes code through an external sandbox service.
	SandboxRemote SandboxProvider = "remote"
)

// Default sandbox limits.
const (
	DefaultSandboxIterations  = 6
	DefaultSandboxToolCalls   = 100
	DefaultSandboxAutoStopMin = 5
	DefaultSandboxFileSizeMB  = 10
)

// SandboxPolicy configures sandboxed code execution for the agent.
type SandboxPolicy struct {
	// Enabled turns the code execution capability on.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Provider selects the execution substrate.
	Provider SandboxProvider `yaml:"provider" json:"provider"`

	// MaxIterations bounds the run/fix/re-run loop. Must be >= 1.
	MaxIterations int `yaml:"maxIterations" json:"maxIterations"`

	// MaxToolCalls bounds tool invocations made from executed code.
	MaxToolCalls int `yaml:"maxToolCalls" json:"maxToolCalls"`

	// AutoStopMinutes stops an idle sandbox after this many minutes.
	// Range 1..60.
	AutoStopMinutes int `yaml:"autoStopMinutes" json:"autoStopMinutes"`

	// MaxFileSizeMB caps files written inside the sandbox. Range 1..100.
	MaxFileSizeMB int `yaml:"maxFileSizeMB" json:"maxFileSizeMB"`
}

// DefaultSandboxPolicy returns the standard sandbox configuration.
func DefaultSandboxPolicy() SandboxPolicy {
	return SandboxPolicy{
		Enabled:         true,
		Provider:        SandboxLocal,
		MaxIterations:   DefaultSandboxIterations,
		MaxToolCalls:    DefaultSandboxToolCalls,
		AutoStopMinutes: DefaultSandboxAutoStopMin,
		MaxFileSizeMB:   DefaultSandboxFileSizeMB,
	}
}

// Validate checks the policy. Failures wrap ErrConfiguration.
func (p SandboxPolicy) Validate() error {
	if !p.Enabled {
		return nil
	}
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Provider, validation.Required,
			validation.In(SandboxLocal, SandboxRemote)),
		validation.Field(&p.MaxIterations, validation.Required, validation.Min(1)),
		validation.Field(&p.MaxToolCalls, validation.Min(0)),
		validation.Field(&p.AutoStopMinutes, validation.Required, validation.Min(1), validation.Max(60)),
		validation.Field(&p.MaxFileSizeMB, validation.Required, validation.Min(1), validation.Max(100)),
	)
	return wrapConfig("sandbox", err)
}
