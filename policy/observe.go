package policy

// OutputPolicy configures structured output generation.
type OutputPolicy struct {
	// Enabled requires responses to conform to a caller-supplied schema.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// UseJSONMode forces JSON mode on models that support it.
	UseJSONMode bool `yaml:"useJsonMode" json:"useJsonMode"`

	// StrictValidation rejects output that does not match the schema.
	StrictValidation bool `yaml:"strictValidation" json:"strictValidation"`
}

// DefaultOutputPolicy returns the standard (disabled) output configuration.
func DefaultOutputPolicy() OutputPolicy {
	return OutputPolicy{
		Enabled:          false,
		UseJSONMode:      true,
		StrictValidation: true,
	}
}

// Validate checks the policy. OutputPolicy has no invalid states.
func (p OutputPolicy) Validate() error {
	return nil
}

// ObservabilityPolicy configures tool-call hooks, logging, and metrics.
type ObservabilityPolicy struct {
	// Enabled turns observability on.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// EnableToolHooks wraps tool dispatch with the hook chain.
	EnableToolHooks bool `yaml:"enableToolHooks" json:"enableToolHooks"`

	// LogToolCalls logs every tool invocation.
	LogToolCalls bool `yaml:"logToolCalls" json:"logToolCalls"`

	// LogToolResults additionally logs (truncated) tool results.
	LogToolResults bool `yaml:"logToolResults" json:"logToolResults"`

	// CollectMetrics records per-tool timing and failure counts.
	CollectMetrics bool `yaml:"collectMetrics" json:"collectMetrics"`

	// DebugMode enables verbose output.
	DebugMode bool `yaml:"debugMode" json:"debugMode"`
}

// DefaultObservabilityPolicy returns the standard observability
// configuration.
func DefaultObservabilityPolicy() ObservabilityPolicy {
	return ObservabilityPolicy{
		Enabled:         true,
		EnableToolHooks: true,
		LogToolCalls:    true,
	}
}

// Validate checks the policy. ObservabilityPolicy has no invalid states.
func (p ObservabilityPolicy) Validate() error {
	return nil
}
