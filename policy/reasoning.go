package policy

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ReasoningMode selects the reasoning capability variant.
type ReasoningMode string

const (
	// ReasoningBasic enables simple chain-of-thought.
	ReasoningBasic ReasoningMode = "basic"

	// ReasoningExtended enables deep multi-step thinking.
	ReasoningExtended ReasoningMode = "extended"

	// ReasoningTools exposes explicit think/analyze tools to the agent.
	ReasoningTools ReasoningMode = "tools"
)

// ReasoningPolicy configures chain-of-thought support.
type ReasoningPolicy struct {
	// Enabled turns reasoning support on.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Mode selects the reasoning variant.
	Mode ReasoningMode `yaml:"mode" json:"mode"`

	// ShowFullReasoning includes the complete reasoning chain in output.
	ShowFullReasoning bool `yaml:"showFullReasoning" json:"showFullReasoning"`

	// AddInstructions adds usage guidance for the reasoning tools.
	AddInstructions bool `yaml:"addInstructions" json:"addInstructions"`
}

// DefaultReasoningPolicy returns the standard (disabled) reasoning
// configuration.
func DefaultReasoningPolicy() ReasoningPolicy {
	return ReasoningPolicy{
		Enabled:         false,
		Mode:            ReasoningBasic,
		AddInstructions: true,
	}
}

// Validate checks the policy. Failures wrap ErrConfiguration.
func (p ReasoningPolicy) Validate() error {
	if !p.Enabled {
		return nil
	}
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Mode, validation.Required,
			validation.In(ReasoningBasic, ReasoningExtended, ReasoningTools)),
	)
	return wrapConfig("reasoning", err)
}
