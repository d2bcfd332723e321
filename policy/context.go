package policy

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultHistoryRuns is the number of prior runs carried into context.
const DefaultHistoryRuns = 3

// ContextPolicy controls conversation context and history handling.
type ContextPolicy struct {
	// EnableUserMemories keeps long-lived per-user memories.
	EnableUserMemories bool `yaml:"enableUserMemories" json:"enableUserMemories"`

	// EnableSessionSummaries keeps rolling per-session summaries.
	EnableSessionSummaries bool `yaml:"enableSessionSummaries" json:"enableSessionSummaries"`

	// AddHistoryToContext includes prior frames in the model context.
	AddHistoryToContext bool `yaml:"addHistoryToContext" json:"addHistoryToContext"`

	// NumHistoryRuns is how many prior runs are included. Must not be
	// negative.
	NumHistoryRuns int `yaml:"numHistoryRuns" json:"numHistoryRuns"`
}

// DefaultContextPolicy returns the standard context configuration.
func DefaultContextPolicy() ContextPolicy {
	return ContextPolicy{
		EnableUserMemories:     true,
		EnableSessionSummaries: true,
		AddHistoryToContext:    true,
		NumHistoryRuns:         DefaultHistoryRuns,
	}
}

// Validate checks the policy. Failures wrap ErrConfiguration.
func (p ContextPolicy) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.NumHistoryRuns, validation.Min(0)),
	)
	return wrapConfig("context", err)
}
