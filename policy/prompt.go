package policy

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Template names a base system prompt template.
type Template string

// Built-in prompt templates.
const (
	TemplateDefault   Template = "default"
	TemplateCodeact   Template = "codeact"
	TemplateResearch  Template = "research"
	TemplateAssistant Template = "assistant"
	TemplateCustom    Template = "custom"
)

// Tone selects the response register for the assistant template.
type Tone string

// Supported tones.
const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneTechnical    Tone = "technical"
	ToneConcise      Tone = "concise"
)

// PromptPolicy configures system prompt construction.
type PromptPolicy struct {
	// Template is the base template to use.
	Template Template `yaml:"template" json:"template"`

	// CustomTemplate is the full prompt text when Template is "custom".
	CustomTemplate string `yaml:"customTemplate,omitempty" json:"customTemplate,omitempty"`

	// AddDatetime appends the current datetime to the prompt context.
	AddDatetime bool `yaml:"addDatetime" json:"addDatetime"`

	// AddToolDescriptions includes registered tool descriptions.
	AddToolDescriptions bool `yaml:"addToolDescriptions" json:"addToolDescriptions"`

	// AddKnowledgeContext includes the knowledge base section when
	// knowledge retrieval is enabled.
	AddKnowledgeContext bool `yaml:"addKnowledgeContext" json:"addKnowledgeContext"`

	// Persona is an optional role description rendered into the prompt.
	Persona string `yaml:"persona,omitempty" json:"persona,omitempty"`

	// Tone adjusts the assistant template register.
	Tone Tone `yaml:"tone" json:"tone"`
}

// DefaultPromptPolicy returns the standard prompt configuration.
func DefaultPromptPolicy() PromptPolicy {
	return PromptPolicy{
		Template:            TemplateDefault,
		AddDatetime:         true,
		AddToolDescriptions: true,
		AddKnowledgeContext: true,
		Tone:                ToneProfessional,
	}
}

// Validate checks the policy. A custom template requires CustomTemplate to
// be set. Failures wrap ErrConfiguration.
func (p PromptPolicy) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Template, validation.Required,
			validation.In(TemplateDefault, TemplateCodeact, TemplateResearch, TemplateAssistant, TemplateCustom)),
		validation.Field(&p.CustomTemplate,
			validation.Required.When(p.Template == TemplateCustom).
				Error("required when template is custom")),
		validation.Field(&p.Tone, validation.Required,
			validation.In(ToneProfessional, ToneFriendly, ToneTechnical, ToneConcise)),
	)
	return wrapConfig("prompt", err)
}
