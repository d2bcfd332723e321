package policy

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Spec defaults.
const (
	SpecVersion    = "0.2.0"
	DefaultName    = "agent"
	DefaultModelID = "google/gemini-3-flash-preview"
	DefaultUserID  = "user"
)

// Spec is the complete specification for one agent runtime instance. It
// combines every policy into a single declarative object from which agents,
// teams, and workflows are assembled.
type Spec struct {
	// Version is the spec schema version.
	Version string `yaml:"version" json:"version"`

	// Name identifies the agent.
	Name string `yaml:"name" json:"name"`

	// Description is optional human-readable documentation.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// ModelID is the default model routed through the external framework.
	ModelID string `yaml:"modelId" json:"modelId"`

	// UserID scopes session state to a user.
	UserID string `yaml:"userId" json:"userId"`

	// SessionID identifies the conversation session. Generated when empty.
	SessionID string `yaml:"sessionId,omitempty" json:"sessionId,omitempty"`

	// Core policies.
	Context ContextPolicy `yaml:"context" json:"context"`
	Tools   ToolPolicy    `yaml:"tools" json:"tools"`
	Prompt  PromptPolicy  `yaml:"prompt" json:"prompt"`

	// Capability policies.
	Sandbox   SandboxPolicy   `yaml:"sandbox" json:"sandbox"`
	Coding    CodingPolicy    `yaml:"coding" json:"coding"`
	MCP       MCPPolicy       `yaml:"mcp" json:"mcp"`
	Knowledge KnowledgePolicy `yaml:"knowledge" json:"knowledge"`
	Reasoning ReasoningPolicy `yaml:"reasoning" json:"reasoning"`
	Output    OutputPolicy    `yaml:"output" json:"output"`

	// Multi-agent policies.
	Team     TeamPolicy     `yaml:"team" json:"team"`
	Workflow WorkflowPolicy `yaml:"workflow" json:"workflow"`

	// Observability.
	Observability ObservabilityPolicy `yaml:"observability" json:"observability"`
}

// DefaultSpec returns a spec with every policy at its default.
func DefaultSpec() Spec {
	return Spec{
		Version:       SpecVersion,
		Name:          DefaultName,
		ModelID:       DefaultModelID,
		UserID:        DefaultUserID,
		SessionID:     uuid.NewString(),
		Context:       DefaultContextPolicy(),
		Tools:         DefaultToolPolicy(),
		Prompt:        DefaultPromptPolicy(),
		Sandbox:       DefaultSandboxPolicy(),
		Coding:        CodingPolicy{},
		MCP:           DefaultMCPPolicy(),
		Knowledge:     DefaultKnowledgePolicy(),
		Reasoning:     DefaultReasoningPolicy(),
		Output:        DefaultOutputPolicy(),
		Team:          DefaultTeamPolicy(),
		Workflow:      DefaultWorkflowPolicy(),
		Observability: DefaultObservabilityPolicy(),
	}
}

// Validate checks the spec and every sub-policy. Failures wrap
// ErrConfiguration.
func (s Spec) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Version, validation.Required),
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.ModelID, validation.Required),
		validation.Field(&s.UserID, validation.Required),
	)
	if err != nil {
		return wrapConfig("spec", err)
	}
	for _, v := range []interface{ Validate() error }{
		s.Context, s.Tools, s.Prompt,
		s.Sandbox, s.Coding, s.MCP, s.Knowledge, s.Reasoning, s.Output,
		s.Team, s.Workflow, s.Observability,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BasicSpec returns a minimal spec for the given model: no sandbox, no MCP.
func BasicSpec(modelID string) Spec {
	s := DefaultSpec()
	s.ModelID = modelID
	s.Sandbox.Enabled = false
	s.MCP.Enabled = false
	return s
}

// CodingSpec returns a spec tuned for agentic coding in workspaceRoot:
// coding and git tools, a local sandbox, and the codeact prompt.
func CodingSpec(modelID, workspaceRoot string) Spec {
	s := DefaultSpec()
	s.ModelID = modelID
	s.Coding = DefaultCodingPolicy(workspaceRoot)
	s.Sandbox.Enabled = true
	s.Prompt.Template = TemplateCodeact
	return s
}

// ResearchSpec returns a spec tuned for research: knowledge retrieval over
// the given sources, extended reasoning, and the research prompt.
func ResearchSpec(modelID string, sources []string) Spec {
	s := DefaultSpec()
	s.ModelID = modelID
	s.Sandbox.Enabled = false
	s.Knowledge = DefaultKnowledgePolicy()
	s.Knowledge.Enabled = true
	s.Knowledge.Sources = sources
	s.Reasoning.Enabled = true
	s.Reasoning.Mode = ReasoningExtended
	s.Prompt.Template = TemplateResearch
	return s
}

// TeamSpec returns a spec for a coordinating multi-agent team with the given
// members.
func TeamSpec(members []Role, leaderModelID string) Spec {
	s := DefaultSpec()
	s.Sandbox.Enabled = false
	s.Team = DefaultTeamPolicy()
	s.Team.Enabled = true
	s.Team.Members = members
	s.Team.LeaderModelID = leaderModelID
	return s
}
