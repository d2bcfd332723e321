package policy

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TeamMode selects how a multi-agent team coordinates.
type TeamMode string

const (
	// TeamCoordinate has a leader delegate tasks to members.
	TeamCoordinate TeamMode = "coordinate"

	// TeamRoute sends each task directly to a named member.
	TeamRoute TeamMode = "route"

	// TeamCollaborate fans each task out to every member.
	TeamCollaborate TeamMode = "collaborate"
)

// Role defines one agent role within a team.
type Role struct {
	// Name is the unique member name.
	Name string `yaml:"name" json:"name"`

	// Role describes the member's responsibility.
	Role string `yaml:"role" json:"role"`

	// ModelID overrides the team default model for this member.
	ModelID string `yaml:"modelId,omitempty" json:"modelId,omitempty"`

	// Instructions are member-specific prompt instructions.
	Instructions []string `yaml:"instructions,omitempty" json:"instructions,omitempty"`

	// Tools names the capability sets enabled for this member
	// (e.g. "sandbox", "mcp", "knowledge", "reasoning").
	Tools []string `yaml:"tools,omitempty" json:"tools,omitempty"`
}

// Validate checks the role. Failures wrap ErrConfiguration.
func (r Role) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Role, validation.Required),
	)
	return wrapConfig("team role", err)
}

// TeamPolicy configures a multi-agent team.
type TeamPolicy struct {
	// Enabled turns team assembly on.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Members are the agent roles composing the team.
	Members []Role `yaml:"members,omitempty" json:"members,omitempty"`

	// Mode selects the coordination strategy.
	Mode TeamMode `yaml:"mode" json:"mode"`

	// ShareMemberInteractions copies member exchanges into the shared
	// session context.
	ShareMemberInteractions bool `yaml:"shareMemberInteractions" json:"shareMemberInteractions"`

	// ShowMembersResponses includes individual member responses in the
	// team result.
	ShowMembersResponses bool `yaml:"showMembersResponses" json:"showMembersResponses"`

	// LeaderModelID overrides the spec default model for the leader.
	LeaderModelID string `yaml:"leaderModelId,omitempty" json:"leaderModelId,omitempty"`

	// LeaderInstructions are prompt instructions for the leader.
	LeaderInstructions []string `yaml:"leaderInstructions,omitempty" json:"leaderInstructions,omitempty"`

	// MemberInformationTool exposes a tool for the leader to query
	// member capabilities.
	MemberInformationTool bool `yaml:"memberInformationTool" json:"memberInformationTool"`
}

// DefaultTeamPolicy returns the standard (disabled) team configuration.
func DefaultTeamPolicy() TeamPolicy {
	return TeamPolicy{
		Enabled:                 false,
		Mode:                    TeamCoordinate,
		ShareMemberInteractions: true,
		ShowMembersResponses:    true,
		MemberInformationTool:   true,
	}
}

// Validate checks the policy. An enabled team needs at least one member and
// unique member names. Failures wrap ErrConfiguration.
func (p TeamPolicy) Validate() error {
	if !p.Enabled {
		return nil
	}
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Members, validation.Required.Error("an enabled team needs at least one member")),
		validation.Field(&p.Mode, validation.Required,
			validation.In(TeamCoordinate, TeamRoute, TeamCollaborate)),
	)
	if err != nil {
		return wrapConfig("team", err)
	}
	seen := make(map[string]struct{}, len(p.Members))
	for _, m := range p.Members {
		if err := m.Validate(); err != nil {
			return err
		}
		if _, dup := seen[m.Name]; dup {
			return wrapConfig("team", errDuplicate("member", m.Name))
		}
		seen[m.Name] = struct{}{}
	}
	return nil
}
