package policy

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Default coding tool limits.
const (
	DefaultMaxFileSizeKB    = 256
	DefaultMaxSearchResults = 100
)

// CodingPolicy configures the workspace file and git tools.
type CodingPolicy struct {
	// Enabled turns the coding tool set on.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// WorkspaceRoot is the directory all file operations are confined to.
	WorkspaceRoot string `yaml:"workspaceRoot" json:"workspaceRoot"`

	// MaxFileSizeKB caps files read by the file tools.
	MaxFileSizeKB int `yaml:"maxFileSizeKB" json:"maxFileSizeKB"`

	// MaxSearchResults caps grep and find results.
	MaxSearchResults int `yaml:"maxSearchResults" json:"maxSearchResults"`

	// AllowWrite enables the write_file and edit_file tools.
	AllowWrite bool `yaml:"allowWrite" json:"allowWrite"`

	// EnableGit exposes the read-only git tools.
	EnableGit bool `yaml:"enableGit" json:"enableGit"`

	// AllowGitWrite additionally allows staging and committing.
	AllowGitWrite bool `yaml:"allowGitWrite" json:"allowGitWrite"`
}

// DefaultCodingPolicy returns the standard coding tool configuration with
// the given workspace root.
func DefaultCodingPolicy(workspaceRoot string) CodingPolicy {
	return CodingPolicy{
		Enabled:          true,
		WorkspaceRoot:    workspaceRoot,
		MaxFileSizeKB:    DefaultMaxFileSizeKB,
		MaxSearchResults: DefaultMaxSearchResults,
		AllowWrite:       true,
		EnableGit:        true,
		AllowGitWrite:    false,
	}
}

// Validate checks the policy. Failures wrap ErrConfiguration.
func (p CodingPolicy) Validate() error {
	if !p.Enabled {
		return nil
	}
	err := validation.ValidateStruct(&p,
		validation.Field(&p.WorkspaceRoot, validation.Required),
		validation.Field(&p.MaxFileSizeKB, validation.Required, validation.Min(1)),
		validation.Field(&p.MaxSearchResults, validation.Required, validation.Min(1)),
	)
	return wrapConfig("coding", err)
}
