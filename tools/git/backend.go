package git

import (
	provider "github.com/rjhall/agentrt/backend/local"
	"github.com/rjhall/agentrt/policy"
)

// BackendName is the provider name, and therefore the tool namespace, of
// the git tool set.
const BackendName = "git"

// New builds the git tool provider for the given coding policy. Returns nil
// when git tooling is not enabled.
func New(p policy.CodingPolicy) (*provider.Backend, error) {
	if !p.Enabled || !p.EnableGit {
		return nil, nil
	}
	t, err := NewTools(p)
	if err != nil {
		return nil, err
	}

	defs := []provider.ToolDef{
		{
			Name:        "git_status",
			Description: "Show the working tree status.",
			InputSchema: objectSchema(nil, nil),
			Tags:        []string{"git", "read"},
			Handler:     t.status,
		},
		{
			Name:        "git_diff",
			Description: "Show changes between commits, the index, and the working tree.",
			InputSchema: objectSchema(map[string]any{
				"path":   map[string]any{"type": "string"},
				"staged": map[string]any{"type": "boolean"},
				"commit": map[string]any{"type": "string"},
			}, nil),
			Tags:    []string{"git", "read"},
			Handler: t.diff,
		},
		{
			Name:        "git_log",
			Description: "Show commit history.",
			InputSchema: objectSchema(map[string]any{
				"max_count": map[string]any{"type": "integer"},
				"path":      map[string]any{"type": "string"},
			}, nil),
			Tags:    []string{"git", "read"},
			Handler: t.log,
		},
		{
			Name:        "git_branch",
			Description: "List branches.",
			InputSchema: objectSchema(map[string]any{
				"list_all":    map[string]any{"type": "boolean"},
				"list_remote": map[string]any{"type": "boolean"},
			}, nil),
			Tags:    []string{"git", "read"},
			Handler: t.branch,
		},
		{
			Name:        "git_show",
			Description: "Show commit details.",
			InputSchema: objectSchema(map[string]any{
				"commit":    map[string]any{"type": "string"},
				"stat_only": map[string]any{"type": "boolean"},
			}, nil),
			Tags:    []string{"git", "read"},
			Handler: t.show,
		},
		{
			Name:        "git_blame",
			Description: "Show what revision and author last modified each line of a file.",
			InputSchema: objectSchema(map[string]any{
				"path":       map[string]any{"type": "string"},
				"start_line": map[string]any{"type": "integer"},
				"end_line":   map[string]any{"type": "integer"},
			}, []any{"path"}),
			Tags:    []string{"git", "read"},
			Handler: t.blame,
		},
	}

	if p.AllowGitWrite {
		defs = append(defs,
			provider.ToolDef{
				Name:        "git_add",
				Description: "Stage files for commit.",
				InputSchema: objectSchema(map[string]any{
					"paths":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"all_changes": map[string]any{"type": "boolean"},
				}, nil),
				Tags:    []string{"git", "write"},
				Handler: t.add,
			},
			provider.ToolDef{
				Name:        "git_commit",
				Description: "Create a commit with staged changes.",
				InputSchema: objectSchema(map[string]any{
					"message": map[string]any{"type": "string"},
					"amend":   map[string]any{"type": "boolean"},
				}, []any{"message"}),
				Tags:    []string{"git", "write"},
				Handler: t.commit,
			},
		)
	}

	return provider.New(BackendName, defs...), nil
}

func objectSchema(properties map[string]any, required []any) map[string]any {
	schema := map[string]any{"type": "object"}
	if len(properties) > 0 {
		schema["properties"] = properties
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
