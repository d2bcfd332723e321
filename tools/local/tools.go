// Package local builds the built-in workspace tool set: a healthcheck plus
// file tools confined to a workspace root.
package local

import (
	"context"

	provider "github.com/rjhall/agentrt/backend/local"
	"github.com/rjhall/agentrt/policy"
)

// BackendName is the provider name, and therefore the tool namespace, of
// the workspace tool set.
const BackendName = "workspace"

// Healthcheck reports whether the agent runtime is operational.
func Healthcheck(_ context.Context, _ map[string]any) (any, error) {
	return map[string]any{"status": "ok"}, nil
}

// HealthcheckDef returns the healthcheck tool definition.
func HealthcheckDef() provider.ToolDef {
	return provider.ToolDef{
		Name:        "healthcheck",
		Description: "Check if the agent runtime is healthy and operational.",
		InputSchema: objectSchema(nil, nil),
		Tags:        []string{"health"},
		Handler:     Healthcheck,
	}
}

// New builds the workspace tool provider for the given coding policy. With
// coding disabled the provider carries only the healthcheck.
func New(p policy.CodingPolicy) (*provider.Backend, error) {
	b := provider.New(BackendName, HealthcheckDef())
	if !p.Enabled {
		return b, nil
	}

	ws, err := NewWorkspace(p)
	if err != nil {
		return nil, err
	}
	for _, def := range ws.toolDefs() {
		b.Register(def)
	}
	return b, nil
}

func (w *Workspace) toolDefs() []provider.ToolDef {
	defs := []provider.ToolDef{
		{
			Name:        "read_file",
			Description: "Read file contents with optional line range.",
			InputSchema: objectSchema(map[string]any{
				"path":       map[string]any{"type": "string"},
				"start_line": map[string]any{"type": "integer"},
				"end_line":   map[string]any{"type": "integer"},
			}, []any{"path"}),
			Tags:    []string{"files", "read"},
			Handler: w.readFile,
		},
		{
			Name:        "list_directory",
			Description: "List contents of a directory.",
			InputSchema: objectSchema(map[string]any{
				"path":        map[string]any{"type": "string"},
				"show_hidden": map[string]any{"type": "boolean"},
			}, nil),
			Tags:    []string{"files", "read"},
			Handler: w.listDirectory,
		},
		{
			Name:        "find_files",
			Description: "Find files matching a glob pattern.",
			InputSchema: objectSchema(map[string]any{
				"pattern":   map[string]any{"type": "string"},
				"path":      map[string]any{"type": "string"},
				"max_depth": map[string]any{"type": "integer"},
			}, []any{"pattern"}),
			Tags:    []string{"files", "search"},
			Handler: w.findFiles,
		},
		{
			Name:        "grep",
			Description: "Search for a regex pattern in workspace files.",
			InputSchema: objectSchema(map[string]any{
				"pattern":        map[string]any{"type": "string"},
				"path":           map[string]any{"type": "string"},
				"file_pattern":   map[string]any{"type": "string"},
				"case_sensitive": map[string]any{"type": "boolean"},
				"context_lines":  map[string]any{"type": "integer"},
			}, []any{"pattern"}),
			Tags:    []string{"files", "search"},
			Handler: w.grep,
		},
		{
			Name:        "get_file_info",
			Description: "Get metadata about a file or directory.",
			InputSchema: objectSchema(map[string]any{
				"path": map[string]any{"type": "string"},
			}, []any{"path"}),
			Tags:    []string{"files", "read"},
			Handler: w.fileInfo,
		},
	}

	if w.allowWrite {
		defs = append(defs,
			provider.ToolDef{
				Name:        "write_file",
				Description: "Write content to a file, creating or overwriting it.",
				InputSchema: objectSchema(map[string]any{
					"path":               map[string]any{"type": "string"},
					"content":            map[string]any{"type": "string"},
					"create_directories": map[string]any{"type": "boolean"},
				}, []any{"path", "content"}),
				Tags:    []string{"files", "write"},
				Handler: w.writeFile,
			},
			provider.ToolDef{
				Name:        "edit_file",
				Description: "Edit a file by replacing text.",
				InputSchema: objectSchema(map[string]any{
					"path":        map[string]any{"type": "string"},
					"old_text":    map[string]any{"type": "string"},
					"new_text":    map[string]any{"type": "string"},
					"replace_all": map[string]any{"type": "boolean"},
				}, []any{"path", "old_text", "new_text"}),
				Tags:    []string{"files", "write"},
				Handler: w.editFile,
			},
		)
	}
	return defs
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
