package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestAggregator(t *testing.T) (*Aggregator, *Registry) {
	t.Helper()
	reg := NewRegistry()
	err := reg.Register(&mockBackend{
		kind:    "local",
		name:    "files",
		enabled: true,
		tools: []model.Tool{
			{Tool: mcp.Tool{Name: "read_file", Description: "Read a file"}},
		},
		execFn: func(_ context.Context, tool string, _ map[string]any) (any, error) {
			return "ran " + tool, nil
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	err = reg.Register(&mockBackend{
		kind:    "local",
		name:    "disabled",
		enabled: false,
		tools: []model.Tool{
			{Tool: mcp.Tool{Name: "hidden"}},
		},
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return NewAggregator(reg), reg
}

func TestAggregator_ListAllTools(t *testing.T) {
	agg, _ := newTestAggregator(t)

	tools, err := agg.ListAllTools(context.Background())
	if err != nil {
		t.Fatalf("ListAllTools() error = %v", err)
	}
	if len(tools) != 1 {
		t.Fatalf("ListAllTools() returned %d tools, want 1", len(tools))
	}
	if tools[0].Namespace != "files" {
		t.Errorf("Namespace = %q, want %q", tools[0].Namespace, "files")
	}
}

func TestAggregator_Execute(t *testing.T) {
	agg, _ := newTestAggregator(t)

	result, err := agg.Execute(context.Background(), "files:read_file", nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result != "ran read_file" {
		t.Errorf("Execute() = %v, want %q", result, "ran read_file")
	}
}

func TestAggregator_ExecuteErrors(t *testing.T) {
	agg, _ := newTestAggregator(t)
	ctx := context.Background()

	if _, err := agg.Execute(ctx, "no-colon", nil); !errors.Is(err, ErrInvalidToolID) {
		t.Errorf("Execute() error = %v, want ErrInvalidToolID", err)
	}
	if _, err := agg.Execute(ctx, "missing:tool", nil); !errors.Is(err, ErrBackendNotFound) {
		t.Errorf("Execute() error = %v, want ErrBackendNotFound", err)
	}
	if _, err := agg.Execute(ctx, "disabled:hidden", nil); !errors.Is(err, ErrBackendDisabled) {
		t.Errorf("Execute() error = %v, want ErrBackendDisabled", err)
	}
}

func TestParseToolID(t *testing.T) {
	namespace, tool, err := ParseToolID("git:status")
	if err != nil {
		t.Fatalf("ParseToolID() error = %v", err)
	}
	if namespace != "git" || tool != "status" {
		t.Errorf("ParseToolID() = (%q, %q), want (git, status)", namespace, tool)
	}
}

func TestFormatToolID(t *testing.T) {
	if got := FormatToolID("git", "status"); got != "git:status" {
		t.Errorf("FormatToolID() = %q, want %q", got, "git:status")
	}
	if got := FormatToolID("", "status"); got != "status" {
		t.Errorf("FormatToolID() = %q, want %q", got, "status")
	}
}
