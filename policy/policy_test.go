package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "go string", in: `"1m30s"`, want: 90 * time.Second},
		{name: "bare seconds", in: `45`, want: 45 * time.Second},
		{name: "fractional seconds", in: `0.5`, want: 500 * time.Millisecond},
		{name: "garbage string", in: `"soon"`, wantErr: true},
		{name: "wrong type", in: `[1, 2]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := yaml.Unmarshal([]byte(tt.in), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %t", err, tt.wantErr)
			}
			if err == nil && d.Std() != tt.want {
				t.Errorf("got %v, want %v", d.Std(), tt.want)
			}
		})
	}
}

func TestToolPolicy_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ToolPolicy)
		ok     bool
	}{
		{name: "defaults", mutate: func(*ToolPolicy) {}, ok: true},
		{name: "zero timeout", mutate: func(p *ToolPolicy) { p.Timeout = 0 }},
		{name: "negative retries", mutate: func(p *ToolPolicy) { p.MaxRetries = -1 }},
		{name: "zero result cap", mutate: func(p *ToolPolicy) { p.MaxResultChars = 0 }},
		{name: "bad strategy", mutate: func(p *ToolPolicy) { p.ErrorStrategy = "panic" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultToolPolicy()
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrConfiguration) {
				t.Errorf("Validate() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestSpec_Validate(t *testing.T) {
	spec := DefaultSpec()
	if err := spec.Validate(); err != nil {
		t.Fatalf("default spec invalid: %v", err)
	}

	spec.Name = ""
	if err := spec.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("missing name error = %v, want ErrConfiguration", err)
	}

	spec = DefaultSpec()
	spec.Prompt.Template = TemplateCustom
	if err := spec.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("custom template without text error = %v, want ErrConfiguration", err)
	}
}

func TestCodingPolicy_Validate(t *testing.T) {
	p := CodingPolicy{}
	if err := p.Validate(); err != nil {
		t.Errorf("disabled policy error = %v", err)
	}

	p = DefaultCodingPolicy("")
	if err := p.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("enabled without root error = %v, want ErrConfiguration", err)
	}
}

func TestMCPPolicy_ActiveServers(t *testing.T) {
	p := DefaultMCPPolicy()
	p.Enabled = true
	p.URL = "http://localhost:8000/mcp"

	servers := p.ActiveServers()
	if len(servers) != 1 || servers[0].URL != p.URL {
		t.Fatalf("ActiveServers() = %+v", servers)
	}

	p.Servers = []MCPServerConfig{
		{Name: "on", URL: "http://a", Transport: TransportSSE, Enabled: true},
		{Name: "off", URL: "http://b", Transport: TransportSSE, Enabled: false},
	}
	servers = p.ActiveServers()
	if len(servers) != 1 || servers[0].Name != "on" {
		t.Errorf("ActiveServers() = %+v", servers)
	}
}

func TestTeamPolicy_Validate(t *testing.T) {
	p := DefaultTeamPolicy()
	p.Enabled = true
	if err := p.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("no members error = %v, want ErrConfiguration", err)
	}

	p.Members = []Role{
		{Name: "a", Role: "first"},
		{Name: "a", Role: "again"},
	}
	if err := p.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("duplicate member error = %v, want ErrConfiguration", err)
	}

	p.Members[1].Name = "b"
	if err := p.Validate(); err != nil {
		t.Errorf("valid team error = %v", err)
	}
}

func TestWorkflowPolicy_Validate(t *testing.T) {
	valid := WorkflowPolicy{
		Enabled: true,
		Name:    "w",
		Steps: []WorkflowStep{
			{Name: "a", Kind: StepFunction, Executor: "x"},
			{Name: "b", Kind: StepFunction, Executor: "x", DependsOn: []string{"a"}},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid workflow error = %v", err)
	}

	unknown := valid
	unknown.Steps = []WorkflowStep{
		{Name: "a", Kind: StepFunction, Executor: "x", DependsOn: []string{"ghost"}},
	}
	if err := unknown.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("unknown dependency error = %v, want ErrConfiguration", err)
	}

	cyclic := valid
	cyclic.Steps = []WorkflowStep{
		{Name: "a", Kind: StepFunction, Executor: "x", DependsOn: []string{"c"}},
		{Name: "b", Kind: StepFunction, Executor: "x", DependsOn: []string{"a"}},
		{Name: "c", Kind: StepFunction, Executor: "x", DependsOn: []string{"b"}},
	}
	if err := cyclic.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("cycle error = %v, want ErrConfiguration", err)
	}
}

func TestPresets(t *testing.T) {
	for name, spec := range map[string]Spec{
		"basic":    BasicSpec("m"),
		"coding":   CodingSpec("m", "/tmp/w"),
		"research": ResearchSpec("m", []string{"/tmp/docs"}),
		"team":     TeamSpec([]Role{{Name: "a", Role: "r"}}, "m"),
	} {
		if err := spec.Validate(); err != nil {
			t.Errorf("%s preset invalid: %v", name, err)
		}
	}

	coding := CodingSpec("m", "/tmp/w")
	if coding.Prompt.Template != TemplateCodeact {
		t.Errorf("coding template = %q", coding.Prompt.Template)
	}
	if !coding.Sandbox.Enabled {
		t.Error("coding sandbox disabled")
	}

	research := ResearchSpec("m", nil)
	if research.Reasoning.Mode != ReasoningExtended {
		t.Errorf("research reasoning mode = %q", research.Reasoning.Mode)
	}
}

func TestParseSpec(t *testing.T) {
	doc := []byte(`
name: yaml-agent
modelId: test/model
tools:
  timeout: 10s
  maxRetries: 5
  maxResultChars: 2000
  errorStrategy: raise
coding:
  enabled: true
  workspaceRoot: /tmp/ws
  maxFileSizeKB: 128
  maxSearchResults: 50
`)
	spec, err := ParseSpec(doc)
	if err != nil {
		t.Fatalf("ParseSpec() error = %v", err)
	}
	if spec.Name != "yaml-agent" {
		t.Errorf("Name = %q", spec.Name)
	}
	if spec.Tools.Timeout.Std() != 10*time.Second {
		t.Errorf("Timeout = %v", spec.Tools.Timeout)
	}
	if spec.Tools.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d", spec.Tools.MaxRetries)
	}
	if spec.Tools.ErrorStrategy != ErrorStrategyRaise {
		t.Errorf("ErrorStrategy = %q", spec.Tools.ErrorStrategy)
	}
	// Defaults survive the overlay.
	if spec.UserID != DefaultUserID {
		t.Errorf("UserID = %q", spec.UserID)
	}
	if spec.SessionID == "" {
		t.Error("SessionID not generated")
	}
	if spec.Coding.MaxFileSizeKB != 128 {
		t.Errorf("MaxFileSizeKB = %d", spec.Coding.MaxFileSizeKB)
	}
}

func TestParseSpec_Invalid(t *testing.T) {
	if _, err := ParseSpec([]byte("{{not yaml")); !errors.Is(err, ErrConfiguration) {
		t.Errorf("bad yaml error = %v, want ErrConfiguration", err)
	}

	doc := []byte("tools:\n  maxRetries: -2\n")
	if _, err := ParseSpec(doc); !errors.Is(err, ErrConfiguration) {
		t.Errorf("invalid policy error = %v, want ErrConfiguration", err)
	}
}

func TestLoadSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.yaml")
	if err := os.WriteFile(path, []byte("name: file-agent\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec() error = %v", err)
	}
	if spec.Name != "file-agent" {
		t.Errorf("Name = %q", spec.Name)
	}

	if _, err := LoadSpec(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, ErrConfiguration) {
		t.Errorf("missing file error = %v, want ErrConfiguration", err)
	}
}
