package subproc

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/rjhall/agentrt/sandbox"
)

func requireInterpreter(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not installed", name)
	}
}

func TestEngine_RunShell(t *testing.T) {
	requireInterpreter(t, "bash")
	engine := New(Config{})

	outcome, err := engine.Run(context.Background(), sandbox.Params{
		Language: "shell",
		Code:     "echo hello\necho '{\"__out\": \"final\"}'",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome.Value != "final" {
		t.Errorf("Value = %v, want final", outcome.Value)
	}
	if strings.TrimSpace(outcome.Stdout) != "hello" {
		t.Errorf("Stdout = %q, want hello", outcome.Stdout)
	}
	if outcome.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", outcome.ExitCode)
	}
}

func TestEngine_RunFailure(t *testing.T) {
	requireInterpreter(t, "bash")
	engine := New(Config{})

	outcome, err := engine.Run(context.Background(), sandbox.Params{
		Language: "shell",
		Code:     "echo oops >&2\nexit 3",
	})
	if !errors.Is(err, sandbox.ErrExecution) {
		t.Fatalf("Run() error = %v, want ErrExecution", err)
	}
	if outcome.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", outcome.ExitCode)
	}
	if !strings.Contains(outcome.Stderr, "oops") {
		t.Errorf("Stderr = %q, want to contain oops", outcome.Stderr)
	}
}

func TestEngine_RunTimeout(t *testing.T) {
	requireInterpreter(t, "bash")
	engine := New(Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := engine.Run(ctx, sandbox.Params{
		Language: "shell",
		Code:     "sleep 10",
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want DeadlineExceeded", err)
	}
}

func TestEngine_RunEnv(t *testing.T) {
	requireInterpreter(t, "bash")
	engine := New(Config{})

	outcome, err := engine.Run(context.Background(), sandbox.Params{
		Language: "shell",
		Code:     `echo "value=$AGENT_TEST_VAR"`,
		Env:      map[string]string{"AGENT_TEST_VAR": "42"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(outcome.Stdout, "value=42") {
		t.Errorf("Stdout = %q, want value=42", outcome.Stdout)
	}
}

func TestEngine_UnsupportedLanguage(t *testing.T) {
	engine := New(Config{})
	_, err := engine.Run(context.Background(), sandbox.Params{Language: "cobol", Code: "x"})
	if !errors.Is(err, sandbox.ErrExecution) {
		t.Errorf("Run() error = %v, want ErrExecution", err)
	}
}

func TestEngine_Kind(t *testing.T) {
	if got := New(Config{}).Kind(); got != "subproc" {
		t.Errorf("Kind() = %q, want subproc", got)
	}
}
