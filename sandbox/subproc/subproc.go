// Package subproc runs code in a local subprocess. It is a development
// engine: there is no isolation boundary between the code and the host.
package subproc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rjhall/agentrt/sandbox"
)

// Config configures the subprocess engine.
type Config struct {
	// WorkDir is the working directory for executions. Defaults to a
	// fresh temporary directory per run.
	WorkDir string

	// Interpreters maps languages to interpreter argv. Defaults cover
	// python and shell.
	Interpreters map[string][]string
}

// Engine executes code through a local interpreter process.
type Engine struct {
	workDir      string
	interpreters map[string][]string
}

// New creates a subprocess engine.
func New(cfg Config) *Engine {
	interpreters := cfg.Interpreters
	if interpreters == nil {
		interpreters = map[string][]string{
			"python": {"python3"},
			"shell":  {"bash"},
		}
	}
	return &Engine{
		workDir:      cfg.WorkDir,
		interpreters: interpreters,
	}
}

// Kind returns "subproc".
func (e *Engine) Kind() string { return "subproc" }

// Run writes the snippet to a script file and executes it with the
// language's interpreter. The final value follows the __out convention.
func (e *Engine) Run(ctx context.Context, params sandbox.Params) (sandbox.Outcome, error) {
	argv, ok := e.interpreters[params.Language]
	if !ok || len(argv) == 0 {
		return sandbox.Outcome{}, fmt.Errorf("%w: unsupported language %q", sandbox.ErrExecution, params.Language)
	}

	dir := e.workDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "agentrt-run-")
		if err != nil {
			return sandbox.Outcome{}, fmt.Errorf("%w: %v", sandbox.ErrExecution, err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	script := filepath.Join(dir, "snippet"+scriptExt(params.Language))
	if err := os.WriteFile(script, []byte(params.Code), 0o600); err != nil {
		return sandbox.Outcome{}, fmt.Errorf("%w: %v", sandbox.ErrExecution, err)
	}

	args := append(append([]string{}, argv[1:]...), script)
	cmd := exec.CommandContext(ctx, argv[0], args...)
	cmd.Dir = dir
	cmd.Env = mergedEnv(params.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start).Milliseconds()

	if ctx.Err() != nil {
		return sandbox.Outcome{
			Stdout:     stdout.String(),
			Stderr:     stderr.String(),
			DurationMs: duration,
		}, ctx.Err()
	}

	value, remaining := sandbox.ExtractOutValue(stdout.String())
	outcome := sandbox.Outcome{
		Value:      value,
		Stdout:     remaining,
		Stderr:     stderr.String(),
		DurationMs: duration,
	}

	if runErr != nil {
		if ee, ok := runErr.(*exec.ExitError); ok {
			outcome.ExitCode = ee.ExitCode()
		} else {
			outcome.ExitCode = 1
		}
		return outcome, fmt.Errorf("%w: exit %d: %s", sandbox.ErrExecution, outcome.ExitCode, firstLine(stderr.String()))
	}
	return outcome, nil
}

func scriptExt(language string) string {
	switch language {
	case "python":
		return ".py"
	case "shell":
		return ".sh"
	default:
		return ""
	}
}

func mergedEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil
	}
	env := os.Environ()
	for k, v := range extra {
		if k == "" {
			continue
		}
		env = append(env, k+"="+v)
	}
	return env
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
