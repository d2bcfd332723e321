// Package git exposes git operations as agent tools. Read commands are
// always available when the set is enabled; staging and committing require
// the coding policy to allow git writes.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rjhall/agentrt/policy"
)

// ErrGitWriteDisabled is returned by write commands when the policy does
// not allow them.
var ErrGitWriteDisabled = errors.New("git write operations are disabled")

// DefaultCommandTimeout bounds individual git invocations.
const DefaultCommandTimeout = 30 * time.Second

// Tools runs git commands inside a repository root.
type Tools struct {
	root       string
	allowWrite bool
	timeout    time.Duration
}

// NewTools creates a git tool set rooted at the policy's workspace.
func NewTools(p policy.CodingPolicy) (*Tools, error) {
	root := strings.TrimSpace(p.WorkspaceRoot)
	if root == "" {
		return nil, fmt.Errorf("workspace root is required for git tools")
	}
	return &Tools{
		root:       root,
		allowWrite: p.AllowGitWrite,
		timeout:    DefaultCommandTimeout,
	}, nil
}

// run executes a git command in the repository root and returns trimmed
// stdout. Failures carry the command's stderr.
func (t *Tools) run(ctx context.Context, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "git", args...)
	cmd.Dir = t.root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if runCtx.Err() != nil {
			return "", fmt.Errorf("git %s: command timed out", args[0])
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (t *Tools) status(ctx context.Context, _ map[string]any) (any, error) {
	out, err := t.run(ctx, "status", "--porcelain=v1")
	if err != nil {
		return nil, err
	}

	changes := []map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(line) < 4 {
			continue
		}
		changes = append(changes, map[string]string{
			"status": line[:2],
			"file":   line[3:],
		})
	}
	return map[string]any{
		"changes": changes,
		"clean":   len(changes) == 0,
	}, nil
}

func (t *Tools) diff(ctx context.Context, args map[string]any) (any, error) {
	cmdArgs := []string{"diff", "--no-color"}
	if argBool(args, "staged", false) {
		cmdArgs = append(cmdArgs, "--cached")
	}
	if commit := argString(args, "commit", ""); commit != "" {
		cmdArgs = append(cmdArgs, commit)
	}
	if path := argString(args, "path", ""); path != "" {
		cmdArgs = append(cmdArgs, "--", path)
	}

	out, err := t.run(ctx, cmdArgs...)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"diff":        out,
		"has_changes": out != "",
	}, nil
}

func (t *Tools) log(ctx context.Context, args map[string]any) (any, error) {
	maxCount := argInt(args, "max_count", 10)
	cmdArgs := []string{"log", fmt.Sprintf("-n%d", maxCount), "--format=%H|%an|%ae|%s|%aI"}
	if path := argString(args, "path", ""); path != "" {
		cmdArgs = append(cmdArgs, "--", path)
	}

	out, err := t.run(ctx, cmdArgs...)
	if err != nil {
		return nil, err
	}

	commits := []map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, "|", 5)
		if len(parts) < 5 {
			continue
		}
		commits = append(commits, map[string]string{
			"hash":    parts[0],
			"author":  parts[1],
			"email":   parts[2],
			"message": parts[3],
			"date":    parts[4],
		})
	}
	return map[string]any{"commits": commits}, nil
}

func (t *Tools) branch(ctx context.Context, args map[string]any) (any, error) {
	cmdArgs := []string{"branch", "--no-color"}
	if argBool(args, "list_all", false) {
		cmdArgs = append(cmdArgs, "-a")
	} else if argBool(args, "list_remote", false) {
		cmdArgs = append(cmdArgs, "-r")
	}

	out, err := t.run(ctx, cmdArgs...)
	if err != nil {
		return nil, err
	}

	branches := []string{}
	current := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(line, "*"))
		branches = append(branches, name)
		if strings.HasPrefix(line, "*") {
			current = name
		}
	}
	return map[string]any{
		"branches": branches,
		"current":  current,
	}, nil
}

func (t *Tools) show(ctx context.Context, args map[string]any) (any, error) {
	commit := argString(args, "commit", "HEAD")
	cmdArgs := []string{"show", "--no-color", commit}
	if argBool(args, "stat_only", false) {
		cmdArgs = append(cmdArgs, "--stat")
	}

	out, err := t.run(ctx, cmdArgs...)
	if err != nil {
		return nil, err
	}
	return map[string]any{"output": out}, nil
}

func (t *Tools) blame(ctx context.Context, args map[string]any) (any, error) {
	path := argString(args, "path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	cmdArgs := []string{"blame", "--porcelain"}
	start := argInt(args, "start_line", 0)
	end := argInt(args, "end_line", 0)
	if start > 0 && end > 0 {
		cmdArgs = append(cmdArgs, "-L", fmt.Sprintf("%d,%d", start, end))
	}
	cmdArgs = append(cmdArgs, path)

	out, err := t.run(ctx, cmdArgs...)
	if err != nil {
		return nil, err
	}
	return map[string]any{"blame": out}, nil
}

func (t *Tools) add(ctx context.Context, args map[string]any) (any, error) {
	if !t.allowWrite {
		return nil, ErrGitWriteDisabled
	}

	if argBool(args, "all_changes", false) {
		if _, err := t.run(ctx, "add", "-A"); err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "staged": "all"}, nil
	}

	paths := argStrings(args, "paths")
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths specified")
	}
	if _, err := t.run(ctx, append([]string{"add"}, paths...)...); err != nil {
		return nil, err
	}
	return map[string]any{"success": true, "staged": paths}, nil
}

func (t *Tools) commit(ctx context.Context, args map[string]any) (any, error) {
	if !t.allowWrite {
		return nil, ErrGitWriteDisabled
	}
	message := strings.TrimSpace(argString(args, "message", ""))
	if message == "" {
		return nil, fmt.Errorf("commit message cannot be empty")
	}

	cmdArgs := []string{"commit", "-m", message}
	if argBool(args, "amend", false) {
		cmdArgs = append(cmdArgs, "--amend")
	}
	if _, err := t.run(ctx, cmdArgs...); err != nil {
		return nil, err
	}

	hash, err := t.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		hash = ""
	}
	if len(hash) > 8 {
		hash = hash[:8]
	}
	return map[string]any{
		"success": true,
		"message": message,
		"hash":    hash,
	}, nil
}

func argString(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func argInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

func argBool(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

func argStrings(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
