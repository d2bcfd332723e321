// Package sandbox provides sandboxed code execution for agents.
//
// The Executor orchestrates a pluggable Engine: it applies policy limits,
// enforces a per-run timeout, and collects tool call traces and timing. Two
// engines ship with it: subproc runs code in a local subprocess (development
// only, no isolation boundary) and remote forwards execution to an external
// sandbox service over HTTP.
//
//	engine := subproc.New(subproc.Config{})
//	exec, err := sandbox.NewExecutor(sandbox.Config{
//		Engine: engine,
//		Policy: policy.DefaultSandboxPolicy(),
//	})
//	outcome, err := exec.Run(ctx, sandbox.Params{
//		Language: "python",
//		Code:     "print('hello')",
//	})
package sandbox
