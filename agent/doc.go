// Package agent assembles a complete runtime from a declarative spec:
// capability providers, a discovery index, the hardened tool runtime,
// session history, and the system prompt.
//
// The spec is the single source of truth. Each enabled policy contributes
// a provider (workspace files, git, reasoning, knowledge, MCP servers,
// sandboxed code execution), and every tool call flows through one
// hardened runtime enforcing the spec's timeout, retry, and truncation
// limits.
//
// Basic usage:
//
//	spec := policy.DefaultSpec()
//	spec.Coding = policy.DefaultCodingPolicy("/path/to/workspace")
//
//	a, err := agent.FromSpec(spec, agent.Options{Settings: settings.Load()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := a.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Close()
//
//	result, err := a.RunTool(ctx, "workspace:read_file", map[string]any{
//	    "path": "main.go",
//	})
//
// Teams and workflows build on the same spec: NewTeam coordinates
// multiple caller-supplied run functions per the team policy, and
// NewWorkflow executes a dependency graph of steps with per-step retry
// budgets. Model inference itself stays outside this module; run
// functions and step executors are supplied by the caller.
package agent
