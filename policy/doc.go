// Package policy defines the declarative configuration records from which
// agents, teams, and workflows are assembled.
//
// Policies are pure data: each record holds validated, immutable limits and
// switches for one concern (tool execution, sandboxing, MCP integration,
// knowledge retrieval, reasoning, teams, workflows, prompts, observability).
// A [Spec] aggregates all of them and is the single input to agent assembly.
//
// # Validation
//
// Every policy has a Validate method. Validation failures wrap
// [ErrConfiguration] so callers can classify them with errors.Is:
//
//	p := policy.ToolPolicy{Timeout: 0}
//	if err := p.Validate(); errors.Is(err, policy.ErrConfiguration) {
//	    // invalid limits, surface immediately, never retried
//	}
//
// Validated policies are never mutated after construction and are safe to
// share by reference across concurrent tool invocations.
//
// # Loading
//
// Specs can be built in code, from the Default* constructors, from one of the
// preset builders (BasicSpec, CodingSpec, ResearchSpec, TeamSpec), or loaded
// from YAML with [LoadSpec].
package policy
