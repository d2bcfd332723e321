// Package backend defines the capability-provider contract for agent tools.
//
// A Backend is a source of tools: an in-process handler set
// (backend/local), a remote MCP server (backend/mcpclient), or any custom
// implementation. Backends are collected in a [Registry] and dispatched
// through an [Aggregator], which addresses tools by namespace-qualified ID
// ("namespace:tool") and can publish every provider's tools into a
// discovery index for search.
//
// The package holds no execution-hardening logic of its own; agent assembly
// wraps aggregator dispatch in a toolrun.Runtime so that every tool call is
// subject to the spec's tool policy.
package backend
