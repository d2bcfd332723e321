package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/tooldiscovery/search"
	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"

	"github.com/rjhall/agentrt/backend"
	"github.com/rjhall/agentrt/backend/mcpclient"
	"github.com/rjhall/agentrt/knowledge"
	"github.com/rjhall/agentrt/policy"
	"github.com/rjhall/agentrt/prompt"
	"github.com/rjhall/agentrt/sandbox"
	"github.com/rjhall/agentrt/sandbox/remote"
	"github.com/rjhall/agentrt/sandbox/subproc"
	"github.com/rjhall/agentrt/session"
	"github.com/rjhall/agentrt/settings"
	"github.com/rjhall/agentrt/toolrun"
	toolsgit "github.com/rjhall/agentrt/tools/git"
	toolslocal "github.com/rjhall/agentrt/tools/local"
	"github.com/rjhall/agentrt/tools/reason"
)

// Errors for agent operations.
var (
	// ErrSandboxDisabled is returned by RunCode when the spec does not
	// enable sandboxed code execution.
	ErrSandboxDisabled = errors.New("sandbox is not enabled")
)

// Logger is the minimal structured logging interface the agent uses.
// Implementations must be safe for concurrent use.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// nopLogger discards everything.
type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Options configures assembly beyond what the spec declares.
type Options struct {
	// Settings supplies external service credentials and endpoints.
	Settings settings.Settings

	// Logger receives agent and hook log output. Optional.
	Logger Logger

	// Engine overrides the sandbox engine chosen from the spec and
	// settings. Optional.
	Engine sandbox.Engine

	// Backends are additional capability providers registered alongside
	// the spec-driven ones. Optional.
	Backends []backend.Backend

	// Hooks are prepended to the policy-driven hook chain. Optional.
	Hooks []Hook

	// Store persists session history across runs. Optional.
	Store *session.Store
}

func (o *Options) applyDefaults() {
	if o.Logger == nil {
		o.Logger = nopLogger{}
	}
}

// Agent is an assembled runtime: capability providers, a discovery index,
// the hardened tool runtime, session history, and the system prompt, all
// derived from one spec.
//
// Every tool call flows through RunTool and is subject to the spec's tool
// policy. An Agent is safe for concurrent use after Start.
type Agent struct {
	spec       policy.Spec
	opts       Options
	logger     Logger
	registry   *backend.Registry
	aggregator *backend.Aggregator
	runtime    *toolrun.Runtime
	index      index.Index
	docs       tooldoc.Store
	history    *session.History
	hooks      []Hook
	metrics    *MetricsHook
	scratchpad *reason.Scratchpad
	know       *knowledge.Store
	executor   *sandbox.Executor
}

// FromSpec assembles an agent from a validated spec. Providers are
// registered according to the enabled policies but no connections are
// made; call Start before dispatching tools.
func FromSpec(spec policy.Spec, opts Options) (*Agent, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()
	if spec.SessionID == "" {
		spec.SessionID = uuid.NewString()
	}

	rt, err := toolrun.New(spec.Tools)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		spec:    spec,
		opts:    opts,
		logger:  opts.Logger,
		runtime: rt,
	}

	a.registry = backend.NewRegistry()
	if err := a.registerProviders(); err != nil {
		a.release()
		return nil, err
	}
	a.aggregator = backend.NewAggregator(a.registry)

	a.index = index.NewInMemoryIndex(index.IndexOptions{
		Searcher: search.NewBM25Searcher(search.BM25Config{}),
	})
	a.docs = tooldoc.NewInMemoryStore(tooldoc.StoreOptions{Index: a.index})

	a.history = session.NewHistory(historyBound(spec.Context))

	a.hooks = opts.Hooks
	policyHooks, metrics := hooksFromPolicy(spec.Observability, a.logger)
	a.hooks = append(a.hooks, policyHooks...)
	a.metrics = metrics

	return a, nil
}

// registerProviders builds and registers every provider the spec enables.
func (a *Agent) registerProviders() error {
	workspace, err := toolslocal.New(a.spec.Coding)
	if err != nil {
		return err
	}
	if err := a.registry.Register(workspace); err != nil {
		return err
	}

	git, err := toolsgit.New(a.spec.Coding)
	if err != nil {
		return err
	}
	if git != nil {
		if err := a.registry.Register(git); err != nil {
			return err
		}
	}

	if rb, pad := reason.New(a.spec.Reasoning); rb != nil {
		if err := a.registry.Register(rb); err != nil {
			return err
		}
		a.scratchpad = pad
	}

	kb, store, err := knowledge.New(a.spec.Knowledge)
	if err != nil {
		return err
	}
	if kb != nil {
		if err := a.registry.Register(kb); err != nil {
			return err
		}
		a.know = store
	}

	if a.spec.MCP.Enabled {
		servers := a.spec.MCP.ActiveServers()
		if len(servers) == 0 && a.opts.Settings.HasMCP() {
			servers = []policy.MCPServerConfig{{
				Name:      "mcp",
				URL:       a.opts.Settings.MCPURL,
				Transport: a.spec.MCP.Transport,
				Enabled:   true,
			}}
		}
		for _, srv := range servers {
			if err := a.registry.Register(mcpclient.New(srv, a.spec.MCP)); err != nil {
				return err
			}
		}
	}

	if a.spec.Sandbox.Enabled {
		if err := a.registerSandbox(); err != nil {
			return err
		}
	}

	for _, b := range a.opts.Backends {
		if err := a.registry.Register(b); err != nil {
			return err
		}
	}
	return nil
}

// registerSandbox wires the code-execution provider selected by the
// sandbox policy and exposes it as a run_code tool.
func (a *Agent) registerSandbox() error {
	engine := a.opts.Engine
	if engine == nil {
		switch a.spec.Sandbox.Provider {
		case policy.SandboxRemote:
			var err error
			engine, err = remote.New(remote.Config{
				BaseURL: a.opts.Settings.SandboxAPIURL,
				APIKey:  a.opts.Settings.SandboxAPIKey,
			})
			if err != nil {
				return err
			}
		default:
			engine = subproc.New(subproc.Config{})
		}
	}

	executor, err := sandbox.NewExecutor(sandbox.Config{
		Engine: engine,
		Policy: a.spec.Sandbox,
		Logger: sandboxLogger{a.logger},
	})
	if err != nil {
		return err
	}
	a.executor = executor
	return a.registry.Register(sandboxProvider(executor))
}

// sandboxLogger adapts the agent logger to the executor's Logf interface.
type sandboxLogger struct {
	logger Logger
}

func (l sandboxLogger) Logf(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

// historyBound converts the context policy into a frame cap. A run is one
// user/assistant exchange.
func historyBound(p policy.ContextPolicy) int {
	if p.NumHistoryRuns <= 0 {
		return 0
	}
	return p.NumHistoryRuns * 2
}

// Start connects every enabled provider, publishes their tools into the
// discovery index, and restores the persisted session when a store is
// configured.
func (a *Agent) Start(ctx context.Context) error {
	if err := a.registry.StartAll(ctx); err != nil {
		return err
	}
	if err := a.aggregator.IndexTools(ctx, a.index); err != nil {
		return err
	}
	if a.opts.Store != nil {
		frames, err := a.opts.Store.Load(a.spec.SessionID)
		switch {
		case err == nil:
			a.history.Restore(frames)
		case !errors.Is(err, session.ErrSessionNotFound):
			return err
		}
	}
	a.logger.Info("agent started", "name", a.spec.Name, "session", a.spec.SessionID)
	return nil
}

// Close stops every provider, persists the session when a store is
// configured, and releases held resources. The first error is returned.
func (a *Agent) Close() error {
	var first error
	if a.opts.Store != nil {
		if err := a.opts.Store.Save(a.spec.SessionID, a.history.Frames()); err != nil {
			first = err
		}
	}
	if err := a.registry.StopAll(); err != nil && first == nil {
		first = err
	}
	if err := a.release(); err != nil && first == nil {
		first = err
	}
	return first
}

func (a *Agent) release() error {
	if a.know != nil {
		return a.know.Close()
	}
	return nil
}

// RunTool executes a tool by namespace-qualified ID through the hardened
// runtime. The spec's tool policy governs timeout, retries, truncation,
// and error reporting; the observability hook chain runs around the call.
func (a *Agent) RunTool(ctx context.Context, toolID string, args map[string]any) (toolrun.Result, error) {
	call := ToolCall{ToolID: toolID, Args: args}
	for _, h := range a.hooks {
		h.BeforeToolCall(ctx, call)
	}

	start := time.Now()
	result, err := a.runtime.Execute(ctx, toolrun.Func(func(ctx context.Context, args map[string]any) (any, error) {
		return a.aggregator.Execute(ctx, toolID, args)
	}), args)
	elapsed := time.Since(start)

	for _, h := range a.hooks {
		h.AfterToolCall(ctx, call, result, err, elapsed)
	}
	return result, err
}

// RunCode executes a code snippet through the sandbox executor. Returns
// ErrSandboxDisabled when the spec does not enable the sandbox.
func (a *Agent) RunCode(ctx context.Context, params sandbox.Params) (sandbox.Outcome, error) {
	if a.executor == nil {
		return sandbox.Outcome{}, ErrSandboxDisabled
	}
	return a.executor.Run(ctx, params)
}

// SearchTools finds indexed tools matching the query.
func (a *Agent) SearchTools(query string, limit int) ([]index.Summary, error) {
	return a.index.Search(query, limit)
}

// ToolDoc retrieves tool documentation at the given detail level.
func (a *Agent) ToolDoc(toolID string, level tooldoc.DetailLevel) (tooldoc.ToolDoc, error) {
	return a.docs.DescribeTool(toolID, level)
}

// Tools lists every tool exposed by the enabled providers.
func (a *Agent) Tools(ctx context.Context) ([]model.Tool, error) {
	return a.aggregator.ListAllTools(ctx)
}

// SystemPrompt builds the system prompt for the current spec and tool set.
func (a *Agent) SystemPrompt(ctx context.Context) (string, error) {
	tools, err := a.aggregator.ListAllTools(ctx)
	if err != nil {
		return "", err
	}
	pc := prompt.Context{ToolDescriptions: make([]string, 0, len(tools))}
	for _, t := range tools {
		id := backend.FormatToolID(t.Namespace, t.Name)
		pc.ToolDescriptions = append(pc.ToolDescriptions, id+": "+t.Description)
	}
	if a.spec.Reasoning.Enabled && a.spec.Reasoning.Mode == policy.ReasoningTools && a.spec.Reasoning.AddInstructions {
		pc.Extra = append(pc.Extra, reason.Instructions)
	}
	return prompt.BuildWithContext(a.spec, pc), nil
}

// Spec returns the spec the agent was assembled from.
func (a *Agent) Spec() policy.Spec {
	return a.spec
}

// History returns the session frame log.
func (a *Agent) History() *session.History {
	return a.history
}

// Scratchpad returns the reasoning step log, or nil when reasoning tools
// are not enabled.
func (a *Agent) Scratchpad() *reason.Scratchpad {
	return a.scratchpad
}

// Knowledge returns the knowledge store, or nil when knowledge retrieval
// is not enabled.
func (a *Agent) Knowledge() *knowledge.Store {
	return a.know
}

// Registry returns the provider registry for advanced wiring.
func (a *Agent) Registry() *backend.Registry {
	return a.registry
}

// Metrics returns collected per-tool metrics. Nil map when metrics
// collection is not enabled.
func (a *Agent) Metrics() map[string]ToolMetrics {
	if a.metrics == nil {
		return nil
	}
	return a.metrics.Snapshot()
}
