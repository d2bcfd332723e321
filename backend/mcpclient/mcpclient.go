// Package mcpclient provides a capability provider backed by a remote
// Model Context Protocol server. Tools listed by the server are exposed
// through the standard backend interface, so MCP tools dispatch exactly
// like local ones.
package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rjhall/agentrt/backend"
	"github.com/rjhall/agentrt/policy"
)

// clientInfo identifies this client to MCP servers.
var clientInfo = &mcp.Implementation{Name: "agentrt", Version: "0.2.0"}

// Backend implements backend.Backend over a single MCP server connection.
type Backend struct {
	cfg         policy.MCPServerConfig
	callTimeout time.Duration
	cacheTools  bool

	mu      sync.RWMutex
	enabled bool
	session *mcp.ClientSession
	cached  []model.Tool
}

// New creates an MCP provider for the given server configuration. The
// connection is established by Start.
func New(cfg policy.MCPServerConfig, p policy.MCPPolicy) *Backend {
	timeout := p.ToolTimeout.Std()
	if timeout <= 0 {
		timeout = policy.DefaultMCPToolTimeout
	}
	return &Backend{
		cfg:         cfg,
		callTimeout: timeout,
		cacheTools:  p.CacheToolDefinitions,
		enabled:     cfg.Enabled,
	}
}

// Kind returns "mcp".
func (b *Backend) Kind() string { return "mcp" }

// Name returns the configured server name.
func (b *Backend) Name() string { return b.cfg.Name }

// Enabled reports whether the provider serves tools.
func (b *Backend) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// SetEnabled enables or disables the provider without closing the session.
func (b *Backend) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enabled = enabled
}

// Start connects to the MCP server. It is safe to call on an already
// connected provider.
func (b *Backend) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session != nil {
		return nil
	}

	transport, err := buildTransport(b.cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", backend.ErrBackendUnavailable, err)
	}
	client := mcp.NewClient(clientInfo, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("%w: connect %s: %v", backend.ErrBackendUnavailable, b.cfg.Name, err)
	}
	b.session = session
	b.cached = nil
	return nil
}

// Stop closes the session.
func (b *Backend) Stop() error {
	b.mu.Lock()
	session := b.session
	b.session = nil
	b.cached = nil
	b.mu.Unlock()

	if session == nil {
		return nil
	}
	return session.Close()
}

// ListTools fetches the server's tool list. With caching enabled the list
// is fetched once per connection.
func (b *Backend) ListTools(ctx context.Context) ([]model.Tool, error) {
	b.mu.RLock()
	session := b.session
	cached := b.cached
	b.mu.RUnlock()

	if session == nil {
		return nil, fmt.Errorf("%w: %s not connected", backend.ErrBackendUnavailable, b.cfg.Name)
	}
	if b.cacheTools && cached != nil {
		out := make([]model.Tool, len(cached))
		copy(out, cached)
		return out, nil
	}

	listCtx, cancel := context.WithTimeout(ctx, b.callTimeout)
	defer cancel()

	var out []model.Tool
	for tool, err := range session.Tools(listCtx, nil) {
		if err != nil {
			return nil, fmt.Errorf("list tools from %s: %w", b.cfg.Name, err)
		}
		out = append(out, convertTool(b.cfg.Name, tool))
	}

	if b.cacheTools {
		b.mu.Lock()
		if b.session == session {
			b.cached = make([]model.Tool, len(out))
			copy(b.cached, out)
		}
		b.mu.Unlock()
	}
	return out, nil
}

// Execute calls a tool on the server. The result is the first text content
// part, or the JSON-encoded content when no text part is present.
func (b *Backend) Execute(ctx context.Context, tool string, args map[string]any) (any, error) {
	b.mu.RLock()
	enabled := b.enabled
	session := b.session
	b.mu.RUnlock()

	if !enabled {
		return nil, backend.ErrBackendDisabled
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s not connected", backend.ErrBackendUnavailable, b.cfg.Name)
	}

	callCtx, cancel := context.WithTimeout(ctx, b.callTimeout)
	defer cancel()

	res, err := session.CallTool(callCtx, &mcp.CallToolParams{
		Name:      tool,
		Arguments: args,
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("call %s on %s: nil result", tool, b.cfg.Name)
	}
	if res.IsError {
		return nil, fmt.Errorf("%s: %s", tool, firstTextContent(res.Content))
	}
	if txt := firstTextContent(res.Content); txt != "" {
		return txt, nil
	}
	if payload, err := json.Marshal(res.Content); err == nil {
		return string(payload), nil
	}
	return "", nil
}

func convertTool(namespace string, t *mcp.Tool) model.Tool {
	out := model.Tool{Namespace: namespace, Tags: []string{"mcp"}}
	if t != nil {
		out.Tool = *t
	}
	return out
}

func firstTextContent(content []mcp.Content) string {
	for _, part := range content {
		if txt, ok := part.(*mcp.TextContent); ok {
			return txt.Text
		}
	}
	return ""
}

func buildTransport(cfg policy.MCPServerConfig) (mcp.Transport, error) {
	endpoint := strings.TrimSpace(cfg.URL)
	if endpoint == "" {
		return nil, fmt.Errorf("server %s has no URL", cfg.Name)
	}

	switch cfg.Transport {
	case policy.TransportStdio:
		parts := strings.Fields(endpoint)
		cmd := exec.Command(parts[0], parts[1:]...)
		return &mcp.CommandTransport{Command: cmd}, nil
	case policy.TransportSSE:
		return &mcp.SSEClientTransport{
			Endpoint:   endpoint,
			HTTPClient: authClient(cfg.AuthToken),
		}, nil
	case policy.TransportStreamableHTTP:
		return &mcp.StreamableClientTransport{
			Endpoint:   endpoint,
			HTTPClient: authClient(cfg.AuthToken),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported transport %q", cfg.Transport)
	}
}

// authClient returns an http.Client injecting a bearer token, or nil when
// no token is configured so the transport uses its default client.
func authClient(token string) *http.Client {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return &http.Client{Transport: &bearerTransport{token: token}}
}

type bearerTransport struct {
	token string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(clone)
}
