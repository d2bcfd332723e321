package policy

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Transport names an MCP transport mechanism.
type Transport string

// Supported MCP transports.
const (
	TransportStdio          Transport = "stdio"
	TransportSSE            Transport = "sse"
	TransportStreamableHTTP Transport = "streamable-http"
)

// DefaultMCPToolTimeout bounds individual MCP tool calls.
const DefaultMCPToolTimeout = 30 * time.Second

// MCPServerConfig describes a single MCP server connection.
type MCPServerConfig struct {
	// Name is the unique server name, used as the tool namespace.
	Name string `yaml:"name" json:"name"`

	// URL is the server endpoint.
	URL string `yaml:"url" json:"url"`

	// Transport selects the connection mechanism.
	Transport Transport `yaml:"transport" json:"transport"`

	// Enabled toggles this server without removing its configuration.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// AuthToken is an optional bearer token for the server.
	AuthToken string `yaml:"authToken,omitempty" json:"authToken,omitempty"`
}

// Validate checks the server configuration. Failures wrap ErrConfiguration.
func (c MCPServerConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.URL, validation.Required),
		validation.Field(&c.Transport, validation.Required,
			validation.In(TransportStdio, TransportSSE, TransportStreamableHTTP)),
	)
	return wrapConfig("mcp server", err)
}

// MCPPolicy configures Model Context Protocol tool integration, either a
// single server (URL + Transport) or several named servers.
type MCPPolicy struct {
	// Enabled turns MCP tooling on.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Transport is the connection mechanism for the single-server form.
	Transport Transport `yaml:"transport" json:"transport"`

	// URL is the endpoint for the single-server form.
	URL string `yaml:"url,omitempty" json:"url,omitempty"`

	// Servers configures multiple named servers. When non-empty it takes
	// precedence over URL.
	Servers []MCPServerConfig `yaml:"servers,omitempty" json:"servers,omitempty"`

	// CacheToolDefinitions caches listed tools to avoid re-fetching
	// definitions on every dispatch.
	CacheToolDefinitions bool `yaml:"cacheToolDefinitions" json:"cacheToolDefinitions"`

	// ToolTimeout bounds individual MCP tool calls.
	ToolTimeout Duration `yaml:"toolTimeout" json:"toolTimeout"`
}

// DefaultMCPPolicy returns the standard (disabled) MCP configuration.
func DefaultMCPPolicy() MCPPolicy {
	return MCPPolicy{
		Enabled:              false,
		Transport:            TransportStreamableHTTP,
		CacheToolDefinitions: true,
		ToolTimeout:          Duration(DefaultMCPToolTimeout),
	}
}

// Validate checks the policy. An enabled policy requires either a URL or at
// least one server. Failures wrap ErrConfiguration.
func (p MCPPolicy) Validate() error {
	if !p.Enabled {
		return nil
	}
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Transport, validation.Required,
			validation.In(TransportStdio, TransportSSE, TransportStreamableHTTP)),
		validation.Field(&p.URL,
			validation.Required.When(len(p.Servers) == 0).
				Error("required when MCP is enabled and no servers are configured")),
		validation.Field(&p.ToolTimeout, validation.Required, validation.Min(Duration(1))),
	)
	if err != nil {
		return wrapConfig("mcp", err)
	}
	for _, s := range p.Servers {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ActiveServers returns the enabled server list, synthesizing one entry from
// the single-server form when Servers is empty.
func (p MCPPolicy) ActiveServers() []MCPServerConfig {
	if len(p.Servers) > 0 {
		out := make([]MCPServerConfig, 0, len(p.Servers))
		for _, s := range p.Servers {
			if s.Enabled {
				out = append(out, s)
			}
		}
		return out
	}
	if strings.TrimSpace(p.URL) == "" {
		return nil
	}
	return []MCPServerConfig{{
		Name:      "mcp",
		URL:       strings.TrimSpace(p.URL),
		Transport: p.Transport,
		Enabled:   true,
	}}
}
