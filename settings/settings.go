// Package settings loads process-wide configuration from the environment,
// with optional .env file support. Settings are read once and passed as a
// struct; packages never read the environment themselves.
package settings

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY"
	EnvSandboxAPIKey    = "SANDBOX_API_KEY"
	EnvSandboxAPIURL    = "SANDBOX_API_URL"
	EnvMCPURL           = "MCP_URL"
)

// Settings holds the external service credentials and endpoints an agent
// runtime needs. Empty fields mean the corresponding service is not
// configured.
type Settings struct {
	// OpenRouterAPIKey authenticates model inference requests.
	OpenRouterAPIKey string

	// SandboxAPIKey authenticates against the remote sandbox service.
	SandboxAPIKey string

	// SandboxAPIURL is the remote sandbox service endpoint.
	SandboxAPIURL string

	// MCPURL is the default MCP server endpoint.
	MCPURL string
}

// Load reads settings from the environment. A .env file in the working
// directory is merged first when present; real environment variables win
// over .env entries.
func Load() Settings {
	return LoadFile(".env")
}

// LoadFile reads settings from the environment after merging the named
// .env file. A missing file is not an error.
func LoadFile(path string) Settings {
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}
	return Settings{
		OpenRouterAPIKey: os.Getenv(EnvOpenRouterAPIKey),
		SandboxAPIKey:    os.Getenv(EnvSandboxAPIKey),
		SandboxAPIURL:    os.Getenv(EnvSandboxAPIURL),
		MCPURL:           os.Getenv(EnvMCPURL),
	}
}

// HasSandbox reports whether the remote sandbox service is configured.
func (s Settings) HasSandbox() bool {
	return s.SandboxAPIURL != ""
}

// HasMCP reports whether a default MCP endpoint is configured.
func (s Settings) HasMCP() bool {
	return s.MCPURL != ""
}
