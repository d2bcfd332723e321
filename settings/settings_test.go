package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "SANDBOX_API_URL=https://sandbox.example.com\nSANDBOX_API_KEY=filekey\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvSandboxAPIURL, "")
	t.Setenv(EnvSandboxAPIKey, "")
	os.Unsetenv(EnvSandboxAPIURL)
	os.Unsetenv(EnvSandboxAPIKey)

	s := LoadFile(envPath)
	if s.SandboxAPIURL != "https://sandbox.example.com" {
		t.Errorf("SandboxAPIURL = %q", s.SandboxAPIURL)
	}
	if s.SandboxAPIKey != "filekey" {
		t.Errorf("SandboxAPIKey = %q", s.SandboxAPIKey)
	}
	if !s.HasSandbox() {
		t.Error("HasSandbox() = false")
	}
}

func TestLoadFile_EnvWins(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("MCP_URL=http://from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvMCPURL, "http://from-env")
	s := LoadFile(envPath)
	if s.MCPURL != "http://from-env" {
		t.Errorf("MCPURL = %q, want http://from-env", s.MCPURL)
	}
	if !s.HasMCP() {
		t.Error("HasMCP() = false")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Setenv(EnvOpenRouterAPIKey, "plain")
	s := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	if s.OpenRouterAPIKey != "plain" {
		t.Errorf("OpenRouterAPIKey = %q", s.OpenRouterAPIKey)
	}
	if s.HasSandbox() {
		t.Error("HasSandbox() = true with no configuration")
	}
}
