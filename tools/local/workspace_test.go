package local

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rjhall/agentrt/policy"
)

func testWorkspace(t *testing.T) *Workspace {
	t.Helper()
	root := t.TempDir()
	ws, err := NewWorkspace(policy.DefaultCodingPolicy(root))
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}
	return ws
}

func TestNewWorkspace_RelativeRoot(t *testing.T) {
	_, err := NewWorkspace(policy.DefaultCodingPolicy("relative/path"))
	if err == nil {
		t.Error("NewWorkspace() should reject a relative root")
	}
}

func TestWorkspace_Resolve(t *testing.T) {
	ws := testWorkspace(t)

	got, err := ws.Resolve("sub/file.txt")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := filepath.Join(ws.Root(), "sub", "file.txt")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestWorkspace_ResolveEscape(t *testing.T) {
	ws := testWorkspace(t)

	for _, path := range []string{"../outside.txt", "/etc/passwd", "sub/../../escape"} {
		if _, err := ws.Resolve(path); !errors.Is(err, ErrOutsideWorkspace) {
			t.Errorf("Resolve(%q) error = %v, want ErrOutsideWorkspace", path, err)
		}
	}
}

func TestWorkspace_ResolveEmpty(t *testing.T) {
	ws := testWorkspace(t)
	if _, err := ws.Resolve("  "); err == nil {
		t.Error("Resolve() should reject empty paths")
	}
}

func TestWorkspace_ResolveSymlinkEscape(t *testing.T) {
	ws := testWorkspace(t)

	outside := t.TempDir()
	link := filepath.Join(ws.Root(), "sneaky")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if _, err := ws.Resolve("sneaky/data.txt"); !errors.Is(err, ErrOutsideWorkspace) {
		t.Errorf("Resolve() through symlink error = %v, want ErrOutsideWorkspace", err)
	}
}

func TestIsBinary(t *testing.T) {
	dir := t.TempDir()

	text := filepath.Join(dir, "text.txt")
	if err := os.WriteFile(text, []byte("plain text\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	bin := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(bin, []byte{0x7f, 0x45, 0x00, 0x01}, 0o644); err != nil {
		t.Fatal(err)
	}

	if isBinary(text) {
		t.Error("isBinary() = true for text file")
	}
	if !isBinary(bin) {
		t.Error("isBinary() = false for binary file")
	}
	if !isBinary(filepath.Join(dir, "missing")) {
		t.Error("isBinary() = false for unreadable file")
	}
}
