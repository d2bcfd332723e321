package local

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rjhall/agentrt/policy"
)

// Workspace errors.
var (
	ErrOutsideWorkspace = errors.New("path outside workspace root")
	ErrWriteDisabled    = errors.New("write operations are disabled")
)

// Workspace confines file operations to a root directory.
type Workspace struct {
	root         string
	maxFileBytes int64
	maxResults   int
	allowWrite   bool
}

// NewWorkspace creates a workspace from a coding policy. The workspace root
// must be an absolute path.
func NewWorkspace(p policy.CodingPolicy) (*Workspace, error) {
	root := filepath.Clean(strings.TrimSpace(p.WorkspaceRoot))
	if root == "" || !filepath.IsAbs(root) {
		return nil, fmt.Errorf("workspace root must be an absolute path: %q", p.WorkspaceRoot)
	}
	if real, err := filepath.EvalSymlinks(root); err == nil {
		root = filepath.Clean(real)
	}
	return &Workspace{
		root:         root,
		maxFileBytes: int64(p.MaxFileSizeKB) * 1024,
		maxResults:   p.MaxSearchResults,
		allowWrite:   p.AllowWrite,
	}, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string { return w.root }

// Resolve validates that path stays inside the workspace and returns its
// absolute form. Relative paths are joined onto the workspace root.
// Symlinks are resolved before the containment check so a link cannot
// escape the root.
func (w *Workspace) Resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path is empty")
	}
	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(w.root, candidate)
	}
	candidate = filepath.Clean(candidate)

	resolved, err := resolveForCheck(candidate)
	if err != nil {
		return "", err
	}
	if !hasPathPrefix(resolved, w.root) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}
	return candidate, nil
}

// resolveForCheck resolves symlinks in path. When the path does not exist
// yet (the write case) its nearest existing parent is resolved instead.
func resolveForCheck(path string) (string, error) {
	real, err := filepath.EvalSymlinks(path)
	if err == nil {
		return filepath.Clean(real), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(path)
	for {
		realDir, dirErr := filepath.EvalSymlinks(dir)
		if dirErr == nil {
			leaf := strings.TrimPrefix(path, dir)
			leaf = strings.TrimPrefix(leaf, string(filepath.Separator))
			return filepath.Clean(filepath.Join(realDir, leaf)), nil
		}
		if !errors.Is(dirErr, os.ErrNotExist) {
			return "", fmt.Errorf("resolve parent path: %w", dirErr)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no existing parent for path: %s", path)
		}
		dir = parent
	}
}

func hasPathPrefix(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}

// isBinary reports whether the file looks binary, judged by a NUL byte in
// the first 8KB. Unreadable files count as binary.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, 8192)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return true
	}
	for _, b := range buf[:n] {
		if b == 0 {
			return true
		}
	}
	return false
}
