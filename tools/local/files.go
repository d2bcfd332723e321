package local

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

func (w *Workspace) readFile(_ context.Context, args map[string]any) (any, error) {
	target, err := w.Resolve(argString(args, "path", ""))
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("file not found: %s", target)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("not a file: %s", target)
	}
	if info.Size() > w.maxFileBytes {
		return nil, fmt.Errorf("file too large (max %dKB)", w.maxFileBytes/1024)
	}
	if isBinary(target) {
		return nil, fmt.Errorf("cannot read binary file: %s", target)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	totalLines := len(lines)

	startLine := argInt(args, "start_line", 1)
	endLine := argInt(args, "end_line", totalLines)
	if startLine < 1 {
		startLine = 1
	}
	if endLine > totalLines {
		endLine = totalLines
	}
	if startLine > endLine {
		return nil, fmt.Errorf("invalid line range %d..%d", startLine, endLine)
	}
	lines = lines[startLine-1 : endLine]

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d: %s", startLine+i, line)
	}

	return map[string]any{
		"content":     b.String(),
		"line_count":  totalLines,
		"lines_shown": len(lines),
		"path":        target,
	}, nil
}

func (w *Workspace) writeFile(_ context.Context, args map[string]any) (any, error) {
	if !w.allowWrite {
		return nil, ErrWriteDisabled
	}
	target, err := w.Resolve(argString(args, "path", ""))
	if err != nil {
		return nil, err
	}
	content := argString(args, "content", "")

	if argBool(args, "create_directories", true) {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, err
		}
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return nil, err
	}
	return map[string]any{
		"success":       true,
		"path":          target,
		"bytes_written": len(content),
	}, nil
}

func (w *Workspace) editFile(_ context.Context, args map[string]any) (any, error) {
	if !w.allowWrite {
		return nil, ErrWriteDisabled
	}
	target, err := w.Resolve(argString(args, "path", ""))
	if err != nil {
		return nil, err
	}
	oldText := argString(args, "old_text", "")
	if oldText == "" {
		return nil, fmt.Errorf("old_text is required")
	}
	newText := argString(args, "new_text", "")

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("file not found: %s", target)
	}
	content := string(data)
	if !strings.Contains(content, oldText) {
		return nil, fmt.Errorf("text not found in file: %s", target)
	}

	count := 1
	if argBool(args, "replace_all", false) {
		count = strings.Count(content, oldText)
		content = strings.ReplaceAll(content, oldText, newText)
	} else {
		content = strings.Replace(content, oldText, newText, 1)
	}

	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return nil, err
	}
	return map[string]any{
		"success":      true,
		"path":         target,
		"replacements": count,
	}, nil
}

func (w *Workspace) listDirectory(_ context.Context, args map[string]any) (any, error) {
	target, err := w.Resolve(argString(args, "path", "."))
	if err != nil {
		return nil, err
	}
	showHidden := argBool(args, "show_hidden", false)

	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, fmt.Errorf("directory not found: %s", target)
	}

	var dirs, files []string
	for _, entry := range entries {
		name := entry.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			dirs = append(dirs, name+"/")
		} else {
			files = append(files, name)
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)

	return map[string]any{
		"path":        target,
		"directories": dirs,
		"files":       files,
		"total":       len(dirs) + len(files),
	}, nil
}

func (w *Workspace) findFiles(ctx context.Context, args map[string]any) (any, error) {
	target, err := w.Resolve(argString(args, "path", "."))
	if err != nil {
		return nil, err
	}
	pattern := argString(args, "pattern", "*")
	maxDepth := argInt(args, "max_depth", 0)

	var matches []string
	truncated := false
	err = filepath.WalkDir(target, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(target, p)
		if relErr != nil {
			return nil
		}
		if maxDepth > 0 && len(strings.Split(rel, string(filepath.Separator))) > maxDepth {
			return nil
		}
		if !matchGlob(pattern, rel) {
			return nil
		}
		matches = append(matches, rel)
		if len(matches) >= w.maxResults {
			truncated = true
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"pattern":   pattern,
		"base_path": target,
		"matches":   matches,
		"count":     len(matches),
		"truncated": truncated,
	}, nil
}

func (w *Workspace) grep(ctx context.Context, args map[string]any) (any, error) {
	target, err := w.Resolve(argString(args, "path", "."))
	if err != nil {
		return nil, err
	}
	pattern := argString(args, "pattern", "")
	if pattern == "" {
		return nil, fmt.Errorf("pattern is required")
	}
	if !argBool(args, "case_sensitive", true) {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	filePattern := argString(args, "file_pattern", "*")
	contextLines := argInt(args, "context_lines", 0)

	type match struct {
		File    string           `json:"file"`
		Matches []map[string]any `json:"matches"`
	}
	var results []match
	totalMatches := 0

	err = filepath.WalkDir(target, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !matchGlob(filePattern, filepath.Base(p)) {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil || info.Size() > w.maxFileBytes || isBinary(p) {
			return nil
		}
		data, readErr := os.ReadFile(p)
		if readErr != nil {
			return nil
		}
		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")

		var fileMatches []map[string]any
		for i, line := range lines {
			if !re.MatchString(line) {
				continue
			}
			m := map[string]any{
				"line_number": i + 1,
				"content":     line,
			}
			if contextLines > 0 {
				start := max(0, i-contextLines)
				end := min(len(lines), i+contextLines+1)
				snippet := make([]string, 0, end-start)
				for j := start; j < end; j++ {
					snippet = append(snippet, fmt.Sprintf("%d: %s", j+1, lines[j]))
				}
				m["context"] = snippet
			}
			fileMatches = append(fileMatches, m)
			totalMatches++
			if totalMatches >= w.maxResults {
				break
			}
		}
		if len(fileMatches) > 0 {
			rel, relErr := filepath.Rel(target, p)
			if relErr != nil {
				rel = p
			}
			results = append(results, match{File: rel, Matches: fileMatches})
		}
		if totalMatches >= w.maxResults {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"pattern":       re.String(),
		"base_path":     target,
		"results":       results,
		"total_matches": totalMatches,
		"truncated":     totalMatches >= w.maxResults,
	}, nil
}

func (w *Workspace) fileInfo(_ context.Context, args map[string]any) (any, error) {
	target, err := w.Resolve(argString(args, "path", ""))
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("path not found: %s", target)
	}

	kind := "file"
	out := map[string]any{
		"path":       target,
		"name":       info.Name(),
		"size_bytes": info.Size(),
	}
	if info.IsDir() {
		kind = "directory"
	} else {
		out["is_binary"] = isBinary(target)
		out["extension"] = filepath.Ext(target)
	}
	out["type"] = kind
	return out, nil
}

// matchGlob matches rel against pattern. Patterns with "**" match the
// trailing component against the file's base name; plain patterns without a
// separator match the base name only.
func matchGlob(pattern, rel string) bool {
	rel = filepath.ToSlash(rel)
	if strings.Contains(pattern, "**") {
		suffix := pattern[strings.LastIndex(pattern, "**")+2:]
		suffix = strings.TrimPrefix(suffix, "/")
		if suffix == "" {
			return true
		}
		ok, err := path.Match(suffix, path.Base(rel))
		return err == nil && ok
	}
	if strings.Contains(pattern, "/") {
		ok, err := path.Match(pattern, rel)
		return err == nil && ok
	}
	ok, err := path.Match(pattern, path.Base(rel))
	return err == nil && ok
}
