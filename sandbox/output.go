package sandbox

import (
	"encoding/json"
	"strings"
)

// ExtractOutValue extracts the __out value from stdout if present. Executed
// code reports its final value by printing a JSON line with an __out key;
// that line is removed from the returned stdout. The first occurrence wins.
func ExtractOutValue(stdout string) (value any, remaining string) {
	if stdout == "" {
		return nil, ""
	}

	lines := strings.Split(stdout, "\n")
	var kept []string
	var found any
	foundAt := -1

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			kept = append(kept, line)
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			if out, exists := obj["__out"]; exists && foundAt == -1 {
				found = out
				foundAt = i
				continue
			}
		}
		kept = append(kept, line)
	}
	return found, strings.Join(kept, "\n")
}
