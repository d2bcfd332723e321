package policy

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ParseSpec decodes a spec from YAML, overlaying the document on top of the
// defaults, and validates the result. A missing session ID is generated.
func ParseSpec(data []byte) (Spec, error) {
	s := DefaultSpec()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Spec{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if s.SessionID == "" {
		s.SessionID = uuid.NewString()
	}
	if err := s.Validate(); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// LoadSpec reads and parses a YAML spec file.
func LoadSpec(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: read %s: %v", ErrConfiguration, path, err)
	}
	return ParseSpec(data)
}
