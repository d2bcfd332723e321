package policy

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrConfiguration indicates an invalid or incomplete policy configuration.
// It is surfaced at construction/validation time and is never retried.
var ErrConfiguration = errors.New("configuration error")

// errDuplicate reports a duplicated name within a policy list.
func errDuplicate(kind, name string) error {
	return fmt.Errorf("duplicate %s %q", kind, name)
}

// wrapConfig converts a validation error into one that matches
// ErrConfiguration, prefixed with the policy name for context.
func wrapConfig(name string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s: %v", ErrConfiguration, name, verrs)
	}
	return fmt.Errorf("%w: %s: %v", ErrConfiguration, name, err)
}
