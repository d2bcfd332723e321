package toolrun

import "errors"

// Sentinel errors for failure classification under the raise strategy.
var (
	// ErrTimeout reports an attempt that did not complete within the
	// policy timeout. Its message is the stable reason string surfaced
	// in structured failure envelopes.
	ErrTimeout = errors.New("Tool execution timed out")

	// ErrExecution reports a callable that returned an error or panicked.
	ErrExecution = errors.New("tool execution failed")

	// ErrRetriesExhausted reports that every attempt in the retry budget
	// was consumed without success.
	ErrRetriesExhausted = errors.New("retry budget exhausted")
)
