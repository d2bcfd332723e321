package toolrun

// Result is the uniform envelope produced by one execution attempt sequence.
// Exactly one of Data and Error is meaningful: Success reports which.
type Result struct {
	// Success is true iff an attempt completed without timing out or
	// failing.
	Success bool `json:"success"`

	// Data is the (possibly truncated) return value. Nil on failure.
	Data any `json:"data,omitempty"`

	// Error is the human-readable failure reason under the structured
	// strategy. Empty on success.
	Error string `json:"error,omitempty"`
}

// OK reports whether the execution succeeded.
func (r Result) OK() bool {
	return r.Success
}
