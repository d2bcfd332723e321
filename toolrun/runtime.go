package toolrun

import (
	"context"
	"errors"
	"fmt"

	"github.com/rjhall/agentrt/policy"
)

// Runtime executes callables under the constraints of a tool policy. It is
// stateless across calls aside from the shared read-only policy and is safe
// for concurrent use.
type Runtime struct {
	policy policy.ToolPolicy
}

// New creates a Runtime for the given policy. Returns an error wrapping
// policy.ErrConfiguration if the policy is invalid.
func New(p policy.ToolPolicy) (*Runtime, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Runtime{policy: p}, nil
}

// Policy returns the policy the runtime enforces.
func (r *Runtime) Policy() policy.ToolPolicy {
	return r.policy
}

// outcome carries one attempt's return value or error.
type outcome struct {
	value any
	err   error
}

// Execute runs inv with args under the runtime's policy.
//
// Up to MaxRetries+1 attempts are made, strictly in sequence with no delay
// between them; the first success terminates the loop. Each attempt is
// bounded by the policy timeout. On success the returned Result carries the
// (possibly truncated) value and the error is nil.
//
// When all attempts fail, the outcome depends on the error strategy:
// structured returns Result{Success: false, Error: reason} with a nil error;
// raise returns a zero Result and an error matching ErrRetriesExhausted and
// either ErrTimeout or ErrExecution. Only the final attempt's failure reason
// is surfaced.
//
// Cancelling ctx stops the retry loop; the cancellation is reported like any
// other failure, per the error strategy.
func (r *Runtime) Execute(ctx context.Context, inv Invokable, args map[string]any) (Result, error) {
	var lastErr error

	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		value, err := r.attempt(ctx, inv, args)
		if err == nil {
			return Result{Success: true, Data: Truncate(value, r.policy.MaxResultChars)}, nil
		}
		lastErr = err
		if ctx.Err() != nil && !errors.Is(err, ErrTimeout) {
			// Parent context gone; further attempts cannot succeed.
			break
		}
	}
	return r.fail(lastErr)
}

// attempt runs a single bounded invocation.
func (r *Runtime) attempt(parent context.Context, inv Invokable, args map[string]any) (any, error) {
	ctx, cancel := context.WithTimeout(parent, r.policy.Timeout.Std())
	defer cancel()

	// Buffered so an abandoned attempt can still complete its send.
	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				ch <- outcome{err: fmt.Errorf("%w: panic: %v", ErrExecution, p)}
			}
		}()
		value, err := inv.Invoke(ctx, args)
		ch <- outcome{value: value, err: err}
	}()

	select {
	case out := <-ch:
		return out.value, out.err
	case <-ctx.Done():
		if parent.Err() != nil {
			return nil, parent.Err()
		}
		return nil, ErrTimeout
	}
}

// fail reports the exhausted retry budget per the policy's error strategy.
func (r *Runtime) fail(lastErr error) (Result, error) {
	reason := failureReason(lastErr)
	if r.policy.ErrorStrategy == policy.ErrorStrategyRaise {
		if errors.Is(lastErr, ErrTimeout) {
			return Result{}, fmt.Errorf("%w: %w", ErrRetriesExhausted, ErrTimeout)
		}
		return Result{}, fmt.Errorf("%w: %w: %s", ErrRetriesExhausted, ErrExecution, reason)
	}
	return Result{Success: false, Error: reason}, nil
}

// failureReason extracts the reason string surfaced to callers: the timeout
// sentinel message for timeouts, the callable's own message otherwise.
func failureReason(err error) string {
	switch {
	case err == nil:
		return ErrRetriesExhausted.Error()
	case errors.Is(err, ErrTimeout):
		return ErrTimeout.Error()
	default:
		return err.Error()
	}
}
