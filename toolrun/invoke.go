package toolrun

import "context"

// Invokable is a callable the runtime can execute. The two adapters, [Func]
// and [Blocking], cover cooperative and non-cooperative callables; custom
// implementations are free to dispatch however they like.
//
// Contract:
// - Context: Invoke should return promptly once ctx is cancelled; callables
//   that cannot observe ctx are abandoned on timeout (see package doc).
// - Ownership: args are read-only; the returned value is caller-owned.
type Invokable interface {
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// Func adapts a context-aware function. This is the cooperative variant: the
// runtime's per-attempt deadline is delivered through ctx and the function
// is expected to honor cancellation.
type Func func(ctx context.Context, args map[string]any) (any, error)

// Invoke implements Invokable.
func (f Func) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return f(ctx, args)
}

// Blocking adapts a function with no suspension points. The runtime drives
// it on its own goroutine; on timeout the goroutine is abandoned and the
// function runs to completion unobserved.
type Blocking func(args map[string]any) (any, error)

// Invoke implements Invokable. The context is ignored by the wrapped
// function; cancellation is enforced by the runtime's wait.
func (b Blocking) Invoke(_ context.Context, args map[string]any) (any, error) {
	return b(args)
}
