// Package toolrun hardens tool execution against hangs, transient failures,
// and oversized outputs.
//
// A [Runtime] executes a single [Invokable] under the limits of a
// [policy.ToolPolicy]: up to MaxRetries+1 strictly sequential attempts, each
// bounded by the policy timeout, with successful string results truncated to
// MaxResultChars. Every execution produces a uniform [Result] envelope; under
// the structured error strategy the runtime never propagates an error, under
// the raise strategy the final failure is returned as a Go error instead.
//
//	rt, err := toolrun.New(policy.DefaultToolPolicy())
//	if err != nil {
//	    // invalid policy
//	}
//	res, err := rt.Execute(ctx, toolrun.Func(handler), args)
//
// # Timeout cooperation
//
// The per-attempt deadline is enforced on the wait, not on the work. A
// [Func] receives the attempt context and stops promptly when it honors
// cancellation. A [Blocking] callable cannot be preempted: on timeout its
// goroutine is abandoned and keeps running to completion in the background.
// Callables that must respect the deadline have to either take a context or
// run on a cancellable substrate of their own.
//
// # Retries and side effects
//
// The runtime performs no idempotency checking. A callable that fails after
// performing side effects is retried blindly; whether that is safe is the
// callable's responsibility.
//
// A Runtime holds no mutable state between calls and is safe for concurrent
// use. Attempts within one Execute call are ordered and non-overlapping; no
// ordering exists across concurrent Execute calls.
package toolrun
