package toolrun

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rjhall/agentrt/policy"
)

// testPolicy returns a valid policy with the given retry budget and
// strategy, using a generous timeout so only explicit timeout tests hit it.
func testPolicy(t *testing.T, retries int, strategy policy.ErrorStrategy) policy.ToolPolicy {
	t.Helper()
	return policy.ToolPolicy{
		Timeout:        policy.Duration(5 * time.Second),
		MaxRetries:     retries,
		MaxResultChars: 10,
		ErrorStrategy:  strategy,
	}
}

func newRuntime(t *testing.T, p policy.ToolPolicy) *Runtime {
	t.Helper()
	rt, err := New(p)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return rt
}

func TestNew_InvalidPolicy(t *testing.T) {
	cases := []struct {
		name string
		p    policy.ToolPolicy
	}{
		{"zero timeout", policy.ToolPolicy{Timeout: 0, MaxRetries: 1, MaxResultChars: 10, ErrorStrategy: policy.ErrorStrategyStructured}},
		{"negative retries", policy.ToolPolicy{Timeout: policy.Duration(time.Second), MaxRetries: -1, MaxResultChars: 10, ErrorStrategy: policy.ErrorStrategyStructured}},
		{"zero result chars", policy.ToolPolicy{Timeout: policy.Duration(time.Second), MaxRetries: 1, MaxResultChars: 0, ErrorStrategy: policy.ErrorStrategyStructured}},
		{"bad strategy", policy.ToolPolicy{Timeout: policy.Duration(time.Second), MaxRetries: 1, MaxResultChars: 10, ErrorStrategy: "explode"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.p); !errors.Is(err, policy.ErrConfiguration) {
				t.Errorf("New() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestExecute_SuccessFirstAttempt(t *testing.T) {
	rt := newRuntime(t, testPolicy(t, 3, policy.ErrorStrategyStructured))

	var attempts atomic.Int64
	fn := Func(func(ctx context.Context, args map[string]any) (any, error) {
		attempts.Add(1)
		return "ok", nil
	})

	res, err := rt.Execute(context.Background(), fn, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Success {
		t.Error("Success = false, want true")
	}
	if res.Data != "ok" {
		t.Errorf("Data = %v, want \"ok\"", res.Data)
	}
	if res.Error != "" {
		t.Errorf("Error = %q, want empty", res.Error)
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1 (success is not retried)", got)
	}
}

func TestExecute_AllAttemptsFail(t *testing.T) {
	const retries = 2
	rt := newRuntime(t, testPolicy(t, retries, policy.ErrorStrategyStructured))

	var attempts atomic.Int64
	fn := Func(func(ctx context.Context, args map[string]any) (any, error) {
		attempts.Add(1)
		return nil, errors.New("boom")
	})

	res, err := rt.Execute(context.Background(), fn, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil under structured strategy", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
	if res.Data != nil {
		t.Errorf("Data = %v, want nil", res.Data)
	}
	if res.Error != "boom" {
		t.Errorf("Error = %q, want \"boom\"", res.Error)
	}
	if got := attempts.Load(); got != retries+1 {
		t.Errorf("attempts = %d, want %d", got, retries+1)
	}
}

func TestExecute_SucceedsAfterFailures(t *testing.T) {
	const failFirst = 2
	rt := newRuntime(t, testPolicy(t, 3, policy.ErrorStrategyStructured))

	var attempts atomic.Int64
	fn := Func(func(ctx context.Context, args map[string]any) (any, error) {
		n := attempts.Add(1)
		if n <= failFirst {
			return nil, fmt.Errorf("transient %d", n)
		}
		return "done", nil
	})

	res, err := rt.Execute(context.Background(), fn, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Success || res.Data != "done" {
		t.Errorf("result = %+v, want success with \"done\"", res)
	}
	if got := attempts.Load(); got != failFirst+1 {
		t.Errorf("attempts = %d, want %d", got, failFirst+1)
	}
}

func TestExecute_RaiseStrategy(t *testing.T) {
	rt := newRuntime(t, testPolicy(t, 1, policy.ErrorStrategyRaise))

	fn := Func(func(ctx context.Context, args map[string]any) (any, error) {
		return nil, errors.New("boom")
	})

	_, err := rt.Execute(context.Background(), fn, nil)
	if err == nil {
		t.Fatal("Execute() error = nil, want error under raise strategy")
	}
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Errorf("error = %v, want ErrRetriesExhausted", err)
	}
	if !errors.Is(err, ErrExecution) {
		t.Errorf("error = %v, want ErrExecution", err)
	}
}

func TestExecute_Timeout_Cooperative(t *testing.T) {
	p := testPolicy(t, 0, policy.ErrorStrategyStructured)
	p.Timeout = policy.Duration(20 * time.Millisecond)
	rt := newRuntime(t, p)

	fn := Func(func(ctx context.Context, args map[string]any) (any, error) {
		select {
		case <-time.After(time.Second):
			return "too late", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	res, err := rt.Execute(context.Background(), fn, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
	if res.Error != ErrTimeout.Error() {
		t.Errorf("Error = %q, want %q", res.Error, ErrTimeout.Error())
	}
}

func TestExecute_Timeout_Blocking(t *testing.T) {
	p := testPolicy(t, 0, policy.ErrorStrategyRaise)
	p.Timeout = policy.Duration(20 * time.Millisecond)
	rt := newRuntime(t, p)

	fn := Blocking(func(args map[string]any) (any, error) {
		time.Sleep(300 * time.Millisecond)
		return "too late", nil
	})

	_, err := rt.Execute(context.Background(), fn, nil)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout", err)
	}
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Errorf("error = %v, want ErrRetriesExhausted", err)
	}
}

func TestExecute_TimeoutRetriedThenSucceeds(t *testing.T) {
	p := testPolicy(t, 1, policy.ErrorStrategyStructured)
	p.Timeout = policy.Duration(30 * time.Millisecond)
	rt := newRuntime(t, p)

	var attempts atomic.Int64
	fn := Func(func(ctx context.Context, args map[string]any) (any, error) {
		if attempts.Add(1) == 1 {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return "second", nil
	})

	res, err := rt.Execute(context.Background(), fn, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Success || res.Data != "second" {
		t.Errorf("result = %+v, want success with \"second\"", res)
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestExecute_PanicBecomesFailure(t *testing.T) {
	rt := newRuntime(t, testPolicy(t, 0, policy.ErrorStrategyStructured))

	fn := Func(func(ctx context.Context, args map[string]any) (any, error) {
		panic("bad handler")
	})

	res, err := rt.Execute(context.Background(), fn, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
	if res.Error == "" {
		t.Error("Error is empty, want panic reason")
	}
}

func TestExecute_ParentCancellationStopsRetries(t *testing.T) {
	rt := newRuntime(t, testPolicy(t, 50, policy.ErrorStrategyStructured))

	ctx, cancel := context.WithCancel(context.Background())
	var attempts atomic.Int64
	fn := Func(func(ctx context.Context, args map[string]any) (any, error) {
		attempts.Add(1)
		cancel()
		return nil, errors.New("failing")
	})

	res, err := rt.Execute(ctx, fn, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
	if got := attempts.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1 after parent cancellation", got)
	}
}

func TestExecute_ArgsForwarded(t *testing.T) {
	rt := newRuntime(t, testPolicy(t, 0, policy.ErrorStrategyStructured))

	fn := Func(func(ctx context.Context, args map[string]any) (any, error) {
		return args["a"].(int) + args["b"].(int), nil
	})

	res, err := rt.Execute(context.Background(), fn, map[string]any{"a": 2, "b": 3})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Data != 5 {
		t.Errorf("Data = %v, want 5", res.Data)
	}
}

// Concrete conformance scenario: timeout 5s, 2 retries, 10 result chars,
// structured; the callable fails with "boom" on every attempt.
func TestExecute_ConformanceStructuredFailure(t *testing.T) {
	p := policy.ToolPolicy{
		Timeout:        policy.Duration(5 * time.Second),
		MaxRetries:     2,
		MaxResultChars: 10,
		ErrorStrategy:  policy.ErrorStrategyStructured,
	}
	rt := newRuntime(t, p)

	var attempts atomic.Int64
	fn := Func(func(ctx context.Context, args map[string]any) (any, error) {
		attempts.Add(1)
		return nil, errors.New("boom")
	})

	res, err := rt.Execute(context.Background(), fn, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Success || res.Data != nil || res.Error != "boom" {
		t.Errorf("result = %+v, want {Success:false Data:<nil> Error:boom}", res)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

// Concrete conformance scenario: same policy, 20-character result, 10-char
// cap.
func TestExecute_ConformanceTruncation(t *testing.T) {
	rt := newRuntime(t, testPolicy(t, 2, policy.ErrorStrategyStructured))

	fn := Func(func(ctx context.Context, args map[string]any) (any, error) {
		return "abcdefghijklmnopqrst", nil
	})

	res, err := rt.Execute(context.Background(), fn, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Data != "abcdefghij"+TruncationMarker {
		t.Errorf("Data = %q, want %q", res.Data, "abcdefghij"+TruncationMarker)
	}
}
