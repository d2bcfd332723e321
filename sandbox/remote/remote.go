// Package remote forwards code execution to an external sandbox service
// over HTTP. The service contract is a single execute endpoint taking the
// snippet, language, and limits, and returning the captured output.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rjhall/agentrt/sandbox"
)

// Errors for remote engine operations.
var (
	// ErrNotConfigured is returned when no service URL is configured.
	ErrNotConfigured = errors.New("remote sandbox not configured")

	// ErrRequestFailed is returned when the service cannot be reached.
	ErrRequestFailed = errors.New("remote sandbox request failed")
)

// DefaultTimeoutOverhead is added to the run timeout to cover network
// latency.
const DefaultTimeoutOverhead = 5 * time.Second

// Config configures the remote engine.
type Config struct {
	// BaseURL is the sandbox service endpoint. Required.
	BaseURL string

	// APIKey is an optional bearer token.
	APIKey string

	// HTTPClient overrides the default client.
	HTTPClient *http.Client

	// TimeoutOverhead is added to each run's timeout for network latency.
	// Default: 5s.
	TimeoutOverhead time.Duration
}

// Engine executes code on a remote sandbox service.
type Engine struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	overhead time.Duration
}

// New creates a remote engine.
func New(cfg Config) (*Engine, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrNotConfigured
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	overhead := cfg.TimeoutOverhead
	if overhead == 0 {
		overhead = DefaultTimeoutOverhead
	}
	return &Engine{
		baseURL:  base,
		apiKey:   cfg.APIKey,
		client:   client,
		overhead: overhead,
	}, nil
}

// Kind returns "remote".
func (e *Engine) Kind() string { return "remote" }

// Endpoint returns the configured service URL.
func (e *Engine) Endpoint() string { return e.baseURL }

// executeRequest is the wire request to the sandbox service.
type executeRequest struct {
	Language      string            `json:"language,omitempty"`
	Code          string            `json:"code"`
	TimeoutMillis int64             `json:"timeout_ms,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
}

// executeResponse is the wire response from the sandbox service.
type executeResponse struct {
	Result *resultPayload `json:"result,omitempty"`
	Error  *errorPayload  `json:"error,omitempty"`
}

type resultPayload struct {
	Value          any    `json:"value,omitempty"`
	Stdout         string `json:"stdout,omitempty"`
	Stderr         string `json:"stderr,omitempty"`
	ExitCode       int    `json:"exit_code,omitempty"`
	DurationMillis int64  `json:"duration_ms,omitempty"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Run forwards the snippet to the service's execute endpoint.
func (e *Engine) Run(ctx context.Context, params sandbox.Params) (sandbox.Outcome, error) {
	payload := executeRequest{
		Language: params.Language,
		Code:     params.Code,
		Env:      params.Env,
	}
	if params.Timeout > 0 {
		payload.TimeoutMillis = params.Timeout.Milliseconds()

		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout+e.overhead)
		defer cancel()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return sandbox.Outcome{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/execute", bytes.NewReader(body))
	if err != nil {
		return sandbox.Outcome{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return sandbox.Outcome{}, ctx.Err()
		}
		return sandbox.Outcome{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return sandbox.Outcome{}, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return sandbox.Outcome{}, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, firstLine(string(data)))
	}

	var decoded executeResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return sandbox.Outcome{}, fmt.Errorf("%w: decode response: %v", ErrRequestFailed, err)
	}
	if decoded.Error != nil {
		return sandbox.Outcome{}, fmt.Errorf("%w: %s", sandbox.ErrExecution, decoded.Error.Message)
	}
	if decoded.Result == nil {
		return sandbox.Outcome{}, fmt.Errorf("%w: missing result", ErrRequestFailed)
	}

	outcome := sandbox.Outcome{
		Value:      decoded.Result.Value,
		Stdout:     decoded.Result.Stdout,
		Stderr:     decoded.Result.Stderr,
		ExitCode:   decoded.Result.ExitCode,
		DurationMs: decoded.Result.DurationMillis,
	}
	if outcome.DurationMs == 0 {
		outcome.DurationMs = time.Since(start).Milliseconds()
	}
	if outcome.Value == nil {
		outcome.Value, outcome.Stdout = sandbox.ExtractOutValue(outcome.Stdout)
	}
	if outcome.ExitCode != 0 {
		return outcome, fmt.Errorf("%w: exit %d: %s", sandbox.ErrExecution, outcome.ExitCode, firstLine(outcome.Stderr))
	}
	return outcome, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
