// Package reason exposes explicit think and analyze tools backed by a
// per-session reasoning scratchpad.
package reason

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	provider "github.com/rjhall/agentrt/backend/local"
	"github.com/rjhall/agentrt/policy"
)

// BackendName is the provider name, and therefore the tool namespace, of
// the reasoning tool set.
const BackendName = "reason"

// Step is one recorded reasoning step.
type Step struct {
	Kind    string    `json:"kind"`
	Title   string    `json:"title,omitempty"`
	Thought string    `json:"thought"`
	At      time.Time `json:"at"`
}

// Scratchpad accumulates reasoning steps in order.
type Scratchpad struct {
	mu    sync.Mutex
	steps []Step
}

// NewScratchpad creates an empty scratchpad.
func NewScratchpad() *Scratchpad {
	return &Scratchpad{}
}

// Record appends a step and returns its 1-based position.
func (s *Scratchpad) Record(step Step) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	step.At = time.Now().UTC()
	s.steps = append(s.steps, step)
	return len(s.steps)
}

// Steps returns a copy of the recorded steps.
func (s *Scratchpad) Steps() []Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Reset clears the scratchpad.
func (s *Scratchpad) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = nil
}

func (s *Scratchpad) think(_ context.Context, args map[string]any) (any, error) {
	thought, _ := args["thought"].(string)
	if strings.TrimSpace(thought) == "" {
		return nil, fmt.Errorf("thought is required")
	}
	title, _ := args["title"].(string)

	n := s.Record(Step{Kind: "think", Title: title, Thought: thought})
	return map[string]any{
		"recorded": true,
		"step":     n,
	}, nil
}

func (s *Scratchpad) analyze(_ context.Context, args map[string]any) (any, error) {
	result, _ := args["result"].(string)
	if strings.TrimSpace(result) == "" {
		return nil, fmt.Errorf("result is required")
	}
	nextAction, _ := args["next_action"].(string)

	n := s.Record(Step{Kind: "analyze", Thought: result})
	out := map[string]any{
		"recorded": true,
		"step":     n,
	}
	if nextAction != "" {
		out["next_action"] = nextAction
	}
	return out, nil
}

// Instructions is appended to the system prompt when the reasoning policy
// requests usage guidance.
const Instructions = "Use the think tool to reason step by step before acting, " +
	"and the analyze tool to evaluate intermediate results before deciding the next action."

// New builds the reasoning tool provider and its backing scratchpad.
// Returns nils unless the policy enables reasoning in tools mode.
func New(p policy.ReasoningPolicy) (*provider.Backend, *Scratchpad) {
	if !p.Enabled || p.Mode != policy.ReasoningTools {
		return nil, nil
	}

	pad := NewScratchpad()
	b := provider.New(BackendName,
		provider.ToolDef{
			Name:        "think",
			Description: "Record a reasoning step before taking an action.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"thought": map[string]any{"type": "string"},
					"title":   map[string]any{"type": "string"},
				},
				"required": []any{"thought"},
			},
			Tags:    []string{"reasoning"},
			Handler: pad.think,
		},
		provider.ToolDef{
			Name:        "analyze",
			Description: "Evaluate an intermediate result and decide the next action.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"result":      map[string]any{"type": "string"},
					"next_action": map[string]any{"type": "string"},
				},
				"required": []any{"result"},
			},
			Tags:    []string{"reasoning"},
			Handler: pad.analyze,
		},
	)
	return b, pad
}
