package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rjhall/agentrt/policy"
	"github.com/rjhall/agentrt/toolrun"
)

// Errors for workflow operations.
var (
	// ErrStepFailed is returned when a step fails and the policy stops
	// the workflow.
	ErrStepFailed = errors.New("workflow step failed")
)

// StepFunc executes one workflow step. The input map carries the workflow
// input plus each completed dependency's value under the dependency's
// step name.
type StepFunc func(ctx context.Context, input map[string]any) (any, error)

// StepResult records one step's outcome.
type StepResult struct {
	// Name is the step name.
	Name string

	// Value is the step's return value on success.
	Value any

	// Err is the step's failure, nil on success.
	Err error

	// Skipped is true when the step never ran because a dependency
	// failed or the workflow stopped.
	Skipped bool
}

// WorkflowResult is the outcome of one workflow run.
type WorkflowResult struct {
	// Steps holds one result per step, in policy order.
	Steps []StepResult

	// Values maps completed step names to their values.
	Values map[string]any

	// Failed is true when any step failed.
	Failed bool
}

// Workflow executes a dependency graph of named steps. Steps whose
// dependencies have all completed run in declaration order, or
// concurrently per dependency level when the policy enables parallelism.
type Workflow struct {
	policy    policy.WorkflowPolicy
	executors map[string]StepFunc
	logger    Logger
}

// NewWorkflow builds a workflow from the spec's workflow policy. Every
// step's executor name must have an entry in executors.
func NewWorkflow(spec policy.Spec, executors map[string]StepFunc, logger Logger) (*Workflow, error) {
	p := spec.Workflow
	if !p.Enabled {
		return nil, fmt.Errorf("%w: workflow is not enabled", policy.ErrConfiguration)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for _, s := range p.Steps {
		if _, ok := executors[s.Executor]; !ok {
			return nil, fmt.Errorf("%w: step %q has no executor %q", policy.ErrConfiguration, s.Name, s.Executor)
		}
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Workflow{policy: p, executors: executors, logger: logger}, nil
}

// Name returns the workflow name.
func (w *Workflow) Name() string {
	return w.policy.Name
}

// Run executes the workflow over the given input. The returned result
// always carries one entry per step; the error is non-nil only when a
// step failed and the policy stops on failure.
func (w *Workflow) Run(ctx context.Context, input map[string]any) (WorkflowResult, error) {
	byName := make(map[string]policy.WorkflowStep, len(w.policy.Steps))
	for _, s := range w.policy.Steps {
		byName[s.Name] = s
	}
	levels := dependencyLevels(w.policy.Steps)

	var mu sync.Mutex
	results := make(map[string]StepResult, len(w.policy.Steps))
	values := make(map[string]any)
	stopped := false

	for _, level := range levels {
		if stopped {
			break
		}

		runnable := make([]policy.WorkflowStep, 0, len(level))
		for _, name := range level {
			step := byName[name]
			if blocked(step, results) {
				results[name] = StepResult{Name: name, Skipped: true}
				continue
			}
			runnable = append(runnable, step)
		}

		runStep := func(ctx context.Context, step policy.WorkflowStep) error {
			w.logger.Info("workflow step", "workflow", w.policy.Name, "step", step.Name)
			mu.Lock()
			in := stepInput(input, step, values)
			mu.Unlock()
			value, err := w.execute(ctx, step, in)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[step.Name] = StepResult{Name: step.Name, Err: err}
				return err
			}
			results[step.Name] = StepResult{Name: step.Name, Value: value}
			values[step.Name] = value
			return nil
		}

		var levelErr error
		if w.policy.Parallel && len(runnable) > 1 {
			g, gctx := errgroup.WithContext(ctx)
			for _, step := range runnable {
				g.Go(func() error { return runStep(gctx, step) })
			}
			levelErr = g.Wait()
		} else {
			for _, step := range runnable {
				if err := runStep(ctx, step); err != nil {
					levelErr = err
					if w.policy.StopOnFailure {
						break
					}
				}
			}
		}
		if levelErr != nil && w.policy.StopOnFailure {
			stopped = true
		}
	}

	result := WorkflowResult{Values: values}
	var firstErr error
	for _, s := range w.policy.Steps {
		sr, ok := results[s.Name]
		if !ok {
			sr = StepResult{Name: s.Name, Skipped: true}
		}
		if sr.Err != nil {
			result.Failed = true
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %s: %v", ErrStepFailed, sr.Name, sr.Err)
			}
		}
		result.Steps = append(result.Steps, sr)
	}
	if w.policy.StopOnFailure && firstErr != nil {
		return result, firstErr
	}
	return result, nil
}

// execute runs one step, through a retry-enforcing runtime when the step
// asks for retries.
func (w *Workflow) execute(ctx context.Context, step policy.WorkflowStep, input map[string]any) (any, error) {
	fn := w.executors[step.Executor]
	if !step.RetryOnFailure || step.MaxRetries == 0 {
		return fn(ctx, input)
	}

	p := policy.DefaultToolPolicy()
	p.MaxRetries = step.MaxRetries
	p.ErrorStrategy = policy.ErrorStrategyRaise
	rt, err := toolrun.New(p)
	if err != nil {
		return nil, err
	}
	result, err := rt.Execute(ctx, toolrun.Func(func(ctx context.Context, args map[string]any) (any, error) {
		return fn(ctx, args)
	}), input)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// stepInput builds a step's input: the workflow input plus each
// dependency's value under the dependency name.
func stepInput(input map[string]any, step policy.WorkflowStep, values map[string]any) map[string]any {
	merged := make(map[string]any, len(input)+len(step.DependsOn))
	for k, v := range input {
		merged[k] = v
	}
	for _, dep := range step.DependsOn {
		if v, ok := values[dep]; ok {
			merged[dep] = v
		}
	}
	return merged
}

// blocked reports whether any dependency failed or was skipped.
func blocked(step policy.WorkflowStep, results map[string]StepResult) bool {
	for _, dep := range step.DependsOn {
		if r, ok := results[dep]; ok && (r.Err != nil || r.Skipped) {
			return true
		}
	}
	return false
}

// dependencyLevels groups step names into levels where every step's
// dependencies sit in an earlier level. The policy's cycle check
// guarantees termination.
func dependencyLevels(steps []policy.WorkflowStep) [][]string {
	placed := make(map[string]bool, len(steps))
	var levels [][]string

	remaining := make([]policy.WorkflowStep, len(steps))
	copy(remaining, steps)

	for len(remaining) > 0 {
		var level []string
		var next []policy.WorkflowStep
		for _, s := range remaining {
			ready := true
			for _, dep := range s.DependsOn {
				if !placed[dep] {
					ready = false
					break
				}
			}
			if ready {
				level = append(level, s.Name)
			} else {
				next = append(next, s)
			}
		}
		if len(level) == 0 {
			// Unreachable for a validated acyclic policy.
			break
		}
		for _, name := range level {
			placed[name] = true
		}
		levels = append(levels, level)
		remaining = next
	}
	return levels
}
