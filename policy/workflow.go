package policy

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// StepKind names the executor type of a workflow step.
type StepKind string

// Workflow step executor kinds.
const (
	StepAgent    StepKind = "agent"
	StepTeam     StepKind = "team"
	StepFunction StepKind = "function"
)

// DefaultWorkflowName is used when a workflow is not explicitly named.
const DefaultWorkflowName = "default_workflow"

// WorkflowStep defines one step of a workflow.
type WorkflowStep struct {
	// Name is the unique step name.
	Name string `yaml:"name" json:"name"`

	// Description is optional human-readable step documentation.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Kind selects the executor type.
	Kind StepKind `yaml:"kind" json:"kind"`

	// Executor names the agent, team, or function that runs this step.
	Executor string `yaml:"executor" json:"executor"`

	// DependsOn lists step names that must complete first.
	DependsOn []string `yaml:"dependsOn,omitempty" json:"dependsOn,omitempty"`

	// RetryOnFailure enables bounded retries for this step.
	RetryOnFailure bool `yaml:"retryOnFailure" json:"retryOnFailure"`

	// MaxRetries is the retry budget when RetryOnFailure is set.
	MaxRetries int `yaml:"maxRetries" json:"maxRetries"`
}

// Validate checks the step. Failures wrap ErrConfiguration.
func (s WorkflowStep) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Kind, validation.Required,
			validation.In(StepAgent, StepTeam, StepFunction)),
		validation.Field(&s.Executor, validation.Required),
		validation.Field(&s.MaxRetries, validation.Min(0)),
	)
	return wrapConfig("workflow step", err)
}

// WorkflowPolicy configures a multi-step workflow as a dependency graph of
// named steps.
type WorkflowPolicy struct {
	// Enabled turns workflow assembly on.
	Enabled bool `yaml:"enabled" json:"enabled"`

	// Name identifies the workflow.
	Name string `yaml:"name" json:"name"`

	// Description is optional human-readable documentation.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Steps are the workflow steps.
	Steps []WorkflowStep `yaml:"steps,omitempty" json:"steps,omitempty"`

	// Parallel executes independent steps concurrently.
	Parallel bool `yaml:"parallel" json:"parallel"`

	// StopOnFailure aborts the workflow on the first failed step.
	StopOnFailure bool `yaml:"stopOnFailure" json:"stopOnFailure"`
}

// DefaultWorkflowPolicy returns the standard (disabled) workflow
// configuration.
func DefaultWorkflowPolicy() WorkflowPolicy {
	return WorkflowPolicy{
		Enabled:       false,
		Name:          DefaultWorkflowName,
		StopOnFailure: true,
	}
}

// Validate checks the policy: step names must be unique, dependencies must
// reference known steps, and the dependency graph must be acyclic. Failures
// wrap ErrConfiguration.
func (p WorkflowPolicy) Validate() error {
	if !p.Enabled {
		return nil
	}
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Steps, validation.Required.Error("an enabled workflow needs at least one step")),
	)
	if err != nil {
		return wrapConfig("workflow", err)
	}

	byName := make(map[string]WorkflowStep, len(p.Steps))
	for _, s := range p.Steps {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := byName[s.Name]; dup {
			return wrapConfig("workflow", errDuplicate("step", s.Name))
		}
		byName[s.Name] = s
	}
	for _, s := range p.Steps {
		for _, dep := range s.DependsOn {
			if _, ok := byName[dep]; !ok {
				return wrapConfig("workflow",
					fmt.Errorf("step %q depends on unknown step %q", s.Name, dep))
			}
		}
	}
	if cycle := findCycle(byName); cycle != "" {
		return wrapConfig("workflow", fmt.Errorf("dependency cycle through step %q", cycle))
	}
	return nil
}

// findCycle returns the name of a step participating in a dependency cycle,
// or "" if the graph is acyclic.
func findCycle(steps map[string]WorkflowStep) string {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // fully explored
	)
	color := make(map[string]int, len(steps))

	var visit func(name string) string
	visit = func(name string) string {
		color[name] = gray
		for _, dep := range steps[name].DependsOn {
			switch color[dep] {
			case gray:
				return dep
			case white:
				if c := visit(dep); c != "" {
					return c
				}
			}
		}
		color[name] = black
		return ""
	}

	for name := range steps {
		if color[name] == white {
			if c := visit(name); c != "" {
				return c
			}
		}
	}
	return ""
}
