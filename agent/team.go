package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rjhall/agentrt/policy"
	"github.com/rjhall/agentrt/session"
)

// Errors for team operations.
var (
	// ErrUnknownMember is returned when a task is routed to a member the
	// team does not have.
	ErrUnknownMember = errors.New("unknown team member")

	// ErrTeamMode is returned when an operation does not match the
	// team's coordination mode.
	ErrTeamMode = errors.New("operation not available in this team mode")
)

// RunFunc produces a member's answer to a task. Model inference stays
// outside this module; callers supply the function that drives it.
type RunFunc func(ctx context.Context, task string) (string, error)

// LeaderFunc drives the coordinating leader. It receives the member roster
// and a delegate function for handing sub-tasks to members.
type LeaderFunc func(ctx context.Context, task string, members []MemberInfo, delegate DelegateFunc) (string, error)

// DelegateFunc hands a sub-task to a named member.
type DelegateFunc func(ctx context.Context, member, task string) (string, error)

// MemberInfo describes one team member for the leader and for callers.
type MemberInfo struct {
	Name         string
	Role         string
	Instructions []string
	Tools        []string
}

// TeamOptions configures team assembly.
type TeamOptions struct {
	// Runs maps member names to their run functions. Every member in
	// the policy needs an entry.
	Runs map[string]RunFunc

	// Leader drives coordinate mode. Required for that mode.
	Leader LeaderFunc

	// History is the shared session log member interactions are copied
	// into when the policy enables sharing. Optional.
	History *session.History

	// Logger receives team log output. Optional.
	Logger Logger
}

// TeamResult is the outcome of one team task.
type TeamResult struct {
	// Content is the team's answer.
	Content string

	// MemberResponses holds each member's individual response, present
	// when the policy enables ShowMembersResponses.
	MemberResponses map[string]string
}

// Team coordinates multiple members over one task according to the team
// policy's mode.
type Team struct {
	policy  policy.TeamPolicy
	runs    map[string]RunFunc
	leader  LeaderFunc
	history *session.History
	logger  Logger
}

// NewTeam assembles a team from the spec's team policy.
func NewTeam(spec policy.Spec, opts TeamOptions) (*Team, error) {
	p := spec.Team
	if !p.Enabled {
		return nil, fmt.Errorf("%w: team is not enabled", policy.ErrConfiguration)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for _, m := range p.Members {
		if _, ok := opts.Runs[m.Name]; !ok {
			return nil, fmt.Errorf("%w: member %q has no run function", policy.ErrConfiguration, m.Name)
		}
	}
	if p.Mode == policy.TeamCoordinate && opts.Leader == nil {
		return nil, fmt.Errorf("%w: coordinate mode requires a leader", policy.ErrConfiguration)
	}
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	return &Team{
		policy:  p,
		runs:    opts.Runs,
		leader:  opts.Leader,
		history: opts.History,
		logger:  logger,
	}, nil
}

// Members returns the roster in policy order.
func (t *Team) Members() []MemberInfo {
	out := make([]MemberInfo, len(t.policy.Members))
	for i, m := range t.policy.Members {
		out[i] = MemberInfo{
			Name:         m.Name,
			Role:         m.Role,
			Instructions: m.Instructions,
			Tools:        m.Tools,
		}
	}
	return out
}

// Mode returns the coordination mode.
func (t *Team) Mode() policy.TeamMode {
	return t.policy.Mode
}

// Run executes a task per the team's mode: coordinate hands the task to
// the leader, collaborate fans it out to every member. Route mode
// requires a target; use Route instead.
func (t *Team) Run(ctx context.Context, task string) (TeamResult, error) {
	switch t.policy.Mode {
	case policy.TeamCoordinate:
		return t.coordinate(ctx, task)
	case policy.TeamCollaborate:
		return t.collaborate(ctx, task)
	default:
		return TeamResult{}, fmt.Errorf("%w: route mode takes a member, use Route", ErrTeamMode)
	}
}

// Route sends a task directly to the named member.
func (t *Team) Route(ctx context.Context, member, task string) (TeamResult, error) {
	response, err := t.runMember(ctx, member, task)
	if err != nil {
		return TeamResult{}, err
	}
	result := TeamResult{Content: response}
	if t.policy.ShowMembersResponses {
		result.MemberResponses = map[string]string{member: response}
	}
	return result, nil
}

// coordinate hands the task to the leader, which delegates sub-tasks to
// members as it sees fit.
func (t *Team) coordinate(ctx context.Context, task string) (TeamResult, error) {
	responses := make(map[string]string)
	var mu sync.Mutex

	delegate := DelegateFunc(func(ctx context.Context, member, subtask string) (string, error) {
		response, err := t.runMember(ctx, member, subtask)
		if err != nil {
			return "", err
		}
		mu.Lock()
		responses[member] = response
		mu.Unlock()
		return response, nil
	})

	var members []MemberInfo
	if t.policy.MemberInformationTool {
		members = t.Members()
	}
	content, err := t.leader(ctx, task, members, delegate)
	if err != nil {
		return TeamResult{}, err
	}

	result := TeamResult{Content: content}
	if t.policy.ShowMembersResponses && len(responses) > 0 {
		result.MemberResponses = responses
	}
	return result, nil
}

// collaborate fans the task out to every member concurrently and joins
// the responses in roster order.
func (t *Team) collaborate(ctx context.Context, task string) (TeamResult, error) {
	responses := make(map[string]string, len(t.policy.Members))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, m := range t.policy.Members {
		g.Go(func() error {
			response, err := t.runMember(ctx, m.Name, task)
			if err != nil {
				return err
			}
			mu.Lock()
			responses[m.Name] = response
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TeamResult{}, err
	}

	names := make([]string, 0, len(responses))
	for name := range responses {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("## %s\n\n%s", name, responses[name]))
	}

	result := TeamResult{Content: strings.Join(parts, "\n\n")}
	if t.policy.ShowMembersResponses {
		result.MemberResponses = responses
	}
	return result, nil
}

// runMember executes one member's run function, sharing the exchange into
// the team history when the policy asks for it.
func (t *Team) runMember(ctx context.Context, member, task string) (string, error) {
	run, ok := t.runs[member]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownMember, member)
	}
	t.logger.Info("member task", "member", member)

	response, err := run(ctx, task)
	if err != nil {
		return "", fmt.Errorf("member %s: %w", member, err)
	}

	if t.policy.ShareMemberInteractions && t.history != nil {
		meta := map[string]any{"member": member}
		t.history.Append(session.Frame{Role: session.RoleUser, Content: task, Metadata: meta})
		t.history.Append(session.Frame{Role: session.RoleAssistant, Content: response, Metadata: meta})
	}
	return response, nil
}
