package validator

import (
	"fmt"
	"slices"

	"github.com/aretw0/turing/pkg/domain"
)

// Severity ranks an Issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a finding about a definition that parsed successfully.
// Issues never prevent a run.
type Issue struct {
	Severity Severity     `json:"severity"`
	State    domain.State `json:"state"`
	Message  string       `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Severity, i.Message)
}

// Validate inspects the definition starting from its initial state.
// halt is the reserved Halt state name; pass "" when no state is reserved.
func Validate(def *domain.Definition, halt domain.State) []Issue {
	var issues []Issue
	table := def.Table

	reachable := reachableStates(table, def.Initial)

	if halt != "" {
		if table.Outgoing(halt) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				State:    halt,
				Message:  fmt.Sprintf("transitions from halt state %q are never used", halt),
			})
		}
		if !reachable[halt] {
			issues = append(issues, Issue{
				Severity: SeverityInfo,
				State:    halt,
				Message:  fmt.Sprintf("halt state %q is never reached; runs end only when no transition applies", halt),
			})
		}
	}

	for _, s := range table.States() {
		if !reachable[s] {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				State:    s,
				Message:  fmt.Sprintf("state %q is unreachable from %q", s, def.Initial),
			})
			continue
		}
		if s != halt && !table.Outgoing(s) {
			issues = append(issues, Issue{
				Severity: SeverityInfo,
				State:    s,
				Message:  fmt.Sprintf("state %q has no outgoing transitions; entering it halts with no_transition", s),
			})
		}
	}

	return issues
}

// reachableStates crawls the table breadth-first from the initial state.
func reachableStates(table *domain.Table, initial domain.State) map[domain.State]bool {
	next := make(map[domain.State][]domain.State)
	for _, tr := range table.Transitions() {
		if !slices.Contains(next[tr.From], tr.To) {
			next[tr.From] = append(next[tr.From], tr.To)
		}
	}

	visited := map[domain.State]bool{initial: true}
	queue := []domain.State{initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, target := range next[current] {
			if !visited[target] {
				visited[target] = true
				queue = append(queue, target)
			}
		}
	}
	return visited
}
