//nolint:lll // Long validation messages
package validator

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/amp-labs/txprocess/process"
)

// Severity defines the severity level of a validation issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// RuleResult contains both errors and warnings from a rule check.
type RuleResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// Rule defines a validation rule that can check a definition for specific issues.
type Rule interface {
	Name() string
	Severity() Severity
	Check(cfg process.Config) RuleResult
}

// DefaultRules returns the standard set of validation rules.
func DefaultRules() []Rule {
	return []Rule{
		&initialStateRule{},
		&danglingDestinationRule{},
		&unreachableStateRule{},
		&ambiguousTransitionRule{},
		&undeclaredTransitionRule{},
		&unknownAttentionStateRule{},
		&namingConventionRule{},
	}
}

func declaredStates(cfg process.Config) map[process.State]bool {
	declared := make(map[process.State]bool, len(cfg.States))
	for _, node := range cfg.States {
		declared[node.Name] = true
	}

	return declared
}

// initialStateRule checks that the initial state is named and declared.
type initialStateRule struct{}

func (r *initialStateRule) Name() string {
	return "InitialState"
}

func (r *initialStateRule) Severity() Severity {
	return SeverityError
}

func (r *initialStateRule) Check(cfg process.Config) RuleResult {
	if cfg.InitialState != "" && declaredStates(cfg)[cfg.InitialState] {
		return RuleResult{}
	}

	msg := "Definition has no initial state"
	if cfg.InitialState != "" {
		msg = fmt.Sprintf("Initial state '%s' is not declared", cfg.InitialState)
	}

	return RuleResult{Errors: []ValidationError{{
		Code:     "INITIAL_STATE_MISSING",
		Message:  msg,
		Location: Location{State: cfg.InitialState},
		Fix:      "Declare the initial state under states",
	}}}
}

// danglingDestinationRule checks that every edge ends in a declared state.
type danglingDestinationRule struct{}

func (r *danglingDestinationRule) Name() string {
	return "DanglingDestination"
}

func (r *danglingDestinationRule) Severity() Severity {
	return SeverityError
}

func (r *danglingDestinationRule) Check(cfg process.Config) RuleResult {
	var errors []ValidationError

	declared := declaredStates(cfg)

	for _, node := range cfg.States {
		for _, edge := range node.Edges {
			if declared[edge.To] {
				continue
			}

			errors = append(errors, ValidationError{
				Code:     "DANGLING_DESTINATION",
				Message:  fmt.Sprintf("Transition '%s' from '%s' leads to undeclared state '%s'", edge.Transition, node.Name, edge.To),
				Location: Location{State: node.Name, Transition: edge.Transition},
				Fix:      fmt.Sprintf("Declare '%s' as a state, even if it has no outgoing transitions", edge.To),
			})
		}
	}

	return RuleResult{Errors: errors}
}

// unreachableStateRule checks for states that cannot be reached from the initial state.
type unreachableStateRule struct{}

func (r *unreachableStateRule) Name() string {
	return "UnreachableState"
}

func (r *unreachableStateRule) Severity() Severity {
	return SeverityError
}

func (r *unreachableStateRule) Check(cfg process.Config) RuleResult {
	if !declaredStates(cfg)[cfg.InitialState] {
		return RuleResult{}
	}

	edges := make(map[process.State][]process.Edge, len(cfg.States))
	for _, node := range cfg.States {
		edges[node.Name] = node.Edges
	}

	// BFS from the initial state
	reachable := map[process.State]bool{cfg.InitialState: true}

	queue := []process.State{cfg.InitialState}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, edge := range edges[current] {
			if !reachable[edge.To] {
				reachable[edge.To] = true
				queue = append(queue, edge.To)
			}
		}
	}

	var errors []ValidationError

	for _, node := range cfg.States {
		if reachable[node.Name] {
			continue
		}

		errors = append(errors, ValidationError{
			Code:     "UNREACHABLE_STATE",
			Message:  fmt.Sprintf("State '%s' cannot be reached from initial state '%s'", node.Name, cfg.InitialState),
			Location: Location{State: node.Name},
			Fix:      fmt.Sprintf("Add a transition to '%s' or remove the state", node.Name),
		})
	}

	return RuleResult{Errors: errors}
}

// ambiguousTransitionRule warns about labels leaving more than one state. Such a
// label always resolves to the first source in scan order.
type ambiguousTransitionRule struct{}

func (r *ambiguousTransitionRule) Name() string {
	return "AmbiguousTransition"
}

func (r *ambiguousTransitionRule) Severity() Severity {
	return SeverityWarning
}

func (r *ambiguousTransitionRule) Check(cfg process.Config) RuleResult {
	var order []process.Transition

	sources := make(map[process.Transition][]process.State)

	for _, node := range cfg.States {
		for _, edge := range node.Edges {
			known, seen := sources[edge.Transition]
			if !seen {
				order = append(order, edge.Transition)
			}

			if !slices.Contains(known, node.Name) {
				sources[edge.Transition] = append(known, node.Name)
			}
		}
	}

	var warnings []ValidationWarning

	for _, transition := range order {
		states := sources[transition]
		if len(states) < 2 { //nolint:mnd
			continue
		}

		warnings = append(warnings, ValidationWarning{
			Code:     "AMBIGUOUS_TRANSITION",
			Message:  fmt.Sprintf("Transition '%s' leaves states %v; it always resolves from '%s'", transition, states, states[0]),
			Location: Location{Transition: transition},
		})
	}

	return RuleResult{Warnings: warnings}
}

// undeclaredTransitionRule warns when a declared vocabulary misses an edge label,
// or when a privileged transition is never used by an edge.
type undeclaredTransitionRule struct{}

func (r *undeclaredTransitionRule) Name() string {
	return "UndeclaredTransition"
}

func (r *undeclaredTransitionRule) Severity() Severity {
	return SeverityWarning
}

func (r *undeclaredTransitionRule) Check(cfg process.Config) RuleResult {
	var warnings []ValidationWarning

	used := make(map[process.Transition]bool)
	reported := make(map[process.Transition]bool)

	for _, node := range cfg.States {
		for _, edge := range node.Edges {
			used[edge.Transition] = true

			if len(cfg.Transitions) == 0 || slices.Contains(cfg.Transitions, edge.Transition) || reported[edge.Transition] {
				continue
			}

			reported[edge.Transition] = true

			warnings = append(warnings, ValidationWarning{
				Code:     "UNDECLARED_TRANSITION",
				Message:  fmt.Sprintf("Transition '%s' is used by state '%s' but missing from transitions", edge.Transition, node.Name),
				Location: Location{State: node.Name, Transition: edge.Transition},
			})
		}
	}

	for _, transition := range cfg.PrivilegedTransitions {
		if used[transition] {
			continue
		}

		warnings = append(warnings, ValidationWarning{
			Code:     "UNDECLARED_TRANSITION",
			Message:  fmt.Sprintf("Privileged transition '%s' is not used by any state", transition),
			Location: Location{Transition: transition},
		})
	}

	return RuleResult{Warnings: warnings}
}

// unknownAttentionStateRule checks that state lists in the metadata name real states.
type unknownAttentionStateRule struct{}

func (r *unknownAttentionStateRule) Name() string {
	return "UnknownAttentionState"
}

func (r *unknownAttentionStateRule) Severity() Severity {
	return SeverityError
}

func (r *unknownAttentionStateRule) Check(cfg process.Config) RuleResult {
	known := declaredStates(cfg)

	for _, node := range cfg.States {
		for _, edge := range node.Edges {
			known[edge.To] = true
		}
	}

	lists := []struct {
		field  string
		states []process.State
	}{
		{"providerAttention", cfg.ProviderAttention},
		{"customerAttention", cfg.CustomerAttention},
		{"completedStates", cfg.CompletedStates},
		{"refundedStates", cfg.RefundedStates},
	}

	var errors []ValidationError

	for _, list := range lists {
		for _, state := range list.states {
			if known[state] {
				continue
			}

			errors = append(errors, ValidationError{
				Code:     "UNKNOWN_ATTENTION_STATE",
				Message:  fmt.Sprintf("%s lists '%s', which is not a state of the process", list.field, state),
				Location: Location{State: state},
				Fix:      fmt.Sprintf("Remove '%s' from %s or fix its spelling", state, list.field),
			})
		}
	}

	return RuleResult{Errors: errors}
}

var (
	kebabCase      = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	transitionName = regexp.MustCompile(`^transition/[a-z0-9]+(-[a-z0-9]+)*$`)
)

// namingConventionRule warns about names that are not kebab-case, and transitions
// without the transition/ prefix.
type namingConventionRule struct{}

func (r *namingConventionRule) Name() string {
	return "NamingConvention"
}

func (r *namingConventionRule) Severity() Severity {
	return SeverityWarning
}

func (r *namingConventionRule) Check(cfg process.Config) RuleResult {
	var warnings []ValidationWarning

	for _, node := range cfg.States {
		if !kebabCase.MatchString(string(node.Name)) {
			warnings = append(warnings, ValidationWarning{
				Code:     "NAMING_CONVENTION",
				Message:  fmt.Sprintf("State '%s' should use kebab-case naming", node.Name),
				Location: Location{State: node.Name},
			})
		}
	}

	seen := make(map[process.Transition]bool)

	for _, node := range cfg.States {
		for _, edge := range node.Edges {
			if seen[edge.Transition] {
				continue
			}

			seen[edge.Transition] = true

			if !transitionName.MatchString(string(edge.Transition)) {
				warnings = append(warnings, ValidationWarning{
					Code:     "NAMING_CONVENTION",
					Message:  fmt.Sprintf("Transition '%s' should look like 'transition/kebab-case-name'", edge.Transition),
					Location: Location{Transition: edge.Transition},
				})
			}
		}
	}

	return RuleResult{Warnings: warnings}
}
