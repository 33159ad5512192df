package process

import (
	"slices"
	"strings"
)

const releaseMarker = "/release-"

// Definition is a named process: its graph plus the metadata callers need to
// present it. A Definition is immutable once built; every accessor returns a copy.
type Definition struct {
	name              string
	alias             string
	unitTypes         []UnitType
	graph             Graph
	transitions       []Transition
	providerAttention []State
	customerAttention []State
	privileged        []Transition
	completed         []State
	refunded          []State
}

// NewDefinition builds a Definition from cfg. When cfg.Transitions is empty the
// vocabulary is taken from the graph's edge labels in scan order.
func NewDefinition(cfg Config) (*Definition, error) {
	if cfg.Name == "" {
		return nil, invalid("", ErrNameRequired)
	}

	if cfg.Alias != "" && !validAlias(cfg.Name, cfg.Alias) {
		return nil, invalid(cfg.Name, ErrAliasMalformed)
	}

	for _, unit := range cfg.UnitTypes {
		if !unit.Valid() {
			return nil, invalid(cfg.Name, &unitError{unit: unit})
		}
	}

	graph, err := NewGraph(cfg.InitialState, cfg.States...)
	if err != nil {
		return nil, invalid(cfg.Name, err)
	}

	transitions := slices.Clone(cfg.Transitions)
	if len(transitions) == 0 {
		transitions = graph.Transitions()
	}

	return &Definition{
		name:              cfg.Name,
		alias:             cfg.Alias,
		unitTypes:         slices.Clone(cfg.UnitTypes),
		graph:             graph,
		transitions:       transitions,
		providerAttention: slices.Clone(cfg.ProviderAttention),
		customerAttention: slices.Clone(cfg.CustomerAttention),
		privileged:        slices.Clone(cfg.PrivilegedTransitions),
		completed:         slices.Clone(cfg.CompletedStates),
		refunded:          slices.Clone(cfg.RefundedStates),
	}, nil
}

func validAlias(name, alias string) bool {
	version, ok := strings.CutPrefix(alias, name+releaseMarker)
	if !ok || version == "" {
		return false
	}

	for _, r := range version {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

type unitError struct {
	unit UnitType
}

func (e *unitError) Error() string {
	return ErrUnknownUnitType.Error() + ": " + string(e.unit)
}

func (e *unitError) Unwrap() error {
	return ErrUnknownUnitType
}

// NameFromAlias returns the process name part of an alias ("default-booking/release-1"
// gives "default-booking"). A string without a slash is returned as is.
func NameFromAlias(alias string) string {
	name, _, _ := strings.Cut(alias, "/")

	return name
}

// Name returns the canonical process name.
func (d *Definition) Name() string {
	return d.name
}

// Alias returns the versioned name, "<name>/release-<version>".
func (d *Definition) Alias() string {
	return d.alias
}

// Graph returns the process graph.
func (d *Definition) Graph() Graph {
	return d.graph
}

// UnitTypes returns the unit types the process supports.
func (d *Definition) UnitTypes() []UnitType {
	return slices.Clone(d.unitTypes)
}

// Transitions returns the process's transition vocabulary.
func (d *Definition) Transitions() []Transition {
	return slices.Clone(d.transitions)
}

// StatesNeedingProviderAttention returns the states in which the provider is expected to act.
func (d *Definition) StatesNeedingProviderAttention() []State {
	return slices.Clone(d.providerAttention)
}

// StatesNeedingCustomerAttention returns the states in which the customer is expected to act.
func (d *Definition) StatesNeedingCustomerAttention() []State {
	return slices.Clone(d.customerAttention)
}

// PrivilegedTransitions returns the transitions that must be taken through a trusted backend.
func (d *Definition) PrivilegedTransitions() []Transition {
	return slices.Clone(d.privileged)
}

// CompletedStates returns the states that count as a completed transaction.
func (d *Definition) CompletedStates() []State {
	return slices.Clone(d.completed)
}

// RefundedStates returns the states in which the payment has been refunded.
func (d *Definition) RefundedStates() []State {
	return slices.Clone(d.refunded)
}

// Config returns a Config that rebuilds an equal Definition.
func (d *Definition) Config() Config {
	return Config{
		Name:                  d.name,
		Alias:                 d.alias,
		UnitTypes:             d.UnitTypes(),
		InitialState:          d.graph.Initial(),
		Transitions:           d.Transitions(),
		ProviderAttention:     d.StatesNeedingProviderAttention(),
		CustomerAttention:     d.StatesNeedingCustomerAttention(),
		PrivilegedTransitions: d.PrivilegedTransitions(),
		CompletedStates:       d.CompletedStates(),
		RefundedStates:        d.RefundedStates(),
		States:                d.graph.Nodes(),
	}
}

// State returns the state tx is in now. See CurrentState.
func (d *Definition) State(tx *Transaction) (State, bool) {
	return CurrentState(d, tx)
}

// StateAfterTransition returns the state reached by taking t.
func (d *Definition) StateAfterTransition(t Transition) (State, bool) {
	if d == nil {
		return "", false
	}

	return ForwardTransition(d.graph, t)
}

// TransitionsToStates returns the transitions leading into any of the given states.
// See TransitionsIntoAny.
func (d *Definition) TransitionsToStates(states []State) []Transition {
	return TransitionsIntoAny(d, states)
}

// HasPassedState reports whether tx has ever entered s. See HasPassedState.
func (d *Definition) HasPassedState(s State, tx *Transaction) bool {
	return HasPassedState(d, s, tx)
}

// IsPrivileged reports whether t must be invoked through a trusted backend.
func (d *Definition) IsPrivileged(t Transition) bool {
	if d == nil {
		return false
	}

	return slices.Contains(d.privileged, t)
}

// IsCompleted reports whether t leads into one of the completed states.
func (d *Definition) IsCompleted(t Transition) bool {
	if d == nil {
		return false
	}

	return slices.Contains(d.TransitionsToStates(d.completed), t)
}

// IsRefunded reports whether t leads into one of the refunded states.
func (d *Definition) IsRefunded(t Transition) bool {
	if d == nil {
		return false
	}

	return slices.Contains(d.TransitionsToStates(d.refunded), t)
}
