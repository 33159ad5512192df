package process

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDefinition wraps every problem found while building a Definition.
	ErrInvalidDefinition = errors.New("invalid process definition")

	// ErrNameRequired indicates that a definition has no name.
	ErrNameRequired = errors.New("process name is required")
	// ErrAliasMalformed indicates that an alias is not of the form <name>/release-<version>.
	ErrAliasMalformed = errors.New("alias must be <name>/release-<version>")
	// ErrInitialStateRequired indicates that a graph has no initial state.
	ErrInitialStateRequired = errors.New("initial state is required")
	// ErrInitialStateNotFound indicates that the initial state is not a node of the graph.
	ErrInitialStateNotFound = errors.New("initial state does not exist")
	// ErrStateNameRequired indicates a node without a name.
	ErrStateNameRequired = errors.New("state name is required")
	// ErrDuplicateStateName indicates two nodes with the same name.
	ErrDuplicateStateName = errors.New("duplicate state name")
	// ErrTransitionNameRequired indicates an edge without a label.
	ErrTransitionNameRequired = errors.New("transition name is required")
	// ErrDestinationRequired indicates an edge without a destination state.
	ErrDestinationRequired = errors.New("transition destination is required")
	// ErrUnknownUnitType indicates a unit type outside the supported set.
	ErrUnknownUnitType = errors.New("unknown unit type")
)

// StateError wraps an error with the state it was found on.
type StateError struct {
	State State
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state %s: %v", e.State, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

func invalid(name string, err error) error {
	if name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	return fmt.Errorf("%w %q: %w", ErrInvalidDefinition, name, err)
}
