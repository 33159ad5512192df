package visualizer

import (
	"github.com/amp-labs/txprocess/process"
)

// Options configures the visualization output.
type Options struct {
	// ShowTransitions labels edges with their transition names
	ShowTransitions bool

	// Direction controls diagram flow: "TD" (top-down) or "LR" (left-right)
	Direction string

	// HighlightPath highlights the states a transaction went through
	HighlightPath []process.State
}

// DefaultOptions returns sensible defaults for visualization.
func DefaultOptions() Options {
	return Options{
		ShowTransitions: true,
		Direction:       "TD",
	}
}

// WithShowTransitions enables/disables edge labels.
func (o Options) WithShowTransitions(show bool) Options {
	o.ShowTransitions = show

	return o
}

// WithDirection sets the diagram direction.
func (o Options) WithDirection(direction string) Options {
	o.Direction = direction

	return o
}

// WithHighlightPath sets states to highlight.
func (o Options) WithHighlightPath(path []process.State) Options {
	o.HighlightPath = path

	return o
}

// WithTransaction highlights the states tx has been in under def.
func (o Options) WithTransaction(def *process.Definition, tx *process.Transaction) Options {
	o.HighlightPath = Path(def, tx)

	return o
}

// Path returns the states tx has entered, starting with the initial state, in
// the order of its transition log. Entries that do not resolve are skipped.
func Path(def *process.Definition, tx *process.Transaction) []process.State {
	if def == nil {
		return nil
	}

	graph := def.Graph()
	path := []process.State{graph.Initial()}

	if tx == nil {
		return path
	}

	for _, entry := range tx.Transitions {
		state, ok := graph.Forward(entry.Transition)
		if ok && path[len(path)-1] != state {
			path = append(path, state)
		}
	}

	return path
}
