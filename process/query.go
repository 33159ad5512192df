package process

// ForwardTransition returns the state reached by t in g. When several states have
// an edge labelled t, the first one in scan order wins. An unknown transition is not
// an error: the second result is false.
func ForwardTransition(g Graph, t Transition) (State, bool) {
	return g.Forward(t)
}

// TransitionsInto returns the labels of all edges ending in s. The result may
// contain the same label more than once.
func TransitionsInto(g Graph, s State) []Transition {
	return g.TransitionsInto(s)
}

// CurrentState derives the state tx is in from its last transition. A nil
// transaction, a missing last transition and a transition the graph does not know
// all give ("", false).
func CurrentState(def *Definition, tx *Transaction) (State, bool) {
	if def == nil || tx == nil {
		return "", false
	}

	last, ok := tx.LastTransition.Get()
	if !ok {
		return "", false
	}

	return ForwardTransition(def.graph, last)
}

// TransitionsIntoAny concatenates TransitionsInto for each state, in the order the
// states are given. Nothing is deduplicated.
func TransitionsIntoAny(def *Definition, states []State) []Transition {
	if def == nil {
		return nil
	}

	var transitions []Transition

	for _, s := range states {
		transitions = append(transitions, TransitionsInto(def.graph, s)...)
	}

	return transitions
}

// HasPassedState reports whether any transition in tx's log leads into s. This is
// a historical check: the transaction may have moved on from s since.
func HasPassedState(def *Definition, s State, tx *Transaction) bool {
	if def == nil || tx == nil || len(tx.Transitions) == 0 {
		return false
	}

	into := make(map[Transition]struct{})
	for _, t := range TransitionsInto(def.graph, s) {
		into[t] = struct{}{}
	}

	for _, entry := range tx.Transitions {
		if _, ok := into[entry.Transition]; ok {
			return true
		}
	}

	return false
}
