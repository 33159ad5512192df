package process

import (
	"fmt"
	"slices"
)

// Edge is an outgoing, labelled edge of a state.
type Edge struct {
	Transition Transition `json:"transition" yaml:"transition"`
	To         State      `json:"to"         yaml:"to"`
}

// Node is a state together with its outgoing edges, in declaration order.
type Node struct {
	Name  State  `json:"name"         yaml:"name"`
	Edges []Edge `json:"on,omitempty" yaml:"on,omitempty"`
}

// Graph is an immutable directed graph of states. Node order, and edge order within
// a node, define the scan order every lookup follows. The graph may contain cycles,
// and the same transition label may leave more than one state; see Sources.
type Graph struct {
	initial State
	nodes   []Node
	index   map[State]int
}

// NewGraph builds a Graph from the initial state and the nodes in scan order. The
// nodes are copied, so later changes by the caller do not leak into the graph.
// Edges may point at states that have no node of their own; such states are terminal.
func NewGraph(initial State, nodes ...Node) (Graph, error) {
	if initial == "" {
		return Graph{}, ErrInitialStateRequired
	}

	graph := Graph{
		initial: initial,
		nodes:   make([]Node, 0, len(nodes)),
		index:   make(map[State]int, len(nodes)),
	}

	for _, node := range nodes {
		if node.Name == "" {
			return Graph{}, ErrStateNameRequired
		}

		if _, dup := graph.index[node.Name]; dup {
			return Graph{}, &StateError{State: node.Name, Err: ErrDuplicateStateName}
		}

		for i, edge := range node.Edges {
			if edge.Transition == "" {
				return Graph{}, &StateError{State: node.Name, Err: fmt.Errorf("edge %d: %w", i, ErrTransitionNameRequired)}
			}

			if edge.To == "" {
				return Graph{}, &StateError{
					State: node.Name,
					Err:   fmt.Errorf("edge %s: %w", edge.Transition, ErrDestinationRequired),
				}
			}
		}

		graph.index[node.Name] = len(graph.nodes)
		graph.nodes = append(graph.nodes, Node{Name: node.Name, Edges: slices.Clone(node.Edges)})
	}

	if _, ok := graph.index[initial]; !ok {
		return Graph{}, &StateError{State: initial, Err: ErrInitialStateNotFound}
	}

	return graph, nil
}

// Initial returns the designated initial state.
func (g Graph) Initial() State {
	return g.initial
}

// States returns the declared states in scan order.
func (g Graph) States() []State {
	states := make([]State, len(g.nodes))
	for i, node := range g.nodes {
		states[i] = node.Name
	}

	return states
}

// Nodes returns a copy of the graph's nodes in scan order.
func (g Graph) Nodes() []Node {
	nodes := make([]Node, len(g.nodes))
	for i, node := range g.nodes {
		nodes[i] = Node{Name: node.Name, Edges: slices.Clone(node.Edges)}
	}

	return nodes
}

// HasState reports whether s is declared as a node.
func (g Graph) HasState(s State) bool {
	_, ok := g.index[s]

	return ok
}

// Edges returns a copy of the outgoing edges of s. Undeclared states have none.
func (g Graph) Edges(s State) []Edge {
	idx, ok := g.index[s]
	if !ok {
		return nil
	}

	return slices.Clone(g.nodes[idx].Edges)
}

// Forward returns the destination of the first edge labelled t, scanning nodes and
// their edges in order. The second result is false when no state has such an edge,
// which is how unknown and foreign transitions show up.
func (g Graph) Forward(t Transition) (State, bool) {
	for _, node := range g.nodes {
		for _, edge := range node.Edges {
			if edge.Transition == t {
				return edge.To, true
			}
		}
	}

	return "", false
}

// TransitionsInto returns every label of an edge whose destination is s, in scan
// order. A label leaving several states appears once per source.
func (g Graph) TransitionsInto(s State) []Transition {
	var transitions []Transition

	for _, node := range g.nodes {
		for _, edge := range node.Edges {
			if edge.To == s {
				transitions = append(transitions, edge.Transition)
			}
		}
	}

	return transitions
}

// Sources returns every state with an outgoing edge labelled t. More than one
// result means Forward resolves t by scan order alone.
func (g Graph) Sources(t Transition) []State {
	var sources []State

	for _, node := range g.nodes {
		for _, edge := range node.Edges {
			if edge.Transition == t {
				sources = append(sources, node.Name)

				break
			}
		}
	}

	return sources
}

// Transitions returns each distinct edge label once, in scan order.
func (g Graph) Transitions() []Transition {
	seen := make(map[Transition]struct{})

	var transitions []Transition

	for _, node := range g.nodes {
		for _, edge := range node.Edges {
			if _, ok := seen[edge.Transition]; ok {
				continue
			}

			seen[edge.Transition] = struct{}{}
			transitions = append(transitions, edge.Transition)
		}
	}

	return transitions
}
