// Package visualizer renders process graphs as Mermaid or Graphviz diagrams.
//
//nolint:varnamelen // short names idiomatic
package visualizer

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/amp-labs/txprocess/process"
)

// ErrDefinitionNil is returned when there is nothing to draw.
var ErrDefinitionNil = errors.New("definition cannot be nil")

// stateKind decides how a state is styled.
type stateKind int

const (
	kindPlain stateKind = iota
	kindHighlighted
	kindCompleted
	kindRefunded
)

func classify(def *process.Definition, highlight map[process.State]bool) func(process.State) stateKind {
	completed := def.CompletedStates()
	refunded := def.RefundedStates()

	return func(s process.State) stateKind {
		switch {
		case highlight[s]:
			return kindHighlighted
		case slices.Contains(completed, s):
			return kindCompleted
		case slices.Contains(refunded, s):
			return kindRefunded
		default:
			return kindPlain
		}
	}
}

func highlightSet(path []process.State) map[process.State]bool {
	set := make(map[process.State]bool, len(path))
	for _, s := range path {
		set[s] = true
	}

	return set
}

// allStates returns declared states followed by undeclared edge destinations.
func allStates(g process.Graph) []process.State {
	states := g.States()

	for _, node := range g.Nodes() {
		for _, edge := range node.Edges {
			if !slices.Contains(states, edge.To) {
				states = append(states, edge.To)
			}
		}
	}

	return states
}

// mermaidID turns a state name into an identifier Mermaid accepts.
func mermaidID(s process.State) string {
	return strings.NewReplacer("-", "_", "/", "_", " ", "_").Replace(string(s))
}

// GenerateMermaid converts a Definition to a Mermaid state diagram.
func GenerateMermaid(def *process.Definition, opts Options) (string, error) {
	if def == nil {
		return "", ErrDefinitionNil
	}

	graph := def.Graph()
	kind := classify(def, highlightSet(opts.HighlightPath))

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}

	var sb strings.Builder

	sb.WriteString("```mermaid\n")
	sb.WriteString("stateDiagram-v2\n")
	fmt.Fprintf(&sb, "    direction %s\n", direction)

	states := allStates(graph)

	for _, s := range states {
		fmt.Fprintf(&sb, "    state \"%s\" as %s\n", s, mermaidID(s))
	}

	fmt.Fprintf(&sb, "    [*] --> %s\n", mermaidID(graph.Initial()))

	for _, s := range states {
		edges := graph.Edges(s)

		for _, edge := range edges {
			label := ""
			if opts.ShowTransitions {
				label = ": " + strings.TrimPrefix(string(edge.Transition), "transition/")
			}

			fmt.Fprintf(&sb, "    %s --> %s%s\n", mermaidID(s), mermaidID(edge.To), label)
		}

		if len(edges) == 0 {
			fmt.Fprintf(&sb, "    %s --> [*]\n", mermaidID(s))
		}

		switch kind(s) {
		case kindHighlighted:
			fmt.Fprintf(&sb, "    class %s highlighted\n", mermaidID(s))
		case kindCompleted:
			fmt.Fprintf(&sb, "    class %s completedState\n", mermaidID(s))
		case kindRefunded:
			fmt.Fprintf(&sb, "    class %s refundedState\n", mermaidID(s))
		case kindPlain:
		}
	}

	sb.WriteString("\n")
	sb.WriteString("    classDef completedState fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px\n")
	sb.WriteString("    classDef refundedState fill:#ffcdd2,stroke:#c62828,stroke-width:2px\n")
	sb.WriteString("    classDef highlighted fill:#fff9c4,stroke:#f57f17,stroke-width:3px\n")

	sb.WriteString("```\n")

	return sb.String(), nil
}

// GenerateDOT converts a Definition to a Graphviz digraph.
func GenerateDOT(def *process.Definition, opts Options) (string, error) {
	if def == nil {
		return "", ErrDefinitionNil
	}

	graph := def.Graph()
	kind := classify(def, highlightSet(opts.HighlightPath))

	rankdir := "TB"
	if opts.Direction == "LR" {
		rankdir = "LR"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "digraph %q {\n", def.Name())
	fmt.Fprintf(&sb, "    rankdir=%s;\n", rankdir)
	sb.WriteString("    node [shape=box, style=rounded];\n")
	sb.WriteString("    __start [shape=point];\n")
	fmt.Fprintf(&sb, "    __start -> %q;\n", graph.Initial())

	states := allStates(graph)

	for _, s := range states {
		attrs := []string{}

		switch kind(s) {
		case kindHighlighted:
			attrs = append(attrs, `style="rounded,filled"`, `fillcolor="#fff9c4"`, "penwidth=3")
		case kindCompleted:
			attrs = append(attrs, `style="rounded,filled"`, `fillcolor="#c8e6c9"`)
		case kindRefunded:
			attrs = append(attrs, `style="rounded,filled"`, `fillcolor="#ffcdd2"`)
		case kindPlain:
		}

		if len(graph.Edges(s)) == 0 {
			attrs = append(attrs, "peripheries=2")
		}

		if len(attrs) == 0 {
			fmt.Fprintf(&sb, "    %q;\n", s)
		} else {
			fmt.Fprintf(&sb, "    %q [%s];\n", s, strings.Join(attrs, ", "))
		}
	}

	for _, s := range states {
		for _, edge := range graph.Edges(s) {
			if opts.ShowTransitions {
				fmt.Fprintf(&sb, "    %q -> %q [label=%q];\n", s, edge.To, strings.TrimPrefix(string(edge.Transition), "transition/"))
			} else {
				fmt.Fprintf(&sb, "    %q -> %q;\n", s, edge.To)
			}
		}
	}

	sb.WriteString("}\n")

	return sb.String(), nil
}
