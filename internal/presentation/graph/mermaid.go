package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []domain.State
	CurrentState  domain.State
}

// GenerateMermaid produces a Mermaid flowchart of a machine's transition table.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Halt state: (((Double circle)))
// - State without outgoing transitions: {{Hexagon}}
// - Default: [Rectangle]
// Each edge is labelled "read / write move". Edges into the halt state are thick.
func GenerateMermaid(def *domain.Definition, halt domain.State, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, state := range states(def) {
		opener, closer := "[", "]"
		switch {
		case state == def.Initial:
			opener, closer = "((", "))"
		case halt != "" && state == halt:
			opener, closer = "(((", ")))"
		case !def.Table.Outgoing(state):
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(state), opener, escape(string(state)), closer)
	}

	for _, tr := range def.Table.Transitions() {
		label := escape(fmt.Sprintf("%s / %s %s", tr.Read, tr.Write, tr.Move))
		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if halt != "" && tr.To == halt {
			arrow = fmt.Sprintf("== \"%s\" ==>", label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(tr.From), arrow, sanitizeMermaidID(tr.To))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, state := range overlay.VisitedStates {
			id := sanitizeMermaidID(state)
			if !seen[id] && state != "" {
				seen[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", id)
			}
		}

		if overlay.CurrentState != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentState))
		}
	}

	return sb.String()
}

// states lists the initial state first, then the other states of the table.
func states(def *domain.Definition) []domain.State {
	out := []domain.State{def.Initial}
	for _, s := range def.Table.States() {
		if s != def.Initial {
			out = append(out, s)
		}
	}
	return out
}

// sanitizeMermaidID prefixes state names so that Mermaid keywords such as
// "end" or "graph" stay usable.
func sanitizeMermaidID(state domain.State) string {
	return "s_" + string(state)
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "#quot;")
}
