// Package graph renders a state tree as a Mermaid state diagram.
package graph

import (
	"fmt"
	"strings"

	"github.com/hsmkit/hsm/pkg/domain"
)

// Overlay contains dynamic state data to visualize on the diagram.
type Overlay struct {
	Active *domain.State
}

// GenerateMermaid produces stateDiagram-v2 syntax for the given tree.
// Compound states are nested blocks with an initial marker for their Init
// binding; user-event direct transitions become labeled arrows. Handler
// bindings have no static target and are not drawn. eventName labels the
// arrows; pass nil to use raw identifiers.
func GenerateMermaid(states []*domain.State, bindings []domain.Binding, eventName func(domain.EventID) string, overlay *Overlay) string {
	if eventName == nil {
		eventName = func(id domain.EventID) string { return id.String() }
	}

	children := make(map[*domain.State][]*domain.State)
	var roots []*domain.State
	for _, s := range states {
		if p := s.Parent(); p != nil {
			children[p] = append(children[p], s)
		} else {
			roots = append(roots, s)
		}
	}

	inits := make(map[*domain.State]*domain.State)
	for _, b := range bindings {
		if b.Event == domain.Init && b.Target != nil && b.Target != b.Owner {
			inits[b.Owner] = b.Target
		}
	}

	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	for _, root := range roots {
		writeState(&sb, root, children, inits, 1)
	}

	for _, b := range bindings {
		if b.Event < domain.User || b.Target == nil || b.Target == b.Owner {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n",
			mermaidID(b.Owner), mermaidID(b.Target), eventName(b.Event)))
	}

	if overlay != nil && overlay.Active != nil {
		sb.WriteString("\n    classDef active fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for s := overlay.Active; s != nil; s = s.Parent() {
			sb.WriteString(fmt.Sprintf("    class %s active\n", mermaidID(s)))
		}
	}

	return sb.String()
}

func writeState(sb *strings.Builder, s *domain.State, children map[*domain.State][]*domain.State, inits map[*domain.State]*domain.State, depth int) {
	indent := strings.Repeat("    ", depth)
	kids := children[s]

	if len(kids) == 0 {
		sb.WriteString(fmt.Sprintf("%sstate \"%s\" as %s\n", indent, s.Name(), mermaidID(s)))
		return
	}

	sb.WriteString(fmt.Sprintf("%sstate \"%s\" as %s {\n", indent, s.Name(), mermaidID(s)))
	if init := inits[s]; init != nil {
		sb.WriteString(fmt.Sprintf("%s    [*] --> %s\n", indent, mermaidID(init)))
	}
	for _, kid := range kids {
		writeState(sb, kid, children, inits, depth+1)
	}
	sb.WriteString(indent + "}\n")
}

// mermaidID derives a diagram-safe identifier from the state path. Full
// paths keep same-named substates under different parents distinct.
func mermaidID(s *domain.State) string {
	id := s.Path()
	id = strings.ReplaceAll(id, "/", "_")
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.ReplaceAll(id, "-", "_")
	id = strings.ReplaceAll(id, ".", "_")
	return id
}
