package runtime

import (
	"context"

	"github.com/hsmkit/hsm/pkg/domain"
)

// actionTable owns every declared binding, indexed per owner state. It is
// populated exactly once, when the engine starts, and read-only afterward.
type actionTable struct {
	byOwner map[*domain.State][]*domain.Binding
	states  []*domain.State // first-seen order, ancestors included
	known   map[*domain.State]bool
	linked  bool
}

func newActionTable() *actionTable {
	return &actionTable{
		byOwner: make(map[*domain.State][]*domain.Binding),
		known:   make(map[*domain.State]bool),
	}
}

// link prepends each declared binding to its owner's list. Prepending keeps
// the original last-declared-wins order among duplicate declarations.
// Calling link again is a no-op.
func (t *actionTable) link(decls []domain.Binding) {
	if t.linked {
		return
	}
	t.linked = true
	for i := range decls {
		b := decls[i]
		t.byOwner[b.Owner] = append([]*domain.Binding{&b}, t.byOwner[b.Owner]...)
		t.addState(b.Owner)
		t.addState(b.Target)
	}
}

// addState records s and all its ancestors in first-seen order.
func (t *actionTable) addState(s *domain.State) {
	for ; s != nil; s = s.Parent() {
		if t.known[s] {
			return
		}
		t.known[s] = true
		t.states = append(t.states, s)
	}
}

// lookup scans the state's own list (never ancestors) for the first binding
// matching event exactly, else the first wildcard binding. Returns nil if
// neither exists.
func (t *actionTable) lookup(s *domain.State, event domain.EventID) *domain.Binding {
	if s == nil {
		return nil
	}
	var wildcard *domain.Binding
	for _, b := range t.byOwner[s] {
		if b.Event == event {
			return b
		}
		if b.Event == domain.All && wildcard == nil {
			wildcard = b
		}
	}
	return wildcard
}

// resolve offers msg to s. It reports handled=false when s has no matching
// binding. A direct-transition binding yields its target; a handler binding
// invokes the handler (the only side-effecting step in the engine) and yields
// the handler's requested target, or s itself when the handler stays put.
func (t *actionTable) resolve(ctx context.Context, s *domain.State, msg *domain.Message) (target *domain.State, handled bool) {
	b := t.lookup(s, msg.Event)
	if b == nil {
		return nil, false
	}
	if b.Target != nil {
		return b.Target, true
	}
	if b.Handler != nil {
		if next, ok := b.Handler(ctx, msg).Target(); ok {
			return next, true
		}
	}
	return s, true
}
