package domain

import "strings"

// State is one node of the static state tree. The parent link is fixed at
// construction; the tree is acyclic and never reshaped while a machine runs.
type State struct {
	name   string
	parent *State
}

// NewState creates a top-level state (no parent).
func NewState(name string) *State {
	return &State{name: name}
}

// NewChild creates a state nested under s.
func (s *State) NewChild(name string) *State {
	return &State{name: name, parent: s}
}

// Name returns the state's own name.
func (s *State) Name() string {
	return s.name
}

// Parent returns the immediate parent, or nil for a top-level state.
func (s *State) Parent() *State {
	if s == nil {
		return nil
	}
	return s.parent
}

// Path returns the slash-joined names from the top-level ancestor down to s,
// e.g. "Idle/Stopped". Returns "" for nil.
func (s *State) Path() string {
	if s == nil {
		return ""
	}
	var names []string
	for n := s; n != nil; n = n.parent {
		names = append(names, n.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, "/")
}

// Depth counts the ancestors of s including itself: a top-level state has
// depth 1, nil has depth 0.
func Depth(s *State) int {
	d := 0
	for ; s != nil; s = s.parent {
		d++
	}
	return d
}

// LeastCommonAncestor returns the deepest state that is an ancestor of both
// a and b (a state counts as its own ancestor), or nil if they share none.
// Either argument may be nil, in which case the result is nil.
func LeastCommonAncestor(a, b *State) *State {
	diff := Depth(a) - Depth(b)
	for ; diff > 0; diff-- {
		a = a.parent
	}
	for ; diff < 0; diff++ {
		b = b.parent
	}
	for a != b {
		a = a.parent
		b = b.parent
	}
	return a
}

// ChildToward returns the immediate child of node on the path down to
// descendant. node may be nil, in which case the top-level ancestor of
// descendant is returned. Returns nil if descendant is not below node.
func ChildToward(node, descendant *State) *State {
	for descendant != nil {
		if descendant.parent == node {
			return descendant
		}
		descendant = descendant.parent
	}
	return nil
}
