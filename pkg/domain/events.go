package domain

import "fmt"

// EventID identifies the kind of a message. Values below User are reserved
// for the engine; applications define their own events starting at User.
type EventID uint

const (
	// All is the wildcard identifier. A binding declared for All matches any
	// event the owner state has no exact binding for.
	All EventID = iota

	// Stop halts the machine: dispatching it unwinds the whole active
	// configuration, firing every ancestor's Exit on the way out.
	Stop

	// Exit is resolved against each state being left during a transition.
	Exit

	// Entry is resolved against each state being entered during a transition.
	Entry

	// Init is resolved against the transition target once entered; a direct
	// Init binding to a child state continues the descent into the default
	// substate configuration.
	Init

	// User is the first identifier available to applications. All
	// application-defined events must be >= User.
	User
)

func (e EventID) String() string {
	switch e {
	case All:
		return "all"
	case Stop:
		return "stop"
	case Exit:
		return "exit"
	case Entry:
		return "entry"
	case Init:
		return "init"
	}
	return fmt.Sprintf("user(%d)", uint(e))
}

// Message carries one event through the engine. The engine only interprets
// Event; Payload is passed through to handlers untouched.
type Message struct {
	Event   EventID
	Payload any
}
