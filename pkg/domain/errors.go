package domain

import (
	"errors"
	"fmt"
)

// ErrHalted is returned when a message is dispatched to a halted machine.
var ErrHalted = errors.New("machine is halted")

// ErrAlreadyStarted is returned by Start on a machine that is already active.
var ErrAlreadyStarted = errors.New("machine already started")

// ErrNotTopLevel is returned by Start when the initial state has a parent.
var ErrNotTopLevel = errors.New("initial state is not top-level")

// ErrReservedEvent is returned when a dispatched message carries a reserved
// identifier other than Stop. Application events must be >= User.
var ErrReservedEvent = errors.New("reserved event identifier")

// ErrStarted is returned when bindings are added after the machine started.
var ErrStarted = errors.New("bindings cannot be added after start")

// InvalidTransitionError reports a system-event binding (Entry, Exit, Init)
// whose transition target is not an immediate child of the owning state.
// System-triggered transitions may only descend one tree level at a time.
type InvalidTransitionError struct {
	From   string
	Event  EventID
	Target string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf(
		"invalid %s transition from %q to %q: system events may only target an immediate child",
		e.Event, e.From, e.Target)
}
