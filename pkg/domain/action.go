package domain

import "context"

// Handler reacts to a message delivered to its owner state. It runs
// synchronously on the dispatching goroutine and returns whether the machine
// should transition. Handlers must not call back into the engine.
type Handler func(ctx context.Context, msg *Message) Result

// Result is the outcome of a handler: either no transition (Stay) or a
// transition to a target state (Goto).
type Result struct {
	target *State
}

// Stay reports that the handler consumed the event without a transition.
func Stay() Result {
	return Result{}
}

// Goto requests a transition to target once the handler returns.
// Goto(nil) is equivalent to Stay.
func Goto(target *State) Result {
	return Result{target: target}
}

// Target returns the requested transition target, if any.
func (r Result) Target() (*State, bool) {
	return r.target, r.target != nil
}

// Binding declares one reaction: when Owner is offered an event with
// identifier Event, either transition directly to Target or invoke Handler.
// Exactly one of Target and Handler is set; use the constructors below.
type Binding struct {
	Owner   *State
	Event   EventID
	Target  *State
	Handler Handler
}

// Transit declares a direct transition from owner to target on event.
func Transit(owner *State, event EventID, target *State) Binding {
	return Binding{Owner: owner, Event: event, Target: target}
}

// Handle declares a handler invocation on event. The handler may request a
// transition through its Result.
func Handle(owner *State, event EventID, h Handler) Binding {
	return Binding{Owner: owner, Event: event, Handler: h}
}

// Ignore declares that owner consumes event with no side effect and no
// transition. Useful to stop an event from bubbling to ancestors.
func Ignore(owner *State, event EventID) Binding {
	return Binding{Owner: owner, Event: event, Target: owner}
}
