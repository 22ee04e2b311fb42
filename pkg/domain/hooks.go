package domain

import (
	"context"
	"time"
)

// StateEvent describes entry to or exit from one state during a transition
// cascade. Event carries the identifier of the message that triggered the
// cascade, not Entry/Exit itself.
type StateEvent struct {
	Timestamp time.Time `json:"timestamp"`
	State     string    `json:"state"` // slash path, e.g. "Idle/Stopped"
	Event     EventID   `json:"event"`
}

// DispatchEvent describes the outcome of one dispatched message.
type DispatchEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Event     EventID   `json:"event"`
	Consumer  string    `json:"consumer,omitempty"` // state that consumed the event, "" if dropped
	Active    string    `json:"active,omitempty"`   // active leaf after dispatch, "" if halted
}

// LifecycleHooks defines callbacks for engine observability. Hooks run
// synchronously inside the dispatch; keep them cheap and never call back
// into the engine from one.
type LifecycleHooks struct {
	OnStateEnter   func(context.Context, *StateEvent)
	OnStateExit    func(context.Context, *StateEvent)
	OnEventHandled func(context.Context, *DispatchEvent)
	OnEventDropped func(context.Context, *DispatchEvent)
}
