/*
Package domain contains the core domain models for the hsm engine.

It defines the fundamental entities of a hierarchical state machine: the
static state tree (State), event identifiers and messages (EventID, Message),
declared reactions (Binding) and their outcomes (Result), plus the lifecycle
hook callbacks used for observability. This package is kept pure and free of
I/O so that it can be shared between the runtime, adapters, and application
code.

# Key Entities

  - State: one node of the fixed state tree, linked to its parent.
  - Message: an event identifier plus an opaque payload.
  - Binding: a declared reaction of one state to one event, either a direct
    transition to a target state or a handler invocation.
  - Result: the outcome of a handler, Stay or Goto.
  - LifecycleHooks: callbacks fired on state entry/exit and event dispatch.
*/
package domain
