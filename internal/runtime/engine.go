package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hsmkit/hsm/internal/logging"
	"github.com/hsmkit/hsm/pkg/domain"
)

// Engine is the hierarchical state-machine runner. It holds the action table
// and the currently active leaf state (nil while halted).
//
// The engine is single-threaded and non-reentrant: Dispatch runs every
// cascaded side effect to completion before returning, and callers that share
// one engine across goroutines must serialize access externally.
type Engine struct {
	table  *actionTable
	decls  []domain.Binding
	active *domain.State
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates a halted engine over the given bindings.
func NewEngine(bindings []domain.Binding, opts ...EngineOption) *Engine {
	e := &Engine{
		table:  newActionTable(),
		decls:  append([]domain.Binding(nil), bindings...),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Add declares additional bindings. Only valid before the first Start.
func (e *Engine) Add(bindings ...domain.Binding) error {
	if e.table.linked {
		return domain.ErrStarted
	}
	e.decls = append(e.decls, bindings...)
	return nil
}

// Start links the configured bindings into their owner states (first call
// only) and transitions from the halted configuration into initial,
// descending through Init bindings until a leaf is reached. initial must be
// a top-level state and the engine must be halted.
func (e *Engine) Start(ctx context.Context, initial *domain.State) error {
	if e.active != nil {
		return domain.ErrAlreadyStarted
	}
	if initial == nil {
		return errors.New("initial state is required")
	}
	if initial.Parent() != nil {
		return fmt.Errorf("%w: %s", domain.ErrNotTopLevel, initial.Path())
	}

	e.table.link(e.decls)
	e.logger.Info("machine starting", "initial", initial.Path())

	if err := e.transition(ctx, initial, &domain.Message{}); err != nil {
		return err
	}
	e.logger.Info("machine started", "active", e.active.Path())
	return nil
}

// Dispatch resolves one message against the active configuration. A Stop
// message unwinds the whole tree and halts the engine. Any other message must
// carry an application identifier (>= User); it is offered to the active leaf
// and bubbles through its ancestors until some state consumes it. A message
// no state has a binding for is silently dropped.
func (e *Engine) Dispatch(ctx context.Context, msg *domain.Message) error {
	if e.active == nil {
		return domain.ErrHalted
	}
	if msg == nil {
		return errors.New("message is required")
	}

	if msg.Event == domain.Stop {
		e.logger.Info("machine stopping", "active", e.active.Path())
		return e.transition(ctx, nil, msg)
	}
	if msg.Event < domain.User {
		return fmt.Errorf("%w: %s", domain.ErrReservedEvent, msg.Event)
	}

	for s := e.active; s != nil; s = s.Parent() {
		consumed, err := e.offer(ctx, s, msg)
		if err != nil {
			return err
		}
		if consumed {
			e.logger.Debug("event consumed",
				"event", msg.Event, "consumer", s.Path(), "active", e.active.Path())
			e.emitHandled(ctx, msg, s)
			return nil
		}
	}

	e.logger.Debug("event dropped", "event", msg.Event, "active", e.active.Path())
	e.emitDropped(ctx, msg)
	return nil
}

// offer resolves a user message against one candidate state. It reports
// false when the candidate has no binding at all (the caller then tries the
// parent). A resolved target other than the candidate triggers a transition;
// user events may target any state in the tree.
func (e *Engine) offer(ctx context.Context, s *domain.State, msg *domain.Message) (bool, error) {
	target, handled := e.table.resolve(ctx, s, msg)
	if !handled {
		return false, nil
	}
	if target == s {
		return true, nil
	}
	return true, e.transition(ctx, target, msg)
}

// Active returns the active leaf state, or nil while halted.
func (e *Engine) Active() *domain.State {
	return e.active
}

// Halted reports whether the machine has no active configuration.
func (e *Engine) Halted() bool {
	return e.active == nil
}

// States returns every state referenced by the linked bindings, ancestors
// included, in first-seen declaration order. Empty before Start.
func (e *Engine) States() []*domain.State {
	return append([]*domain.State(nil), e.table.states...)
}

func (e *Engine) emitEnter(ctx context.Context, s *domain.State, msg *domain.Message) {
	if e.hooks.OnStateEnter != nil {
		e.hooks.OnStateEnter(ctx, &domain.StateEvent{
			Timestamp: time.Now(),
			State:     s.Path(),
			Event:     msg.Event,
		})
	}
}

func (e *Engine) emitExit(ctx context.Context, s *domain.State, msg *domain.Message) {
	if e.hooks.OnStateExit != nil {
		e.hooks.OnStateExit(ctx, &domain.StateEvent{
			Timestamp: time.Now(),
			State:     s.Path(),
			Event:     msg.Event,
		})
	}
}

func (e *Engine) emitHandled(ctx context.Context, msg *domain.Message, consumer *domain.State) {
	if e.hooks.OnEventHandled != nil {
		e.hooks.OnEventHandled(ctx, &domain.DispatchEvent{
			Timestamp: time.Now(),
			Event:     msg.Event,
			Consumer:  consumer.Path(),
			Active:    e.active.Path(),
		})
	}
}

func (e *Engine) emitDropped(ctx context.Context, msg *domain.Message) {
	if e.hooks.OnEventDropped != nil {
		e.hooks.OnEventDropped(ctx, &domain.DispatchEvent{
			Timestamp: time.Now(),
			Event:     msg.Event,
			Active:    e.active.Path(),
		})
	}
}
