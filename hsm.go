package hsm

import (
	"context"
	"log/slog"

	"github.com/hsmkit/hsm/internal/runtime"
	"github.com/hsmkit/hsm/pkg/domain"
)

// Engine is the high-level entry point for the hsm library. It wraps the
// internal runtime and exposes the public state-machine contract: Start,
// Dispatch (or the Send shorthand), and introspection.
type Engine struct {
	runtime     *runtime.Engine
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	runtimeOpts []runtime.EngineOption
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// New creates a halted engine over the given bindings. Bindings may be
// supplied here or via Add, but only before Start.
func New(bindings []domain.Binding, opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(e.hooks),
	}
	if e.logger != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithLogger(e.logger))
	}
	e.runtime = runtime.NewEngine(bindings, runtimeOpts...)
	return e
}

// Add declares additional bindings. Only valid before the first Start.
func (e *Engine) Add(bindings ...domain.Binding) error {
	return e.runtime.Add(bindings...)
}

// Start links the configured bindings and enters the initial top-level state,
// descending through Init bindings until a leaf is active.
func (e *Engine) Start(ctx context.Context, initial *domain.State) error {
	return e.runtime.Start(ctx, initial)
}

// Dispatch resolves one message against the active configuration.
func (e *Engine) Dispatch(ctx context.Context, msg *domain.Message) error {
	return e.runtime.Dispatch(ctx, msg)
}

// Send is shorthand for dispatching an event with a payload.
func (e *Engine) Send(ctx context.Context, event domain.EventID, payload any) error {
	return e.runtime.Dispatch(ctx, &domain.Message{Event: event, Payload: payload})
}

// Stop is shorthand for dispatching the reserved Stop event, halting the
// machine after unwinding the active configuration.
func (e *Engine) Stop(ctx context.Context) error {
	return e.runtime.Dispatch(ctx, &domain.Message{Event: domain.Stop})
}

// Active returns the active leaf state, or nil while halted.
func (e *Engine) Active() *domain.State {
	return e.runtime.Active()
}

// Halted reports whether the machine has no active configuration.
func (e *Engine) Halted() bool {
	return e.runtime.Halted()
}

// States returns every state referenced by the linked bindings in
// deterministic first-seen order. Empty before Start.
func (e *Engine) States() []*domain.State {
	return e.runtime.States()
}
