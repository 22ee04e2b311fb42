package runtime_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsmkit/hsm/internal/runtime"
	"github.com/hsmkit/hsm/pkg/domain"
)

const (
	evGo = domain.User + 10 + iota
	evSwap
)

// tracer records entry/exit side effects in firing order.
type tracer struct {
	log []string
}

func (tr *tracer) on(text string) domain.Handler {
	return func(ctx context.Context, msg *domain.Message) domain.Result {
		tr.log = append(tr.log, text)
		return domain.Stay()
	}
}

// traced binds entry/exit tracers for every given state.
func traced(tr *tracer, states ...*domain.State) []domain.Binding {
	var out []domain.Binding
	for _, s := range states {
		out = append(out,
			domain.Handle(s, domain.Entry, tr.on("enter "+s.Path())),
			domain.Handle(s, domain.Exit, tr.on("exit "+s.Path())),
		)
	}
	return out
}

func TestExitEntryCascadeOrder(t *testing.T) {
	ctx := context.Background()
	tr := &tracer{}

	// A{B{C}} and X{Y{Z}} under no common root.
	a := domain.NewState("A")
	b := a.NewChild("B")
	c := b.NewChild("C")
	x := domain.NewState("X")
	y := x.NewChild("Y")
	z := y.NewChild("Z")

	bindings := append(traced(tr, a, b, c, x, y, z),
		domain.Transit(a, domain.Init, b),
		domain.Transit(b, domain.Init, c),
		domain.Transit(x, domain.Init, y),
		domain.Transit(y, domain.Init, z),
		domain.Transit(c, evGo, x),
	)

	eng := runtime.NewEngine(bindings)
	require.NoError(t, eng.Start(ctx, a))
	require.Equal(t, "A/B/C", eng.Active().Path())
	assert.Equal(t, []string{"enter A", "enter A/B", "enter A/B/C"}, tr.log,
		"start enters root-to-leaf through init descent")

	tr.log = nil
	require.NoError(t, eng.Dispatch(ctx, &domain.Message{Event: evGo}))
	require.Equal(t, "X/Y/Z", eng.Active().Path())
	assert.Equal(t, []string{
		"exit A/B/C", "exit A/B", "exit A", // leaf-to-root
		"enter X", "enter X/Y", "enter X/Y/Z", // root-to-leaf
	}, tr.log)
}

func TestSiblingTransitionSkipsParent(t *testing.T) {
	ctx := context.Background()
	tr := &tracer{}

	idle := domain.NewState("Idle")
	stopped := idle.NewChild("Stopped")
	rewinding := idle.NewChild("Rewinding")

	bindings := append(traced(tr, idle, stopped, rewinding),
		domain.Transit(idle, domain.Init, stopped),
		domain.Transit(stopped, evSwap, rewinding),
	)

	eng := runtime.NewEngine(bindings)
	require.NoError(t, eng.Start(ctx, idle))

	tr.log = nil
	require.NoError(t, eng.Dispatch(ctx, &domain.Message{Event: evSwap}))
	require.Equal(t, "Idle/Rewinding", eng.Active().Path())
	assert.Equal(t, []string{"exit Idle/Stopped", "enter Idle/Rewinding"}, tr.log,
		"the common parent's exit/entry must not fire")
}

func TestTransitionToAncestorReenters(t *testing.T) {
	ctx := context.Background()
	tr := &tracer{}

	idle := domain.NewState("Idle")
	stopped := idle.NewChild("Stopped")
	rewinding := idle.NewChild("Rewinding")

	bindings := append(traced(tr, idle, stopped, rewinding),
		domain.Transit(idle, domain.Init, stopped),
		domain.Transit(stopped, evSwap, rewinding),
		domain.Transit(rewinding, evGo, idle),
	)

	eng := runtime.NewEngine(bindings)
	require.NoError(t, eng.Start(ctx, idle))
	require.NoError(t, eng.Dispatch(ctx, &domain.Message{Event: evSwap}))
	require.Equal(t, "Idle/Rewinding", eng.Active().Path())

	// Targeting the parent exits the leaf, then the parent's init descends again.
	tr.log = nil
	require.NoError(t, eng.Dispatch(ctx, &domain.Message{Event: evGo}))
	require.Equal(t, "Idle/Stopped", eng.Active().Path())
	assert.Equal(t, []string{"exit Idle/Rewinding", "enter Idle/Stopped"}, tr.log)
}

func TestStopUnwindsEverything(t *testing.T) {
	ctx := context.Background()
	tr := &tracer{}

	a := domain.NewState("A")
	b := a.NewChild("B")
	c := b.NewChild("C")

	bindings := append(traced(tr, a, b, c),
		domain.Transit(a, domain.Init, b),
		domain.Transit(b, domain.Init, c),
	)

	eng := runtime.NewEngine(bindings)
	require.NoError(t, eng.Start(ctx, a))
	require.Equal(t, "A/B/C", eng.Active().Path())

	tr.log = nil
	require.NoError(t, eng.Dispatch(ctx, &domain.Message{Event: domain.Stop}))
	assert.True(t, eng.Halted())
	assert.Nil(t, eng.Active())
	assert.Equal(t, []string{"exit A/B/C", "exit A/B", "exit A"}, tr.log,
		"stop fires every ancestor's exit exactly once, deepest first")

	assert.ErrorIs(t, eng.Dispatch(ctx, &domain.Message{Event: evGo}), domain.ErrHalted)
}

func TestRestartAfterStop(t *testing.T) {
	ctx := context.Background()

	a := domain.NewState("A")
	b := a.NewChild("B")

	eng := runtime.NewEngine([]domain.Binding{
		domain.Transit(a, domain.Init, b),
	})
	require.NoError(t, eng.Start(ctx, a))
	require.NoError(t, eng.Dispatch(ctx, &domain.Message{Event: domain.Stop}))
	require.True(t, eng.Halted())

	require.NoError(t, eng.Start(ctx, a))
	assert.Equal(t, "A/B", eng.Active().Path())
}

func TestExitTransitionRequestsAreIgnored(t *testing.T) {
	ctx := context.Background()

	trap := domain.NewState("Trap")
	a := domain.NewState("A")
	b := a.NewChild("B")
	other := domain.NewState("Other")

	eng := runtime.NewEngine([]domain.Binding{
		domain.Transit(a, domain.Init, b),
		// A redirect requested while exiting must not divert the cascade.
		domain.Handle(b, domain.Exit, func(ctx context.Context, msg *domain.Message) domain.Result {
			return domain.Goto(trap)
		}),
		domain.Transit(b, evGo, other),
	})
	require.NoError(t, eng.Start(ctx, a))

	require.NoError(t, eng.Dispatch(ctx, &domain.Message{Event: evGo}))
	assert.Equal(t, "Other", eng.Active().Path())
}

func TestPayloadReachesCascadeHandlers(t *testing.T) {
	ctx := context.Background()
	var payloads []any

	a := domain.NewState("A")
	other := domain.NewState("Other")

	eng := runtime.NewEngine([]domain.Binding{
		domain.Handle(a, domain.Exit, func(ctx context.Context, msg *domain.Message) domain.Result {
			payloads = append(payloads, msg.Payload)
			return domain.Stay()
		}),
		domain.Handle(other, domain.Entry, func(ctx context.Context, msg *domain.Message) domain.Result {
			payloads = append(payloads, msg.Payload)
			return domain.Stay()
		}),
		domain.Transit(a, evGo, other),
	})
	require.NoError(t, eng.Start(ctx, a))

	require.NoError(t, eng.Dispatch(ctx, &domain.Message{Event: evGo, Payload: "tape-42"}))
	assert.Equal(t, []any{"tape-42", "tape-42"}, payloads,
		"the triggering payload rides along on exit and entry resolutions")
}
