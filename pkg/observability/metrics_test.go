package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsmkit/hsm"
	"github.com/hsmkit/hsm/pkg/domain"
)

const (
	evPower = domain.User + iota
	evPlay
	evUnbound
)

func newPlayer(t *testing.T, m *Metrics) (*hsm.Engine, *domain.State) {
	t.Helper()

	off := domain.NewState("Off")
	on := domain.NewState("On")
	playing := on.NewChild("Playing")

	eng := hsm.New(
		[]domain.Binding{
			domain.Transit(off, evPower, on),
			domain.Transit(on, domain.Init, playing),
			domain.Transit(on, evPower, off),
			domain.Ignore(playing, evPlay),
		},
		hsm.WithLifecycleHooks(m.Hooks()),
	)
	return eng, off
}

func TestMetricsHooks(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(prometheus.NewRegistry())
	m.EventName = func(id domain.EventID) string {
		switch id {
		case evPower:
			return "Power"
		case evPlay:
			return "Play"
		}
		return id.String()
	}

	eng, root := newPlayer(t, m)
	require.NoError(t, eng.Start(ctx, root))
	require.NoError(t, eng.Send(ctx, evPower, nil))
	require.NoError(t, eng.Send(ctx, evPlay, nil))
	require.NoError(t, eng.Send(ctx, evUnbound, nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.stateEntries.WithLabelValues("Off")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stateEntries.WithLabelValues("On")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stateEntries.WithLabelValues("On/Playing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stateExits.WithLabelValues("Off")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("Power", "handled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("Play", "handled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("user(7)", "dropped")))
}

func TestActiveDepthGauge(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(prometheus.NewRegistry())

	eng, root := newPlayer(t, m)
	require.NoError(t, eng.Start(ctx, root))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeDepth))

	require.NoError(t, eng.Send(ctx, evPower, nil))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.activeDepth))

	require.NoError(t, eng.Stop(ctx))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeDepth))
}

func TestRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, fam := range families {
		names = append(names, fam.GetName())
	}
	assert.Contains(t, names, "hsm_active_depth")
}
