package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hsmkit/hsm/pkg/domain"
)

func TestResult(t *testing.T) {
	idle := domain.NewState("Idle")

	t.Run("stay has no target", func(t *testing.T) {
		_, ok := domain.Stay().Target()
		assert.False(t, ok)
	})

	t.Run("goto carries the target", func(t *testing.T) {
		target, ok := domain.Goto(idle).Target()
		assert.True(t, ok)
		assert.Same(t, idle, target)
	})

	t.Run("goto nil is stay", func(t *testing.T) {
		_, ok := domain.Goto(nil).Target()
		assert.False(t, ok)
	})
}

func TestBindingConstructors(t *testing.T) {
	off := domain.NewState("Off")
	idle := domain.NewState("Idle")

	b := domain.Transit(off, domain.User, idle)
	assert.Same(t, idle, b.Target)
	assert.Nil(t, b.Handler)

	b = domain.Ignore(off, domain.User)
	assert.Same(t, off, b.Target, "ignore binds the owner as its own target")
}

func TestEventIDString(t *testing.T) {
	assert.Equal(t, "all", domain.All.String())
	assert.Equal(t, "stop", domain.Stop.String())
	assert.Equal(t, "init", domain.Init.String())
	assert.Equal(t, "user(7)", (domain.User + 2).String())
}
