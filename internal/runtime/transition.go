package runtime

import (
	"context"

	"github.com/hsmkit/hsm/pkg/domain"
)

// transition drives the active configuration to next. The least common
// ancestor of the current leaf and the target bounds the cascade: every state
// strictly below it is exited leaf-to-root, then the path down to the target
// is entered root-to-leaf. Once the target is active its Init binding is
// resolved; an Init transition to a child continues the descent, so entering
// a compound state lands on its default leaf. A nil target unwinds the whole
// tree and halts the engine.
//
// Exit and Entry resolutions are side-effect only: a transition requested
// while exiting or entering a state is ignored. The descent runs as a loop
// rather than recursion so stack use stays flat regardless of tree depth.
func (e *Engine) transition(ctx context.Context, next *domain.State, msg *domain.Message) error {
	for {
		root := domain.LeastCommonAncestor(e.active, next)

		for e.active != root {
			e.table.resolve(ctx, e.active, &domain.Message{Event: domain.Exit, Payload: msg.Payload})
			e.emitExit(ctx, e.active, msg)
			e.logger.Debug("state exited", "state", e.active.Path())
			e.active = e.active.Parent()
		}

		for e.active != next {
			e.active = domain.ChildToward(e.active, next)
			e.table.resolve(ctx, e.active, &domain.Message{Event: domain.Entry, Payload: msg.Payload})
			e.emitEnter(ctx, e.active, msg)
			e.logger.Debug("state entered", "state", e.active.Path())
		}

		if e.active == nil {
			return nil // halted
		}

		target, handled := e.table.resolve(ctx, e.active, &domain.Message{Event: domain.Init, Payload: msg.Payload})
		if !handled || target == e.active {
			return nil
		}
		if target.Parent() != e.active {
			return &domain.InvalidTransitionError{
				From:   e.active.Path(),
				Event:  domain.Init,
				Target: target.Path(),
			}
		}
		next = target
	}
}
