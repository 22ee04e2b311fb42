/*
Package hsm is a hierarchical state-machine (HSM) execution engine for
embedded and reactive control software. A designer declares a tree of nested
states and binds reactions to (state, event) pairs; the engine computes, for
each incoming message, which state handles it and fires the resulting
exit/entry cascade in order.

# Concept

States form a fixed tree, built once before the machine starts. Each state
may bind reactions to events: either a direct transition to another state, or
a handler that runs arbitrary side effects and may itself request a
transition by returning domain.Goto. A message dispatched to the machine is
offered to the active leaf state first and bubbles up through its ancestors
until some state has a binding for it; a message nobody binds is silently
dropped, which is the normal "don't care" outcome for hierarchical machines.

Transitions are resolved against the least common ancestor of the current
leaf and the target: states below it are exited leaf-to-root, the path to the
target is entered root-to-leaf, and the target's Init binding then descends
into nested default substates until a leaf is reached.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/hsmkit/hsm"
		"github.com/hsmkit/hsm/pkg/domain"
	)

	const (
		Power = domain.User + iota
		Play
	)

	func main() {
		off := domain.NewState("Off")
		on := domain.NewState("On")
		playing := on.NewChild("Playing")

		eng := hsm.New([]domain.Binding{
			domain.Transit(off, Power, on),
			domain.Transit(on, Power, off),
			domain.Transit(on, domain.Init, playing),
			domain.Handle(playing, domain.Entry, func(ctx context.Context, msg *domain.Message) domain.Result {
				log.Println("rolling tape")
				return domain.Stay()
			}),
		})

		ctx := context.Background()
		if err := eng.Start(ctx, off); err != nil {
			log.Fatal(err)
		}
		if err := eng.Send(ctx, Power, nil); err != nil {
			log.Fatal(err)
		}
		log.Println(eng.Active().Path()) // On/Playing
	}

The engine is single-threaded: Dispatch runs every cascaded side
effect to completion before returning and performs no locking. Callers that
drive one engine from several goroutines must serialize access externally,
as the HTTP adapter in internal/adapters/http does.
*/
package hsm
