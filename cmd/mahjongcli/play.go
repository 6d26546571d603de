package main

import (
	"mahjong-engine/engine"
	"mahjong-engine/player"
	"mahjong-engine/selector"
	"mahjong-engine/tile"
)

// respondFunc decides the (action, target) reply to a decision event.
type respondFunc func(ev engine.Event) (player.ActionKind, tile.Tile)

// driveRound pumps g from its first event through END using respond for
// every decision point, returning the terminal event.
func driveRound(g *engine.Game, ev engine.Event, respond respondFunc) engine.Event {
	for ev.Phase != engine.PhaseEnd {
		action, target := respond(ev)
		ev = g.Respond(action, target)
	}
	return ev
}

// botResponder drives every seat with the heuristic selector: the
// CLI's only embedder is itself, there being no human seat in self-play
// mode (the move selector exists precisely to stand in for one).
func botResponder(g *engine.Game, sel *selector.Selector) respondFunc {
	return func(ev engine.Event) (player.ActionKind, tile.Tile) {
		h := g.Players[ev.Seat]
		upcoming := g.Wall

		switch ev.Phase {
		case engine.PhaseCheckDrawAction:
			a := sel.ChooseDrawAction(h, ev.LegalActions, upcoming, nil)
			return a.Kind, a.Target
		case engine.PhaseCheckDiscardAction:
			precedingSeat := (ev.Seat-ev.Payload.Discarder+4)%4 == 1
			a := sel.ChooseReaction(h, ev.LegalActions, upcoming, precedingSeat)
			return a.Kind, a.Target
		default:
			return player.Pass, 0
		}
	}
}
