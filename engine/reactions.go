package engine

import (
	"sort"

	"mahjong-engine/hand"
	"mahjong-engine/player"
	"mahjong-engine/tile"
)

// reactionCandidate is one (seat, priority-class) pairing of legal
// responses to a discard, queued for presentation in priority order.
// The three chow variants share one class; goal, kong and pong each
// form their own, so a seat holding answers in two classes is prompted
// once per class, higher first - its lower-priority claim can never
// preempt another seat's higher one.
type reactionCandidate struct {
	seat    int
	actions []player.LegalAction
	tier    player.ActionKind
}

// resolveReactions runs the reaction-resolution pass:
// every other seat's legal response to discarder's tile t is collected,
// ranked GOAL > KONG > PONG > CHOW with ties broken by clockwise
// distance, and presented one candidate at a time until someone accepts
// or everything has been passed on.
func (g *Game) resolveReactions(discarder int, t tile.Tile) turnResult {
	var queue []reactionCandidate
	for offset := 1; offset <= 3; offset++ {
		seat := (discarder + offset) % 4
		isNextSeat := offset == 1
		actions := g.Players[seat].DiscardReactionActions(t, g.goalEligible(seat), isNextSeat)
		queue = append(queue, groupByClass(seat, actions)...)
	}
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].tier != queue[j].tier {
			return queue[i].tier > queue[j].tier
		}
		return clockwiseDistance(discarder, queue[i].seat) < clockwiseDistance(discarder, queue[j].seat)
	})

	for _, cand := range queue {
		offered := append(append([]player.LegalAction(nil), cand.actions...), player.LegalAction{Kind: player.Pass, Target: t})
		resp := g.emit(Event{
			Seat:         cand.seat,
			Phase:        PhaseCheckDiscardAction,
			Payload:      Payload{Tile: t, Discarder: discarder, HasDiscarder: true},
			LegalActions: offered,
		})

		switch resp.Action {
		case player.Goal:
			_ = g.Players[cand.seat].Goal(t)
			popDiscard(g.Players[discarder])
			return turnResult{end: true, event: g.winEvent(cand.seat, []int{discarder}, t, nil)}
		case player.Kong:
			_ = g.Players[cand.seat].ClaimKong(t)
			popDiscard(g.Players[discarder])
			g.armOrForfeitKongGoal()
			return turnResult{nextSeat: cand.seat, nextMode: supplyDraw}
		case player.Pong:
			_ = g.Players[cand.seat].ClaimPong(t)
			popDiscard(g.Players[discarder])
			return turnResult{nextSeat: cand.seat, nextMode: noDraw}
		case player.ChowLeft:
			_ = g.Players[cand.seat].ClaimChowLeft(t)
			popDiscard(g.Players[discarder])
			return turnResult{nextSeat: cand.seat, nextMode: noDraw}
		case player.ChowMiddle:
			_ = g.Players[cand.seat].ClaimChowMiddle(t)
			popDiscard(g.Players[discarder])
			return turnResult{nextSeat: cand.seat, nextMode: noDraw}
		case player.ChowRight:
			_ = g.Players[cand.seat].ClaimChowRight(t)
			popDiscard(g.Players[discarder])
			return turnResult{nextSeat: cand.seat, nextMode: noDraw}
		default: // player.Pass
			if cand.tier == player.Goal {
				g.CanGoal[cand.seat] = false
			}
		}
	}
	return turnResult{nextSeat: nextSeat(discarder), nextMode: drawFromWall}
}

// offerKongRobbery implements the extend-kong robbery offer: every
// other seat, in clockwise order from the kong's owner, gets a chance
// to GOAL on the extending tile before it settles. A decline is
// permanent for the rest of the round, unlike the furiten-style pass
// in resolveReactions.
func (g *Game) offerKongRobbery(seat int, t tile.Tile) (robbed bool, winner int) {
	for offset := 1; offset <= 3; offset++ {
		rob := (seat + offset) % 4
		if !g.goalEligible(rob) || !waitingOn(g.Players[rob], t) {
			continue
		}
		actions := []player.LegalAction{{Kind: player.Goal, Target: t}, {Kind: player.Pass, Target: t}}
		resp := g.emit(Event{
			Seat:         rob,
			Phase:        PhaseCheckDiscardAction,
			Payload:      Payload{Tile: t, Discarder: seat, HasDiscarder: true},
			LegalActions: actions,
		})
		if resp.Action == player.Goal {
			_ = g.Players[rob].Goal(t)
			return true, rob
		}
		g.robberyDeclined[rob] = true
	}
	return false, 0
}

// groupByClass splits a seat's legal reactions into priority classes.
// The class tier doubles as the sort key; chows are keyed on ChowLeft,
// the top of their shared class.
func groupByClass(seat int, actions []player.LegalAction) []reactionCandidate {
	var goal, kong, pong, chow []player.LegalAction
	for _, a := range actions {
		switch a.Kind {
		case player.Goal:
			goal = append(goal, a)
		case player.Kong:
			kong = append(kong, a)
		case player.Pong:
			pong = append(pong, a)
		case player.ChowLeft, player.ChowMiddle, player.ChowRight:
			chow = append(chow, a)
		}
	}
	var out []reactionCandidate
	if len(goal) > 0 {
		out = append(out, reactionCandidate{seat: seat, actions: goal, tier: player.Goal})
	}
	if len(kong) > 0 {
		out = append(out, reactionCandidate{seat: seat, actions: kong, tier: player.Kong})
	}
	if len(pong) > 0 {
		out = append(out, reactionCandidate{seat: seat, actions: pong, tier: player.Pong})
	}
	if len(chow) > 0 {
		out = append(out, reactionCandidate{seat: seat, actions: chow, tier: player.ChowLeft})
	}
	return out
}

func waitingOn(h *player.Hand, t tile.Tile) bool {
	for _, c := range hand.Candidates(h.Concealed) {
		if c == t {
			return true
		}
	}
	return false
}

func popDiscard(h *player.Hand) {
	if n := len(h.Discards); n > 0 {
		h.Discards = h.Discards[:n-1]
	}
}
