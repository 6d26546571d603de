package engine

import (
	"mahjong-engine/player"
	"mahjong-engine/scoring"
	"mahjong-engine/tile"
)

// turnMode tells playRound's loop how to begin an iteration: with a
// fresh head-of-wall draw, with no draw at all (a pong/chow claimer
// acts immediately), or with a tail supply draw (a kong claimer).
type turnMode int

const (
	drawFromWall turnMode = iota
	noDraw
	supplyDraw
)

// turnResult is what checkDrawAction (and the reaction resolution it
// delegates to) hands back to playRound: either the round is over, or
// play continues with a given seat and turn mode.
type turnResult struct {
	end      bool
	event    Event
	nextSeat int
	nextMode turnMode
}

// playRound is the main turn loop. The banker already holds 17 tiles
// after setup, so the first iteration skips the head draw.
func (g *Game) playRound() {
	seat := g.CurrentSeat
	mode := noDraw

	for {
		g.CurrentSeat = seat
		switch mode {
		case drawFromWall:
			if len(g.Wall) < 16 {
				g.finish(g.exhaustedEvent())
				return
			}
			g.PendingKongGoal = false
			t, _ := g.popHead()
			g.Players[seat].Draw(t)
			g.emit(Event{Seat: seat, Phase: PhaseDraw, Payload: Payload{Tile: t}})
		case supplyDraw:
			t, ok := g.popTail()
			if !ok {
				g.finish(g.exhaustedEvent())
				return
			}
			g.Players[seat].Draw(t)
			g.emit(Event{Seat: seat, Phase: PhaseSupply, Payload: Payload{Tile: t}})
		case noDraw:
		}

		res := g.checkDrawAction(seat)
		if res.end {
			g.finish(res.event)
			return
		}
		seat = res.nextSeat
		mode = res.nextMode
	}
}

func (g *Game) exhaustedEvent() Event {
	return Event{Phase: PhaseEnd, Payload: Payload{Winner: -1, SeatWinds: g.allSeatWinds()}}
}

// checkDrawAction runs the CHECK_DRAW_ACTION phase: sweep any
// flowers (looping on replacement draws), then offer the current seat
// its draw-phase menu. Self-kong and extend-kong loop back into this
// same function after their supply draw; only a discard (or a win)
// returns control to the outer turn loop.
func (g *Game) checkDrawAction(seat int) turnResult {
	for {
		for {
			n := g.Players[seat].SweepFlowers()
			if n == 0 {
				break
			}
			if ended, ev := g.flowerWinCheck(seat); ended {
				return turnResult{end: true, event: ev}
			}
			for i := 0; i < n; i++ {
				t, ok := g.popTail()
				if !ok {
					return turnResult{end: true, event: g.exhaustedEvent()}
				}
				g.Players[seat].Draw(t)
			}
			g.emit(Event{Seat: seat, Phase: PhaseSupply})
		}

		actions := g.Players[seat].DrawPhaseActions(g.goalEligible(seat))
		actions = append(actions, discardChoices(g.Players[seat])...)
		resp := g.emit(Event{Seat: seat, Phase: PhaseCheckDrawAction, LegalActions: actions})

		switch resp.Action {
		case player.SelfGoalAct:
			contextual := []scoring.PointType(nil)
			if g.PendingKongGoal {
				contextual = append(contextual, scoring.KongGoal)
			}
			winningTile := g.Players[seat].LastDrawn
			return turnResult{end: true, event: g.winEvent(seat, others(seat), winningTile, contextual)}

		case player.SelfKong:
			_ = g.Players[seat].SelfKong(resp.Target)
			g.armOrForfeitKongGoal()
			t, ok := g.popTail()
			if !ok {
				return turnResult{end: true, event: g.exhaustedEvent()}
			}
			g.Players[seat].Draw(t)
			g.emit(Event{Seat: seat, Phase: PhaseSupply, Payload: Payload{Tile: t}})

		case player.ExtendKong:
			_ = g.Players[seat].ExtendKong(resp.Target)
			if robbed, winner := g.offerKongRobbery(seat, resp.Target); robbed {
				_ = g.Players[seat].RobExtendKong(resp.Target)
				return turnResult{end: true, event: g.winEvent(winner, []int{seat}, resp.Target, []scoring.PointType{scoring.ExtendKongGoal})}
			}
			g.armOrForfeitKongGoal()
			t, ok := g.popTail()
			if !ok {
				return turnResult{end: true, event: g.exhaustedEvent()}
			}
			g.Players[seat].Draw(t)
			g.emit(Event{Seat: seat, Phase: PhaseSupply, Payload: Payload{Tile: t}})

		case player.Discard:
			_ = g.Players[seat].Discard(resp.Target)
			g.CanGoal[seat] = true
			return g.resolveReactions(seat, resp.Target)
		}
	}
}

// discardChoices enumerates one LegalAction per distinct tile this hand
// could discard - always legal once a seat holds 17 tiles. Walking the
// sorted concealed slice (rather than a count map) keeps the offered
// order identical across runs, which the determinism contract requires
// of the whole event stream.
func discardChoices(h *player.Hand) []player.LegalAction {
	var out []player.LegalAction
	var prev tile.Tile = -1
	for _, t := range h.Concealed {
		if t == prev {
			continue
		}
		prev = t
		out = append(out, player.LegalAction{Kind: player.Discard, Target: t})
	}
	return out
}

// winEvent finalizes a round won by completing a hand shape (as
// opposed to a forced flower win): it validates the winning tile via
// scoring.Score and folds that into the END event.
func (g *Game) winEvent(winner int, losers []int, winningTile tile.Tile, contextual []scoring.PointType) Event {
	points, bankerPoints := scoring.Score(scoring.Input{
		Winner:      g.Players[winner],
		Losers:      loserHands(g.Players, losers),
		BankerSeat:  g.BankerSeat,
		RoundWind:   g.RoundWind,
		Dice:        g.Dice,
		Runs:        g.ConsecutiveBankerRuns,
		Contextual:  contextual,
		WallSize:    len(g.Wall),
		WinningTile: winningTile,
	})
	return Event{
		Seat:  winner,
		Phase: PhaseEnd,
		Payload: Payload{
			Winner:       winner,
			Losers:       losers,
			Points:       points,
			BankerPoints: bankerPoints,
			SeatWinds:    g.allSeatWinds(),
		},
	}
}
