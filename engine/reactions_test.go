package engine

import (
	"testing"

	"mahjong-engine/player"
	"mahjong-engine/tile"
)

func newTestGame() *Game {
	return &Game{
		CanGoal: [4]bool{true, true, true, true},
		Players: [4]*player.Hand{player.New(0), player.New(1), player.New(2), player.New(3)},
		eventCh: make(chan Event),
		respCh:  make(chan Response),
	}
}

func ch(n int) tile.Tile   { return tile.New(tile.Character, n) }
func dot(n int) tile.Tile  { return tile.New(tile.Dot, n) }
func wind(n int) tile.Tile { return tile.New(tile.Wind, n) }
func drag(n int) tile.Tile { return tile.New(tile.Dragon, n) }

// waitingOnSingle builds a 16-tile hand that is tenpai on exactly one
// tile: four complete triplets plus a fifth, pair-bound single.
func waitingOnSingle(single tile.Tile) []tile.Tile {
	return tile.Sorted([]tile.Tile{
		ch(1), ch(1), ch(1),
		ch(2), ch(2), ch(2),
		ch(3), ch(3), ch(3),
		ch(4), ch(4), ch(4),
		dot(1), dot(1), dot(1),
		single,
	})
}

// runReactions drives resolveReactions on its own goroutine, feeding the
// supplied responses to each decision event it emits in order, and
// returns the final turnResult.
func runReactions(t *testing.T, g *Game, discarder int, discard tile.Tile, steps func(ev Event) Response) turnResult {
	t.Helper()
	done := make(chan turnResult, 1)
	go func() { done <- g.resolveReactions(discarder, discard) }()
	for {
		select {
		case ev := <-g.eventCh:
			g.respCh <- steps(ev)
		case res := <-done:
			return res
		}
	}
}

// Simple chow: seat 1 is offered CHOW_RIGHT and no GOAL.
func TestResolveReactions_SimpleChow(t *testing.T) {
	g := newTestGame()
	t0 := ch(3)
	g.Players[0].Discards = []tile.Tile{t0}
	g.Players[1].Concealed = tile.Sorted([]tile.Tile{
		ch(1), ch(2), ch(4), ch(5), ch(6), ch(7), ch(8), ch(9),
		dot(1), dot(2), dot(4), dot(5), dot(6), wind(0), wind(0),
	})

	var prompted = -1
	res := runReactions(t, g, 0, t0, func(ev Event) Response {
		prompted = ev.Seat
		hasChowRight, hasGoal := false, false
		for _, a := range ev.LegalActions {
			if a.Kind == player.ChowRight && a.Target == t0 {
				hasChowRight = true
			}
			if a.Kind == player.Goal {
				hasGoal = true
			}
		}
		if !hasChowRight {
			t.Errorf("seat 1 missing CHOW_RIGHT(%v) among %v", t0, ev.LegalActions)
		}
		if hasGoal {
			t.Errorf("seat 1 must not be offered GOAL")
		}
		return Response{Action: player.ChowRight, Target: t0}
	})

	if prompted != 1 {
		t.Fatalf("expected seat 1 to be prompted first, got %d", prompted)
	}
	if res.end {
		t.Fatalf("round must not end on a chow claim")
	}
	if res.nextSeat != 1 || res.nextMode != noDraw {
		t.Fatalf("expected nextSeat=1 nextMode=noDraw, got %+v", res)
	}
}

// GOAL beats PONG and CHOW: seat 2 (nearer goaler) is
// presented first and, on accepting, ends the round without ever
// prompting seats 1 or 3.
func TestResolveReactions_GoalBeatsPongAndChow(t *testing.T) {
	g := newTestGame()
	t0 := ch(9)
	g.Players[0].Discards = []tile.Tile{t0}

	g.Players[1].Concealed = tile.Sorted([]tile.Tile{ch(7), ch(8)})
	g.Players[2].Concealed = waitingOnSingle(t0)
	g.Players[3].Concealed = waitingOnSingle(t0)

	var seenSeats []int
	res := runReactions(t, g, 0, t0, func(ev Event) Response {
		seenSeats = append(seenSeats, ev.Seat)
		if ev.Seat == 2 {
			return Response{Action: player.Goal, Target: t0}
		}
		return Response{Action: player.Pass, Target: t0}
	})

	if len(seenSeats) != 1 || seenSeats[0] != 2 {
		t.Fatalf("expected only seat 2 to be prompted, got %v", seenSeats)
	}
	if !res.end {
		t.Fatalf("expected the round to end on seat 2's GOAL")
	}
	if res.event.Payload.Winner != 2 {
		t.Fatalf("expected winner=2, got %d", res.event.Payload.Winner)
	}
	if len(res.event.Payload.Losers) != 1 || res.event.Payload.Losers[0] != 0 {
		t.Fatalf("expected a single loser (the discarder), got %v", res.event.Payload.Losers)
	}
}

// Furiten-style sit-out: a goal-capable seat that passes has
// can_goal cleared.
func TestResolveReactions_FuritenClearsCanGoal(t *testing.T) {
	g := newTestGame()
	t0 := ch(9)
	g.Players[0].Discards = []tile.Tile{t0}
	g.Players[1].Concealed = waitingOnSingle(t0)

	res := runReactions(t, g, 0, t0, func(ev Event) Response {
		return Response{Action: player.Pass, Target: t0}
	})

	if g.CanGoal[1] {
		t.Fatalf("expected CanGoal[1] cleared after passing on a GOAL-eligible discard")
	}
	if res.end {
		t.Fatalf("an all-pass resolution must not end the round")
	}
	if res.nextSeat != 1 || res.nextMode != drawFromWall {
		t.Fatalf("expected play to advance to seat 1 via drawFromWall, got %+v", res)
	}
}

// Extend-kong robbery.
func TestOfferKongRobbery_Accepted(t *testing.T) {
	g := newTestGame()
	t0 := drag(0)
	g.Players[1].Concealed = waitingOnSingle(t0)

	type result struct {
		robbed bool
		winner int
	}
	done := make(chan result, 1)
	go func() {
		robbed, winner := g.offerKongRobbery(0, t0)
		done <- result{robbed, winner}
	}()

	ev := <-g.eventCh
	if ev.Seat != 1 {
		t.Fatalf("expected seat 1 to be offered the robbery, got seat %d", ev.Seat)
	}
	foundGoal, foundPass := false, false
	for _, a := range ev.LegalActions {
		if a.Kind == player.Goal && a.Target == t0 {
			foundGoal = true
		}
		if a.Kind == player.Pass && a.Target == t0 {
			foundPass = true
		}
	}
	if !foundGoal || !foundPass {
		t.Fatalf("expected exactly [(GOAL,t),(PASS,t)] offered, got %v", ev.LegalActions)
	}
	g.respCh <- Response{Action: player.Goal, Target: t0}

	res := <-done
	if !res.robbed || res.winner != 1 {
		t.Fatalf("expected seat 1 to rob the kong, got %+v", res)
	}
}

func TestOfferKongRobbery_DeclinePermanentlyClearsGoal(t *testing.T) {
	g := newTestGame()
	t0 := drag(0)
	g.Players[1].Concealed = waitingOnSingle(t0)

	done := make(chan bool, 1)
	go func() {
		robbed, _ := g.offerKongRobbery(0, t0)
		done <- robbed
	}()
	<-g.eventCh
	g.respCh <- Response{Action: player.Pass, Target: t0}

	if robbed := <-done; robbed {
		t.Fatalf("expected decline, not a robbery")
	}
	if !g.robberyDeclined[1] {
		t.Fatalf("expected robberyDeclined[1] set after declining")
	}
	if g.goalEligible(1) {
		t.Fatalf("expected seat 1 no longer goal-eligible this round after declining a robbery")
	}
}
