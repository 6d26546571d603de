package engine

import (
	"mahjong-engine/player"
	"mahjong-engine/scoring"
	"mahjong-engine/tile"
)

// run is the coroutine body: the entire lifetime of one round, from
// setup through the first terminal event. It always returns by calling
// emitFinal exactly once.
func (g *Game) run() {
	g.emit(Event{Seat: g.CurrentSeat, Phase: PhaseStart})

	g.Wall = tile.Deck()
	g.rng.Shuffle(len(g.Wall), func(i, j int) {
		g.Wall[i], g.Wall[j] = g.Wall[j], g.Wall[i]
	})

	g.Dice = [3]int{g.rng.Intn(6) + 1, g.rng.Intn(6) + 1, g.rng.Intn(6) + 1}
	g.emit(Event{Seat: g.CurrentSeat, Phase: PhaseRollDice, Payload: Payload{Dice: g.Dice}})

	g.initDraw()
	g.emit(Event{Seat: g.CurrentSeat, Phase: PhaseInitDraw})

	t, _ := g.popHead()
	g.Players[g.BankerSeat].Draw(t)
	g.emit(Event{Seat: g.BankerSeat, Phase: PhaseInitBankerDraw, Payload: Payload{Tile: t}})

	if ended, ev := g.sweepAllFlowers(); ended {
		g.finish(ev)
		return
	}

	g.playRound()
}

// initDraw deals 4 tiles at a time, 4 rounds, starting at the banker -
// 16 tiles per seat.
func (g *Game) initDraw() {
	for round := 0; round < 4; round++ {
		for offset := 0; offset < 4; offset++ {
			seat := (g.BankerSeat + offset) % 4
			for i := 0; i < 4; i++ {
				t, ok := g.popHead()
				if !ok {
					return
				}
				g.Players[seat].Concealed = append(g.Players[seat].Concealed, t)
			}
		}
	}
	for _, p := range g.Players {
		p.Concealed = tile.Sorted(p.Concealed)
	}
}

// sweepAllFlowers runs the INIT_FLOWER_SUPPLY pass: every seat sheds
// its flowers and draws tail replacements, repeating while any seat
// drew a flower in the last pass. Reports whether this produced an
// instant win (a seat reaching 7 or 8 flowers).
func (g *Game) sweepAllFlowers() (bool, Event) {
	for {
		anyFlower := false
		for seat := 0; seat < 4; seat++ {
			n := g.Players[seat].SweepFlowers()
			if n == 0 {
				continue
			}
			anyFlower = true
			if ended, ev := g.flowerWinCheck(seat); ended {
				return true, ev
			}
			for i := 0; i < n; i++ {
				t, ok := g.popTail()
				if !ok {
					break
				}
				g.Players[seat].Draw(t)
			}
			g.emit(Event{Seat: seat, Phase: PhaseInitFlowerSupply})
		}
		if !anyFlower {
			return false, Event{}
		}
	}
}

// flowerWinCheck ends the round when flower counts do: a seat that just swept
// flowers and now holds 8 wins instantly; one that now holds exactly 7,
// with the lone 8th flower held by exactly one other seat, wins by
// flower-7 against that seat alone.
func (g *Game) flowerWinCheck(seat int) (bool, Event) {
	n := len(g.Players[seat].Flowers)
	if n == 8 {
		return true, g.flowerWinEvent(seat, others(seat), scoring.Flower8)
	}
	if n != 7 {
		return false, Event{}
	}
	total := 0
	for _, p := range g.Players {
		total += len(p.Flowers)
	}
	if total != 8 {
		return false, Event{}
	}
	var loser int
	found := false
	for s := 0; s < 4; s++ {
		if s == seat {
			continue
		}
		if len(g.Players[s].Flowers) == 1 {
			loser = s
			found = true
			break
		}
	}
	if !found {
		return false, Event{}
	}
	return true, g.flowerWinEvent(seat, []int{loser}, scoring.Flower7)
}

func (g *Game) flowerWinEvent(winner int, losers []int, contextual scoring.PointType) Event {
	points, bankerPoints := scoring.Score(scoring.Input{
		Winner:       g.Players[winner],
		Losers:       loserHands(g.Players, losers),
		BankerSeat:   g.BankerSeat,
		RoundWind:    g.RoundWind,
		Dice:         g.Dice,
		Runs:         g.ConsecutiveBankerRuns,
		Contextual:   []scoring.PointType{contextual},
		WallSize:     len(g.Wall),
		SkipValidity: true,
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

func loserHands(players [4]*player.Hand, losers []int) []*player.Hand {
	out := make([]*player.Hand, 0, len(losers))
	for _, s := range losers {
		out = append(out, players[s])
	}
	return out
}
