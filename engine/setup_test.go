package engine

import (
	"testing"

	"mahjong-engine/scoring"
	"mahjong-engine/tile"
)

func flower(n int) tile.Tile { return tile.New(tile.Flower, n) }

// Flower-7: one seat holds 7 flowers, the total across all
// seats is exactly 8, and the 8th is held by exactly one other seat.
func TestFlowerWinCheck_Flower7(t *testing.T) {
	g := newTestGame()
	g.Players[0].Flowers = []tile.Tile{
		flower(0), flower(1), flower(2), flower(3),
		flower(4), flower(5), flower(6),
	}
	g.Players[2].Flowers = []tile.Tile{flower(7)}

	ended, ev := g.flowerWinCheck(0)
	if !ended {
		t.Fatalf("expected a flower-7 win")
	}
	if ev.Payload.Winner != 0 {
		t.Fatalf("expected winner=0, got %d", ev.Payload.Winner)
	}
	if len(ev.Payload.Losers) != 1 || ev.Payload.Losers[0] != 2 {
		t.Fatalf("expected sole loser=2, got %v", ev.Payload.Losers)
	}
	found8 := false
	for _, p := range ev.Payload.Points {
		if p.Type == scoring.Flower7 && p.Points == 8 {
			found8 = true
		}
	}
	if !found8 {
		t.Fatalf("expected FLOWER_7 (+8) in %v", ev.Payload.Points)
	}
}

func TestFlowerWinCheck_NoWinOnSevenWithoutFullEight(t *testing.T) {
	g := newTestGame()
	g.Players[0].Flowers = []tile.Tile{
		flower(0), flower(1), flower(2), flower(3),
		flower(4), flower(5), flower(6),
	}
	// No other seat holds the 8th flower yet - total flowers is 7, not 8.
	ended, _ := g.flowerWinCheck(0)
	if ended {
		t.Fatalf("expected no win: the 8th flower is still in the wall")
	}
}

func TestFlowerWinCheck_Flower8Instant(t *testing.T) {
	g := newTestGame()
	for i := 0; i < 8; i++ {
		g.Players[1].Flowers = append(g.Players[1].Flowers, flower(i))
	}
	ended, ev := g.flowerWinCheck(1)
	if !ended {
		t.Fatalf("expected an instant flower-8 win")
	}
	if len(ev.Payload.Losers) != 3 {
		t.Fatalf("expected all three other seats as losers, got %v", ev.Payload.Losers)
	}
	found8 := false
	for _, p := range ev.Payload.Points {
		if p.Type == scoring.Flower8 && p.Points == 8 {
			found8 = true
		}
	}
	if !found8 {
		t.Fatalf("expected FLOWER_8 (+8) in %v", ev.Payload.Points)
	}
}
