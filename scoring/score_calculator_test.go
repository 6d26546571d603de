package scoring

import (
	"testing"

	"mahjong-engine/player"
	"mahjong-engine/tile"
)

func c(n int) tile.Tile { return tile.New(tile.Character, n) }
func d(n int) tile.Tile { return tile.New(tile.Dot, n) }
func b(n int) tile.Tile { return tile.New(tile.Bamboo, n) }
func w(n int) tile.Tile { return tile.New(tile.Wind, n) }

func hasType(entries []PointEntry, pt PointType) (PointEntry, bool) {
	for _, e := range entries {
		if e.Type == pt {
			return e, true
		}
	}
	return PointEntry{}, false
}

func emptyLosers(n int) []*player.Hand {
	out := make([]*player.Hand, n)
	for i := range out {
		out[i] = player.New(i + 1)
	}
	return out
}

// Single-candidate plus sequence exclusivity: the hand has
// an honor pair and is won by self-goal, so SEQUENCE must not be
// awarded, but SINGLE_CANDIDATE is (exactly one waiting tile).
func TestScore_SingleCandidateExcludesSequenceWithHonorPair(t *testing.T) {
	winner := player.New(0)
	winner.Concealed = tile.Sorted([]tile.Tile{
		c(1), c(2), c(3), c(4), c(5), c(6),
		d(1), d(2), d(3),
		b(1), b(2), b(3),
		d(7), d(8), d(9),
		w(0), w(0),
	})

	points, _ := Score(Input{
		Winner:      winner,
		Losers:      emptyLosers(3),
		BankerSeat:  1,
		RoundWind:   0,
		Dice:        [3]int{1, 1, 1},
		WallSize:    50,
		WinningTile: w(0),
	})

	if _, ok := hasType(points, Sequence); ok {
		t.Fatalf("SEQUENCE must not be awarded: hand has an honor pair, got %v", points)
	}
	if entry, ok := hasType(points, SingleCandidate); !ok || entry.Points != 1 {
		t.Fatalf("expected SINGLE_CANDIDATE (+1) in %v", points)
	}
	if _, ok := hasType(points, AllSelfGoal); !ok {
		t.Fatalf("expected ALL_SELF_GOAL for a fully concealed self-goal, got %v", points)
	}
}

func TestScore_SequenceAwardedOnCleanClaimedWin(t *testing.T) {
	winner := player.New(0)
	winner.Concealed = tile.Sorted([]tile.Tile{
		c(1), c(2), c(3), c(4), c(5), c(6),
		d(1), d(2), d(3),
		b(2), b(3), b(4),
		c(7), c(8), c(9),
		d(5), d(5),
	})

	points, _ := Score(Input{
		Winner:      winner,
		Losers:      emptyLosers(1),
		BankerSeat:  2,
		RoundWind:   0,
		Dice:        [3]int{2, 2, 2},
		WallSize:    50,
		WinningTile: c(9),
	})

	if _, ok := hasType(points, Sequence); !ok {
		t.Fatalf("expected SEQUENCE on a no-triplet, no-honor, multi-wait claimed win, got %v", points)
	}
}

func TestScore_BankerBlockAndRunning(t *testing.T) {
	winner := player.New(1)
	winner.Concealed = tile.Sorted([]tile.Tile{
		c(1), c(1), c(1),
		c(2), c(2), c(2),
		c(3), c(3), c(3),
		c(4), c(4), c(4),
		d(1), d(1), d(1),
		d(5), d(5),
	})

	_, bankerPoints := Score(Input{
		Winner:      winner,
		Losers:      emptyLosers(3),
		BankerSeat:  1,
		RoundWind:   0,
		Dice:        [3]int{1, 1, 1},
		Runs:        2,
		WallSize:    50,
		WinningTile: d(5),
	})

	if entry, ok := hasType(bankerPoints, Banker); !ok || entry.Points != 1 {
		t.Fatalf("expected BANKER (+1), got %v", bankerPoints)
	}
	if entry, ok := hasType(bankerPoints, Running); !ok || entry.Points != 4 {
		t.Fatalf("expected RUNNING (+4, 2*runs with runs=2), got %v", bankerPoints)
	}
}

func TestScore_InvalidWinningTileReturnsEmptyLists(t *testing.T) {
	winner := player.New(0)
	winner.Concealed = tile.Sorted([]tile.Tile{
		c(1), c(2), c(3), c(4), c(5), c(6),
		d(1), d(2), d(3),
		b(1), b(2), b(3),
		d(7), d(8), d(9),
		w(0), w(1), // not a winning shape: w(1) does not complete anything
	})

	points, bankerPoints := Score(Input{
		Winner:      winner,
		Losers:      emptyLosers(3),
		BankerSeat:  1,
		WallSize:    50,
		WinningTile: w(1),
	})

	if points != nil || bankerPoints != nil {
		t.Fatalf("expected two empty lists for an invalid winning tile, got %v / %v", points, bankerPoints)
	}
}

func TestScore_AllPongAndCoverPong(t *testing.T) {
	winner := player.New(0)
	winner.Concealed = tile.Sorted([]tile.Tile{
		c(1), c(1), c(1),
		c(2), c(2), c(2),
		c(3), c(3), c(3),
		c(4), c(4), c(4),
		d(5), d(5),
	})
	winner.ExposedPong = []tile.Tile{d(9)}

	points, _ := Score(Input{
		Winner:      winner,
		Losers:      emptyLosers(1),
		BankerSeat:  2,
		WallSize:    50,
		WinningTile: d(5),
	})

	if entry, ok := hasType(points, CoverPong4); !ok || entry.Points != 5 {
		t.Fatalf("expected COVER_PONG4 (+5) for four concealed triplets, got %v", points)
	}
	if entry, ok := hasType(points, AllPong); !ok || entry.Points != 4 {
		t.Fatalf("expected ALL_PONG (+4): 4 cover pongs + 1 exposed pong = 5, got %v", points)
	}
}
