// Package scoring computes the point breakdown for a finished hand,
// walking the rule list top to bottom in one function. The longer rules
// (flowers, winds, dragons, cover pongs) sit in small helper functions;
// a rule that suppresses another does so explicitly within that walk.
package scoring

import (
	"mahjong-engine/hand"
	"mahjong-engine/player"
	"mahjong-engine/tile"
)

// Input bundles everything Score needs: the winner's finished hand, the
// seats that lost, and the contextual facts the game state machine
// alone knows (banker identity, dice, forced bonus types, wall size).
type Input struct {
	Winner     *player.Hand
	Losers     []*player.Hand
	BankerSeat int
	RoundWind  int
	Dice       [3]int
	Runs       int
	Contextual []PointType

	WallSize    int
	WinningTile tile.Tile

	// SkipValidity is set for the synthetic flower-8/flower-7 wins,
	// where no tile actually completed a winning shape.
	SkipValidity bool
}

// Score returns the general point list and the banker-specific point
// list. Both are empty if the winning tile does not actually complete
// the hand (an invariant violation the embedder should never trigger,
// but one the scorer refuses to paper over).
func Score(in Input) (points []PointEntry, bankerPoints []PointEntry) {
	if in.Winner.Seat == in.BankerSeat || seatAmong(in.Losers, in.BankerSeat) {
		bankerPoints = append(bankerPoints, entry(1, Banker))
		if in.Runs > 0 {
			bankerPoints = append(bankerPoints, entry(2*in.Runs, Running))
		}
	}

	if in.SkipValidity {
		for _, c := range in.Contextual {
			points = append(points, entry(contextualPoints[c], c))
		}
		return points, bankerPoints
	}

	withoutWinning := removeOneTile(in.Winner.Concealed, in.WinningTile)
	if !containsTile(hand.Candidates(withoutWinning), in.WinningTile) {
		return nil, nil
	}

	for _, c := range in.Contextual {
		points = append(points, entry(contextualPoints[c], c))
	}

	selfGoal := len(in.Losers) == 3
	fullyConcealed := len(in.Winner.ExposedChow) == 0 && len(in.Winner.ExposedPong) == 0 && len(in.Winner.ExposedKong) == 0
	pairOnly := len(in.Winner.Concealed) == 2

	switch {
	case selfGoal && fullyConcealed:
		points = append(points, entry(3, AllSelfGoal))
	case selfGoal:
		points = append(points, entry(1, SelfGoal))
	case fullyConcealed:
		points = append(points, entry(1, AllSelf))
	}
	if pairOnly {
		if selfGoal {
			points = append(points, entry(1, HalfNoSelf))
		} else {
			points = append(points, entry(2, NoSelf))
		}
	}
	if selfGoal && in.WallSize == 16 {
		points = append(points, entry(1, SelfGoalLastTile))
	}

	diceSum := in.Dice[0] + in.Dice[1] + in.Dice[2]
	seatWind := mod4(3 + diceSum + in.BankerSeat - in.Winner.Seat)
	points = append(points, flowerPoints(in.Winner, seatWind)...)

	windCount, seatTriplet, roundTriplet, windPair := windTriplets(in.Winner, in.RoundWind, seatWind)
	bigWind := windCount == 4
	switch {
	case bigWind:
		points = append(points, entry(16, BigWind))
	case windCount == 3 && windPair:
		points = append(points, entry(8, SmallWind))
		if roundTriplet {
			points = append(points, entry(1, WindRound))
		}
		if seatTriplet {
			points = append(points, entry(1, WindSeat))
		}
	default:
		if roundTriplet {
			points = append(points, entry(1, WindRound))
		}
		if seatTriplet {
			points = append(points, entry(1, WindSeat))
		}
	}

	dragonTrips, dragonPair := dragonTriplets(in.Winner)
	switch {
	case len(dragonTrips) == 3:
		points = append(points, entry(8, BigDragon))
	case len(dragonTrips) == 2 && dragonPair:
		points = append(points, entry(4, SmallDragon))
	default:
		for range dragonTrips {
			points = append(points, entry(1, Dragon))
		}
	}

	cp := coverPongs(withoutWinning, in.WinningTile) + len(in.Winner.ConcealedKong)
	switch {
	case cp >= 5:
		points = append(points, entry(8, CoverPong5))
	case cp == 4:
		points = append(points, entry(5, CoverPong4))
	case cp == 3:
		points = append(points, entry(2, CoverPong3))
	}

	winningTileFormedTriplet := countTile(in.Winner.Concealed, in.WinningTile) >= 3
	allPongCount := cp + len(in.Winner.ExposedPong) + len(in.Winner.ExposedKong)
	if winningTileFormedTriplet {
		allPongCount++
	}
	if allPongCount == 5 && !bigWind {
		points = append(points, entry(4, AllPong))
	}

	waits := hand.Candidates(withoutWinning)
	if len(waits) == 1 {
		points = append(points, entry(1, SingleCandidate))
	}

	zeroTriplets := cp == 0 && len(in.Winner.ExposedPong) == 0 && len(in.Winner.ExposedKong) == 0 &&
		len(in.Winner.ConcealedKong) == 0 && !winningTileFormedTriplet
	zeroHonors := !anyHonor(allWinnerTiles(in.Winner))
	zeroFlowers := len(in.Winner.Flowers) == 0
	if zeroTriplets && zeroHonors && zeroFlowers && len(waits) > 1 && len(in.Losers) == 1 {
		points = append(points, entry(2, Sequence))
	}

	tiles := allWinnerTiles(in.Winner)
	switch {
	case allHonor(tiles):
		points = append(points, entry(8, OnlyHonor))
	default:
		if oneSuit, hasHonors := suitUniformity(tiles); oneSuit {
			if hasHonors {
				points = append(points, entry(4, OneSuitMix))
			} else {
				points = append(points, entry(8, OneSuit))
			}
		}
	}

	return points, bankerPoints
}

func mod4(n int) int {
	return ((n % 4) + 4) % 4
}

func seatAmong(hands []*player.Hand, seat int) bool {
	for _, h := range hands {
		if h.Seat == seat {
			return true
		}
	}
	return false
}

func removeOneTile(tiles []tile.Tile, t tile.Tile) []tile.Tile {
	out := make([]tile.Tile, 0, len(tiles))
	removed := false
	for _, x := range tiles {
		if !removed && x == t {
			removed = true
			continue
		}
		out = append(out, x)
	}
	return out
}

func containsTile(tiles []tile.Tile, t tile.Tile) bool {
	for _, x := range tiles {
		if x == t {
			return true
		}
	}
	return false
}

func countTile(tiles []tile.Tile, t tile.Tile) int {
	n := 0
	for _, x := range tiles {
		if x == t {
			n++
		}
	}
	return n
}

func flowerPoints(w *player.Hand, seatWind int) []PointEntry {
	var out []PointEntry
	for _, f := range w.Flowers {
		if tile.Rank(f)%4 == seatWind {
			out = append(out, entry(1, Flower))
		}
	}
	if hasRanks(w.Flowers, 0, 1, 2, 3) {
		out = append(out, entry(1, FlowerKong))
	}
	if hasRanks(w.Flowers, 4, 5, 6, 7) {
		out = append(out, entry(1, FlowerKong))
	}
	return out
}

func hasRanks(flowers []tile.Tile, ranks ...int) bool {
	have := make(map[int]bool, len(flowers))
	for _, f := range flowers {
		have[tile.Rank(f)] = true
	}
	for _, r := range ranks {
		if !have[r] {
			return false
		}
	}
	return true
}

// windTriplets reports how many of the four winds form a triplet
// (exposed pong/kong, concealed kong, or 3+ copies in concealed),
// whether the round and seat winds are among them, and whether the
// single non-triplet wind sits as a pair (the SMALL_WIND precondition).
func windTriplets(w *player.Hand, roundWind, seatWind int) (count int, seatTriplet, roundTriplet, nonTripletIsPair bool) {
	for wind := 0; wind < tile.WindRanks; wind++ {
		t := tile.New(tile.Wind, wind)
		if isMeldedTriplet(w, t) {
			count++
			if wind == seatWind {
				seatTriplet = true
			}
			if wind == roundWind {
				roundTriplet = true
			}
		} else if countTile(w.Concealed, t) == 2 {
			nonTripletIsPair = true
		}
	}
	return
}

func dragonTriplets(w *player.Hand) (triplets []int, pair bool) {
	for d := 0; d < tile.DragonRanks; d++ {
		t := tile.New(tile.Dragon, d)
		if isMeldedTriplet(w, t) {
			triplets = append(triplets, d)
		} else if countTile(w.Concealed, t) == 2 {
			pair = true
		}
	}
	return
}

func isMeldedTriplet(w *player.Hand, t tile.Tile) bool {
	return containsTile(w.ExposedPong, t) || containsTile(w.ExposedKong, t) ||
		containsTile(w.ConcealedKong, t) || countTile(w.Concealed, t) >= 3
}

// coverPongs greedily pulls concealed triplets out of the pre-win
// concealed hand, left to right, keeping only those whose removal (with
// the winning tile added back) still leaves a valid winning shape -
// this rules out a run's middle tile being mistaken for a triplet seed.
func coverPongs(withoutWinning []tile.Tile, winningTile tile.Tile) int {
	sorted := tile.Sorted(withoutWinning)
	count := 0
	for i := 0; i < len(sorted); {
		if i+2 < len(sorted) && sorted[i] == sorted[i+1] && sorted[i+1] == sorted[i+2] {
			rest := append(append([]tile.Tile(nil), sorted[:i]...), sorted[i+3:]...)
			trial := tile.Sorted(append(rest, winningTile))
			if hand.IsWinningShape(trial) {
				count++
				sorted = append(sorted[:i], sorted[i+3:]...)
				continue
			}
		}
		i++
	}
	return count
}

func allWinnerTiles(w *player.Hand) []tile.Tile {
	out := append([]tile.Tile(nil), w.Concealed...)
	for _, c := range w.ExposedChow {
		out = append(out, c.Tiles[:]...)
	}
	out = append(out, w.ExposedPong...)
	out = append(out, w.ExposedKong...)
	out = append(out, w.ConcealedKong...)
	return out
}

func anyHonor(tiles []tile.Tile) bool {
	for _, t := range tiles {
		if tile.IsHonor(t) {
			return true
		}
	}
	return false
}

func allHonor(tiles []tile.Tile) bool {
	if len(tiles) == 0 {
		return false
	}
	for _, t := range tiles {
		if !tile.IsHonor(t) {
			return false
		}
	}
	return true
}

func suitUniformity(tiles []tile.Tile) (oneSuit bool, hasHonors bool) {
	var suit tile.Tile
	for _, t := range tiles {
		if tile.IsHonor(t) {
			hasHonors = true
			continue
		}
		cat := tile.Category(t)
		if suit == 0 {
			suit = cat
		} else if cat != suit {
			return false, hasHonors
		}
	}
	return suit != 0, hasHonors
}
