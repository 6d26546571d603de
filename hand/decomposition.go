// Package hand implements the memoized combinatorial core of the hand
// evaluator: reducing a tile multiset to its minimal residuals after
// stripping triplets and runs, and computing the set of tiles that
// would complete it.
package hand

import (
	"mahjong-engine/internal/cache"
	"mahjong-engine/tile"
)

const memoEntries = 8000

var (
	reduceCache     *cache.MemoCache
	candidatesCache *cache.MemoCache
)

func init() {
	var err error
	reduceCache, err = cache.NewMemoCache(memoEntries)
	if err != nil {
		panic(err)
	}
	candidatesCache, err = cache.NewMemoCache(memoEntries)
	if err != nil {
		panic(err)
	}
}

// Reduce removes one triplet or one run from hand in every possible
// way, recursing on the residual, and returns the set of all minimal
// residuals reachable - hands from which no further triplet or run can
// be removed. If hand already admits no removal, {hand} is returned.
//
// Runs are valid only within a single suit, over consecutive ranks.
// The memo is keyed on the hand's per-type count signature, since
// Reduce is a pure function of its (unordered) input.
func Reduce(h []tile.Tile) [][]tile.Tile {
	return reduceSorted(tile.Sorted(h))
}

func reduceSorted(sorted []tile.Tile) [][]tile.Tile {
	k := key(sorted)
	if v, ok := reduceCache.Get(k); ok {
		return v.([][]tile.Tile)
	}
	result := reduceCompute(sorted)
	reduceCache.Set(k, result)
	return result
}

func reduceCompute(sorted []tile.Tile) [][]tile.Tile {
	residuals := oneStepRemovals(sorted)
	if len(residuals) == 0 {
		return [][]tile.Tile{append([]tile.Tile(nil), sorted...)}
	}

	seen := make(map[string][]tile.Tile)
	for _, residual := range residuals {
		for _, minimal := range reduceSorted(residual) {
			seen[key(minimal)] = minimal
		}
	}

	out := make([][]tile.Tile, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	return out
}

// oneStepRemovals returns the residual hand for every distinct triplet
// or run that can be removed from sorted in one step.
func oneStepRemovals(sorted []tile.Tile) [][]tile.Tile {
	counts := tile.Counts(sorted)
	var out [][]tile.Tile

	triedTriplet := make(map[tile.Tile]bool)
	triedRun := make(map[tile.Tile]bool)
	for _, t := range sorted {
		if !triedTriplet[t] {
			triedTriplet[t] = true
			if counts[t] >= 3 {
				out = append(out, removeOneEach(sorted, t, t, t))
			}
		}
		if !triedRun[t] && tile.IsSuited(t) {
			triedRun[t] = true
			r := tile.Rank(t)
			if r <= tile.SuitRanks-2 {
				a, b, c := t, t+1, t+2
				if counts[a] >= 1 && counts[b] >= 1 && counts[c] >= 1 {
					out = append(out, removeOneEach(sorted, a, b, c))
				}
			}
		}
	}
	return out
}

// removeOneEach returns a copy of sorted with one occurrence each of
// a, b, c removed (a, b, c need not be distinct - a triplet passes the
// same tile three times).
func removeOneEach(sorted []tile.Tile, a, b, c tile.Tile) []tile.Tile {
	need := map[tile.Tile]int{a: 0, b: 0, c: 0}
	need[a]++
	need[b]++
	need[c]++

	out := make([]tile.Tile, 0, len(sorted)-3)
	for _, t := range sorted {
		if need[t] > 0 {
			need[t]--
			continue
		}
		out = append(out, t)
	}
	return out
}

// IsWinningShape reports whether hand (size 3k+2) decomposes into k
// melds plus one pair - i.e. some residual in Reduce(hand) is a pair.
func IsWinningShape(h []tile.Tile) bool {
	for _, residual := range Reduce(h) {
		if isPair(residual) {
			return true
		}
	}
	return false
}

func isPair(residual []tile.Tile) bool {
	return len(residual) == 2 && residual[0] == residual[1]
}

// Candidates returns the set of tiles that would complete hand into a
// winning shape if added: the "wait set". Candidate tiles tested are
// every tile already present in hand (pair/triplet completion) plus,
// for suited tiles, their same-suit rank neighbors (run completion);
// honors never contribute neighbors since they admit no runs.
func Candidates(h []tile.Tile) []tile.Tile {
	sorted := tile.Sorted(h)
	k := key(sorted)
	if v, ok := candidatesCache.Get(k); ok {
		return v.([]tile.Tile)
	}

	waits := computeCandidates(sorted)
	candidatesCache.Set(k, waits)
	return waits
}

func computeCandidates(sorted []tile.Tile) []tile.Tile {
	tried := make(map[tile.Tile]bool)
	var toTest []tile.Tile
	consider := func(t tile.Tile) {
		if tried[t] {
			return
		}
		tried[t] = true
		toTest = append(toTest, t)
	}

	seenBase := make(map[tile.Tile]bool)
	for _, t := range sorted {
		if seenBase[t] {
			continue
		}
		seenBase[t] = true
		consider(t)
		if tile.IsSuited(t) {
			r := tile.Rank(t)
			if r > 1 {
				consider(t - 1)
			}
			if r < tile.SuitRanks {
				consider(t + 1)
			}
		}
	}

	var waits []tile.Tile
	for _, c := range toTest {
		trial := make([]tile.Tile, len(sorted)+1)
		copy(trial, sorted)
		trial[len(sorted)] = c
		if IsWinningShape(tile.Sorted(trial)) {
			waits = append(waits, c)
		}
	}
	return tile.Sorted(waits)
}

// tileIndex maps each of the 34 non-flower tile types onto a dense
// index. Flowers never reach the evaluator - they are swept out of the
// concealed hand before any decomposition runs.
func tileIndex(t tile.Tile) int {
	r := tile.Rank(t)
	switch tile.Category(t) {
	case tile.Character:
		return r - 1
	case tile.Dot:
		return 9 + r - 1
	case tile.Bamboo:
		return 18 + r - 1
	case tile.Wind:
		return 27 + r
	default: // tile.Dragon
		return 31 + r
	}
}

// key packs a hand into its per-type count signature, a fixed 34-byte
// string with one byte per tile type. Two hands share a key iff they
// are the same multiset, and the packed counts beat a per-tile tuple
// key for map lookups.
func key(sorted []tile.Tile) string {
	var b [34]byte
	for _, t := range sorted {
		b[tileIndex(t)]++
	}
	return string(b[:])
}
