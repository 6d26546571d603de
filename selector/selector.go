// Package selector implements the stateless heuristic move selector:
// a hand-shape evaluator used to pick a discard or a reactive response
// for a non-human seat. Nothing here is learned; all weights are fixed
// constants tuned by hand.
package selector

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"mahjong-engine/hand"
	"mahjong-engine/internal/cache"
	"mahjong-engine/player"
	"mahjong-engine/tile"
)

const (
	winScore     = 1e9
	lookaheadCap = 20
	progressUnit = 3000
	memoEntries  = 8000
)

// Selector holds the one piece of state the heuristic needs across
// calls: an RNG for the discard-temperature noise. Evaluation itself
// is a pure function of (hand, upcoming); the memo cache only avoids
// recomputing it for identical inputs within a round.
type Selector struct {
	Temperature float64

	rng  *rand.Rand
	memo *cache.MemoCache
}

// New builds a selector. temperature must be in [0,1]; seed drives the
// discard-noise RNG only (never the engine's own RNG).
func New(temperature float64, seed int64) (*Selector, error) {
	memo, err := cache.NewMemoCache(memoEntries)
	if err != nil {
		return nil, fmt.Errorf("selector: %w", err)
	}
	return &Selector{
		Temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
		memo:        memo,
	}, nil
}

// evaluate scores a hand shape against the known upcoming wall order
// (truncated to the first 20 draws). A completed hand (a bare pair) scores effectively infinite; a
// tenpai shape (size 1 or 4, the "just-before-pair" sizes for the
// 16-tile rules) is scored by wait quality. Any other size is scored by
// stripping every complete triplet/run it contains and recursing on the
// best resulting residual, adding this level's own shape score on top;
// a hand with no meld left to strip is scored by shape alone. Trying
// candidate discards themselves is ChooseDiscard's job, not this
// function's - evaluate always scores the hand it is actually given.
func (s *Selector) evaluate(h []tile.Tile, upcoming []tile.Tile) float64 {
	if len(upcoming) > lookaheadCap {
		upcoming = upcoming[:lookaheadCap]
	}
	if v, ok := s.memo.Get(memoKey(h, upcoming)); ok {
		return v.(float64)
	}
	v := s.evaluateUncached(h, upcoming)
	s.memo.Set(memoKey(h, upcoming), v)
	return v
}

func (s *Selector) evaluateUncached(h []tile.Tile, upcoming []tile.Tile) float64 {
	switch {
	case len(h) == 2 && h[0] == h[1]:
		return winScore
	case len(h) == 1 || len(h) == 4:
		return s.tenpaiScore(h, upcoming)
	}

	best := math.Inf(-1)
	for _, r := range hand.Reduce(h) {
		if len(r) >= len(h) {
			continue // nothing stripped; recursing would not terminate
		}
		if v := s.evaluate(r, upcoming); v > best {
			best = v
		}
	}
	if math.IsInf(best, -1) {
		return shapeScore(h)
	}
	return shapeScore(h) + best
}

// tenpaiScore scores the "just-before-pair" residual sizes of the
// 16-tile rules: combine how soon any waiting tile
// appears in the known upcoming draw order, how many copies remain
// unseen, and the shape score of the waiting residual itself.
func (s *Selector) tenpaiScore(residual []tile.Tile, upcoming []tile.Tile) float64 {
	waits := hand.Candidates(residual)
	if len(waits) == 0 {
		return shapeScore(residual)
	}
	own := tile.Counts(residual)
	bestDistance := len(upcoming) + 1
	bestAvailable := 0
	for _, w := range waits {
		if d := firstIndex(upcoming, w); d < bestDistance {
			bestDistance = d
		}
		if avail := 4 - own[w]; avail > bestAvailable {
			bestAvailable = avail
		}
	}
	distanceScore := float64(len(upcoming)-bestDistance+1) * 50
	availabilityScore := float64(bestAvailable) * 200
	return distanceScore + availabilityScore + shapeScore(residual)
}

// shapeScore penalizes isolated, hard-to-use tiles and rewards
// progress, independent of any specific wait. evaluate adds it at every
// level of its meld-stripping recursion, residuals included.
func shapeScore(h []tile.Tile) float64 {
	counts := tile.Counts(h)
	score := 0.0
	hasPair := false

	for t, n := range counts {
		switch {
		case tile.IsFlower(t):
			continue
		case tile.IsHonor(t):
			switch n {
			case 1:
				score -= 40
			case 2:
				hasPair = true
			case 3:
				if tile.Category(t) == tile.Dragon {
					score += 60
				} else {
					score += 30
				}
			}
		default:
			if n >= 2 {
				hasPair = hasPair || n == 2
				continue
			}
			if isIsolated(counts, t) {
				score -= isolationPenalty(t)
			}
		}
	}

	if len(h) < 8 && !hasPair {
		score -= 50
	}
	score += progressUnit * float64(16-len(h))
	return score
}

// isIsolated reports whether a suited singleton t has no same-suit
// neighbor within two ranks to eventually form a run with.
func isIsolated(counts map[tile.Tile]int, t tile.Tile) bool {
	if !tile.IsSuited(t) {
		return false
	}
	for d := -2; d <= 2; d++ {
		if d == 0 {
			continue
		}
		r := tile.Rank(t) + d
		if r < 1 || r > tile.SuitRanks {
			continue
		}
		if counts[tile.New(tile.Category(t), r)] > 0 {
			return false
		}
	}
	return true
}

// isolationPenalty grades a lone suited tile by distance from the
// middle rank (5): terminals (1/9) are worst, 2/8 next, then a smooth
// gradient toward the middle.
func isolationPenalty(t tile.Tile) float64 {
	r := tile.Rank(t)
	switch r {
	case 1, 9:
		return 100
	case 2, 8:
		return 70
	default:
		return 40 - 4*math.Abs(float64(r-5))
	}
}

func removeOne(tiles []tile.Tile, t tile.Tile) []tile.Tile {
	out := make([]tile.Tile, 0, len(tiles)-1)
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

func firstIndex(tiles []tile.Tile, t tile.Tile) int {
	for i, x := range tiles {
		if x == t {
			return i
		}
	}
	return len(tiles) + 1
}

func memoKey(h []tile.Tile, upcoming []tile.Tile) string {
	sorted := tile.Sorted(h)
	return fmt.Sprintf("%v|%v", sorted, upcoming)
}

// ChooseDiscard evaluates the hand after dropping each unique
// concealed tile, preferring to keep type diversity and middle-rank
// tiles, excludes avoid (other seats' known waits), and returns the
// best choice. If every candidate is in avoid, it relaxes the
// exclusion one tile at a time rather than stalling. Temperature adds
// uniform(0, temperature) * best_score noise across the top three
// candidates so self-play is not perfectly deterministic.
func (s *Selector) ChooseDiscard(h *player.Hand, upcoming []tile.Tile, avoid map[tile.Tile]bool) tile.Tile {
	type candidate struct {
		t     tile.Tile
		score float64
	}

	build := func(relaxed bool) []candidate {
		var out []candidate
		var prev tile.Tile = -1
		for _, t := range tile.Sorted(h.Concealed) {
			if t == prev {
				continue
			}
			prev = t
			if !relaxed && avoid[t] {
				continue
			}
			reduced := removeOne(h.Concealed, t)
			score := s.evaluate(reduced, upcoming) + diversityBonus(reduced) + middleBonus(t)
			out = append(out, candidate{t: t, score: score})
		}
		return out
	}

	candidates := build(false)
	if len(candidates) == 0 {
		candidates = build(true)
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	if s.Temperature > 0 && len(candidates) > 0 {
		top := candidates
		if len(top) > 3 {
			top = top[:3]
		}
		best := top[0].score
		for i := range top {
			top[i].score += s.rng.Float64() * s.Temperature * best
		}
		sort.SliceStable(top, func(i, j int) bool { return top[i].score > top[j].score })
		return top[0].t
	}
	return candidates[0].t
}

func diversityBonus(h []tile.Tile) float64 {
	suits := map[tile.Tile]bool{}
	for _, t := range h {
		if tile.IsSuited(t) {
			suits[tile.Category(t)] = true
		}
	}
	return float64(len(suits)) * 10
}

// middleBonus rewards letting go of tiles far from the middle rank,
// which keeps the 4-5-6 zone (the tiles that extend into the most runs)
// in hand.
func middleBonus(t tile.Tile) float64 {
	if !tile.IsSuited(t) {
		return 0
	}
	return math.Abs(float64(tile.Rank(t) - 5))
}

// ChooseDrawAction picks among a draw-phase menu that mixes discard
// choices with self-kong/extend-kong/self-goal options (the menu
// CHECK_DRAW_ACTION offers in one shot). Self-goal is always taken
// when offered; otherwise every discard and kong option is scored by
// its resulting hand value and the best wins, with dragon kongs
// nudged upward the same way ChooseReaction favors them.
func (s *Selector) ChooseDrawAction(h *player.Hand, legal []player.LegalAction, upcoming []tile.Tile, avoid map[tile.Tile]bool) player.LegalAction {
	for _, a := range legal {
		if a.Kind == player.SelfGoalAct {
			return a
		}
	}

	best := math.Inf(-1)
	chosen := legal[0]
	for _, a := range legal {
		var value float64
		switch a.Kind {
		case player.Discard:
			reduced := removeOne(h.Concealed, a.Target)
			value = s.evaluate(reduced, upcoming) + diversityBonus(reduced) + middleBonus(a.Target)
			if avoid[a.Target] {
				value -= 10000
			}
		case player.SelfKong, player.ExtendKong:
			value = s.postActionValue(h, a, upcoming)
			if tile.Category(a.Target) == tile.Dragon {
				value += 5000
			}
		}
		if value > best {
			best = value
			chosen = a
		}
	}
	return chosen
}

// ChooseReaction picks among legal responses to a discard or kong
// extension. GOAL and SELF_GOAL are always taken when offered. Kongs
// on dragon tiles are strongly favored. Otherwise the post-action hand
// (plus a replacement tail draw for kong) is compared against a PASS
// baseline that is raised when the discarder is the immediately
// preceding seat, discouraging overeager claims that break a hand
// shape for a small gain.
func (s *Selector) ChooseReaction(h *player.Hand, legal []player.LegalAction, upcoming []tile.Tile, discarderIsPrecedingSeat bool) player.LegalAction {
	for _, a := range legal {
		if a.Kind == player.Goal || a.Kind == player.SelfGoalAct {
			return a
		}
	}

	var pass player.LegalAction
	best := math.Inf(-1)
	chosen := player.LegalAction{Kind: player.Pass}
	for _, a := range legal {
		if a.Kind == player.Pass {
			pass = a
			continue
		}
		value := s.postActionValue(h, a, upcoming)
		if (a.Kind == player.Kong || a.Kind == player.ExtendKong) && tile.Category(a.Target) == tile.Dragon {
			value += 5000
		}
		if value > best {
			best = value
			chosen = a
		}
	}

	baseline := s.evaluate(h.Concealed, upcoming)
	if discarderIsPrecedingSeat {
		baseline += 300
	} else {
		baseline += 100
	}
	if best > baseline {
		return chosen
	}
	return pass
}

// postActionValue approximates the hand's value after claiming a, by
// simulating the concealed-tile effect without mutating h: a kong or
// pong removes the matching concealed tiles, a chow removes the two
// concealed run partners, and a kong also adds its replacement draw
// (valued via the lookahead).
func (s *Selector) postActionValue(h *player.Hand, a player.LegalAction, upcoming []tile.Tile) float64 {
	concealed := append([]tile.Tile(nil), h.Concealed...)
	switch a.Kind {
	case player.Kong:
		concealed = removeOne(removeOne(removeOne(concealed, a.Target), a.Target), a.Target)
	case player.SelfKong:
		concealed = removeOne(removeOne(removeOne(removeOne(concealed, a.Target), a.Target), a.Target), a.Target)
	case player.ExtendKong:
		concealed = removeOne(concealed, a.Target)
	case player.Pong:
		concealed = removeOne(removeOne(concealed, a.Target), a.Target)
	case player.ChowLeft:
		concealed = removeOne(removeOne(concealed, a.Target+1), a.Target+2)
	case player.ChowMiddle:
		concealed = removeOne(removeOne(concealed, a.Target-1), a.Target+1)
	case player.ChowRight:
		concealed = removeOne(removeOne(concealed, a.Target-2), a.Target-1)
	}
	// A flower draw would be swept and replaced, so the first non-flower
	// upcoming tile stands in for the replacement draw.
	if a.Kind == player.Kong || a.Kind == player.SelfKong || a.Kind == player.ExtendKong {
		for _, u := range upcoming {
			if !tile.IsFlower(u) {
				concealed = append(concealed, u)
				break
			}
		}
	}
	return s.evaluate(concealed, upcoming)
}
