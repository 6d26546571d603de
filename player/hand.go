// Package player holds the mutable per-seat hand record and its
// primitive, precondition-checked mutations, plus legal-action
// enumeration for the two prompt shapes the game state machine issues:
// draw-phase actions and discard-reaction actions.
package player

import (
	"fmt"

	"mahjong-engine/hand"
	"mahjong-engine/tile"
)

// ActionKind enumerates the action vocabulary the embedder responds
// with. Values double as reaction-resolution priority: numerically
// higher wins a contested discard.
type ActionKind int

const (
	Pass        ActionKind = 0
	ChowRight   ActionKind = 2
	ChowMiddle  ActionKind = 3
	ChowLeft    ActionKind = 4
	Pong        ActionKind = 11
	Kong        ActionKind = 31
	SelfKong    ActionKind = 32
	ExtendKong  ActionKind = 33
	Goal        ActionKind = 41
	SelfGoalAct ActionKind = 42
	Discard     ActionKind = 100
)

// LegalAction is one (action, target) choice offered to a seat.
type LegalAction struct {
	Kind   ActionKind
	Target tile.Tile
}

// ChowMeld is a claimed run. Tiles holds the three tiles in ascending
// rank order; ClaimedIndex is the position within Tiles that came from
// the discard rather than the claimer's own concealed hand.
type ChowMeld struct {
	Tiles        [3]tile.Tile
	ClaimedIndex int
}

// DisplayEntryKind tags an auxiliary UI log entry. Not part of the
// rules, only of the rendering order.
type DisplayEntryKind int

const (
	SeparatorChow DisplayEntryKind = iota
	SeparatorPong
	SeparatorKong
	SeparatorConcealedKong
)

// DisplayEntry is one entry of the display sequence: a sentinel plus
// the tiles involved.
type DisplayEntry struct {
	Kind  DisplayEntryKind
	Tiles []tile.Tile
}

// Hand is the mutable record of one seat's tiles.
type Hand struct {
	Seat int

	Concealed     []tile.Tile
	ExposedChow   []ChowMeld
	ExposedPong   []tile.Tile
	ExposedKong   []tile.Tile
	ConcealedKong []tile.Tile

	Flowers  []tile.Tile
	Discards []tile.Tile

	displaySequence []DisplayEntry

	LastDrawn    tile.Tile
	HasLastDrawn bool
}

// New returns an empty hand for the given seat.
func New(seat int) *Hand {
	return &Hand{Seat: seat}
}

// TotalTiles is |concealed| + 3*(melds across all four meld lists),
// which must sit in {16, 17} at any phase boundary. A kong's fourth
// tile is never counted, mirroring how its draw is immediately
// replaced.
func (h *Hand) TotalTiles() int {
	melds := len(h.ExposedChow) + len(h.ExposedPong) + len(h.ExposedKong) + len(h.ConcealedKong)
	return len(h.Concealed) + 3*melds
}

func (h *Hand) sortConcealed() {
	h.Concealed = tile.Sorted(h.Concealed)
}

func (h *Hand) count(t tile.Tile) int {
	n := 0
	for _, c := range h.Concealed {
		if c == t {
			n++
		}
	}
	return n
}

// removeFromConcealed removes n occurrences of t, returning false
// (and leaving Concealed untouched) if fewer than n are present.
func (h *Hand) removeFromConcealed(t tile.Tile, n int) bool {
	if h.count(t) < n {
		return false
	}
	out := make([]tile.Tile, 0, len(h.Concealed)-n)
	removed := 0
	for _, c := range h.Concealed {
		if c == t && removed < n {
			removed++
			continue
		}
		out = append(out, c)
	}
	h.Concealed = out
	return true
}

// Draw appends a drawn tile to the concealed hand and records it as
// the last-drawn tile. Callers (the engine) are responsible for
// enforcing that a draw only happens when TotalTiles() == 16.
func (h *Hand) Draw(t tile.Tile) {
	h.Concealed = append(h.Concealed, t)
	h.sortConcealed()
	h.LastDrawn = t
	h.HasLastDrawn = true
}

// Discard removes t from the concealed hand and appends it to
// discards. Precondition: total=17, t in concealed.
func (h *Hand) Discard(t tile.Tile) error {
	if h.TotalTiles() != 17 {
		return fmt.Errorf("discard %v: total tiles is %d, want 17", t, h.TotalTiles())
	}
	if !h.removeFromConcealed(t, 1) {
		return fmt.Errorf("discard %v: tile not in concealed hand", t)
	}
	h.Discards = append(h.Discards, t)
	h.HasLastDrawn = false
	return nil
}

// SelfKong promotes four concealed copies of t into a concealed kong.
// Precondition: total=17, concealed[t]=4.
func (h *Hand) SelfKong(t tile.Tile) error {
	if h.TotalTiles() != 17 {
		return fmt.Errorf("self-kong %v: total tiles is %d, want 17", t, h.TotalTiles())
	}
	if h.count(t) != 4 {
		return fmt.Errorf("self-kong %v: need 4 copies in concealed hand", t)
	}
	h.removeFromConcealed(t, 4)
	h.ConcealedKong = append(h.ConcealedKong, t)
	h.appendDisplay(SeparatorConcealedKong, t, t, t, t)
	return nil
}

// ExtendKong promotes an existing exposed pong of t into a kong using
// the fourth, concealed copy. Precondition: total=17, t in concealed,
// t in exposed_pong.
func (h *Hand) ExtendKong(t tile.Tile) error {
	if h.TotalTiles() != 17 {
		return fmt.Errorf("extend-kong %v: total tiles is %d, want 17", t, h.TotalTiles())
	}
	idx := indexOf(h.ExposedPong, t)
	if idx < 0 {
		return fmt.Errorf("extend-kong %v: no exposed pong of this tile", t)
	}
	if !h.removeFromConcealed(t, 1) {
		return fmt.Errorf("extend-kong %v: tile not in concealed hand", t)
	}
	h.ExposedPong = append(h.ExposedPong[:idx], h.ExposedPong[idx+1:]...)
	h.ExposedKong = append(h.ExposedKong, t)
	h.appendDisplay(SeparatorKong, t)
	return nil
}

// RobExtendKong reverses ExtendKong for the kong-robbery case: the kong
// reverts to the original pong and the display entry is removed, but the
// fourth tile itself does NOT return to the concealed hand - it has been
// claimed into the robber's winning hand, leaving this hand one tile
// short exactly as a claimed discard would.
func (h *Hand) RobExtendKong(t tile.Tile) error {
	idx := indexOf(h.ExposedKong, t)
	if idx < 0 {
		return fmt.Errorf("rob extend-kong %v: no exposed kong of this tile", t)
	}
	h.ExposedKong = append(h.ExposedKong[:idx], h.ExposedKong[idx+1:]...)
	h.ExposedPong = append(h.ExposedPong, t)
	h.removeLastDisplay(SeparatorKong)
	return nil
}

// ClaimKong absorbs a discarded tile into a new exposed kong.
// Precondition: total=16, concealed[t]=3.
func (h *Hand) ClaimKong(t tile.Tile) error {
	if h.TotalTiles() != 16 {
		return fmt.Errorf("kong %v: total tiles is %d, want 16", t, h.TotalTiles())
	}
	if h.count(t) != 3 {
		return fmt.Errorf("kong %v: need 3 copies in concealed hand", t)
	}
	h.removeFromConcealed(t, 3)
	h.ExposedKong = append(h.ExposedKong, t)
	h.appendDisplay(SeparatorKong, t, t, t, t)
	return nil
}

// ClaimPong absorbs a discarded tile into a new exposed pong.
// Precondition: total=16, concealed[t]>=2.
func (h *Hand) ClaimPong(t tile.Tile) error {
	if h.TotalTiles() != 16 {
		return fmt.Errorf("pong %v: total tiles is %d, want 16", t, h.TotalTiles())
	}
	if h.count(t) < 2 {
		return fmt.Errorf("pong %v: need 2 copies in concealed hand", t)
	}
	h.removeFromConcealed(t, 2)
	h.ExposedPong = append(h.ExposedPong, t)
	h.appendDisplay(SeparatorPong, t, t, t)
	return nil
}

// ClaimChowLeft claims discard t to complete the run {t, t+1, t+2}
// using t+1, t+2 from the concealed hand. Precondition: total=16,
// t+1 and t+2 in concealed, t suited.
func (h *Hand) ClaimChowLeft(t tile.Tile) error {
	return h.claimChow(t, t+1, t+2, 0)
}

// ClaimChowMiddle claims discard t to complete {t-1, t, t+1} using t-1,
// t+1 from the concealed hand.
func (h *Hand) ClaimChowMiddle(t tile.Tile) error {
	return h.claimChow(t-1, t, t+1, 1)
}

// ClaimChowRight claims discard t to complete {t-2, t-1, t} using t-2,
// t-1 from the concealed hand.
func (h *Hand) ClaimChowRight(t tile.Tile) error {
	return h.claimChow(t-2, t-1, t, 2)
}

func (h *Hand) claimChow(a, b, c tile.Tile, claimedIdx int) error {
	claimed := [3]tile.Tile{a, b, c}[claimedIdx]
	if h.TotalTiles() != 16 {
		return fmt.Errorf("chow %v: total tiles is %d, want 16", claimed, h.TotalTiles())
	}
	if !tile.IsSuited(claimed) {
		return fmt.Errorf("chow %v: not a suited tile", claimed)
	}
	if !tile.SameSuit(a, b) || !tile.SameSuit(b, c) {
		return fmt.Errorf("chow %v: run crosses suits", claimed)
	}
	need := [3]tile.Tile{a, b, c}
	for i, t := range need {
		if i == claimedIdx {
			continue
		}
		if h.count(t) < 1 {
			return fmt.Errorf("chow %v: missing %v from concealed hand", claimed, t)
		}
	}
	for i, t := range need {
		if i == claimedIdx {
			continue
		}
		if !h.removeFromConcealed(t, 1) {
			return fmt.Errorf("chow %v: missing %v from concealed hand", claimed, t)
		}
	}
	h.ExposedChow = append(h.ExposedChow, ChowMeld{Tiles: need, ClaimedIndex: claimedIdx})
	h.appendDisplay(SeparatorChow, a, b, c)
	return nil
}

// Goal claims a discarded or supplied tile t to complete the winning
// hand. Precondition: total=16, t in Candidates(concealed).
func (h *Hand) Goal(t tile.Tile) error {
	if h.TotalTiles() != 16 {
		return fmt.Errorf("goal %v: total tiles is %d, want 16", t, h.TotalTiles())
	}
	if !contains(hand.Candidates(h.Concealed), t) {
		return fmt.Errorf("goal %v: not a waiting tile", t)
	}
	h.Concealed = append(h.Concealed, t)
	h.sortConcealed()
	h.LastDrawn = t
	h.HasLastDrawn = true
	return nil
}

// SelfGoalReady reports whether the just-drawn tile completes the
// hand. Precondition for acceptance: total=17, last_drawn in
// Candidates(concealed \ last_drawn).
func (h *Hand) SelfGoalReady() bool {
	if h.TotalTiles() != 17 || !h.HasLastDrawn {
		return false
	}
	withoutLast := removeOne(h.Concealed, h.LastDrawn)
	return contains(hand.Candidates(withoutLast), h.LastDrawn)
}

// SweepFlowers moves every flower-category tile out of the concealed
// hand and into Flowers, returning the count removed so the caller can
// schedule that many replacement draws.
func (h *Hand) SweepFlowers() int {
	var kept, swept []tile.Tile
	for _, t := range h.Concealed {
		if tile.IsFlower(t) {
			swept = append(swept, t)
		} else {
			kept = append(kept, t)
		}
	}
	if len(swept) == 0 {
		return 0
	}
	h.Concealed = kept
	h.Flowers = append(h.Flowers, swept...)
	return len(swept)
}

// DisplaySequence returns a copy of the auxiliary UI ordering of
// completed melds. Not part of the rules.
func (h *Hand) DisplaySequence() []DisplayEntry {
	return append([]DisplayEntry(nil), h.displaySequence...)
}

func (h *Hand) appendDisplay(kind DisplayEntryKind, tiles ...tile.Tile) {
	h.displaySequence = append(h.displaySequence, DisplayEntry{Kind: kind, Tiles: append([]tile.Tile(nil), tiles...)})
}

func (h *Hand) removeLastDisplay(kind DisplayEntryKind) {
	for i := len(h.displaySequence) - 1; i >= 0; i-- {
		if h.displaySequence[i].Kind == kind {
			h.displaySequence = append(h.displaySequence[:i], h.displaySequence[i+1:]...)
			return
		}
	}
}

// DrawPhaseActions enumerates the legal actions available to a seat
// that has just drawn (total=17): self-goal, self-kong, extend-kong.
func (h *Hand) DrawPhaseActions(canGoal bool) []LegalAction {
	var actions []LegalAction
	if canGoal && h.SelfGoalReady() {
		actions = append(actions, LegalAction{Kind: SelfGoalAct})
	}
	var prev tile.Tile = -1
	for _, t := range h.Concealed {
		if t == prev {
			continue
		}
		prev = t
		if h.count(t) == 4 {
			actions = append(actions, LegalAction{Kind: SelfKong, Target: t})
		}
	}
	for _, p := range h.ExposedPong {
		if h.count(p) >= 1 {
			actions = append(actions, LegalAction{Kind: ExtendKong, Target: p})
		}
	}
	return actions
}

// DiscardReactionActions enumerates the legal reactions of this seat
// to another seat's discard of t. isNextSeat must be true only for the
// seat immediately clockwise of the discarder (chow is otherwise
// illegal).
func (h *Hand) DiscardReactionActions(t tile.Tile, canGoal, isNextSeat bool) []LegalAction {
	var actions []LegalAction
	if canGoal && contains(hand.Candidates(h.Concealed), t) {
		actions = append(actions, LegalAction{Kind: Goal, Target: t})
	}
	n := h.count(t)
	if n == 3 {
		actions = append(actions, LegalAction{Kind: Kong, Target: t})
	}
	if n >= 2 {
		actions = append(actions, LegalAction{Kind: Pong, Target: t})
	}
	if isNextSeat && tile.IsSuited(t) {
		if h.count(t+1) >= 1 && h.count(t+2) >= 1 && tile.Rank(t) <= tile.SuitRanks-2 {
			actions = append(actions, LegalAction{Kind: ChowLeft, Target: t})
		}
		if h.count(t-1) >= 1 && h.count(t+1) >= 1 && tile.Rank(t) >= 2 && tile.Rank(t) <= tile.SuitRanks-1 {
			actions = append(actions, LegalAction{Kind: ChowMiddle, Target: t})
		}
		if h.count(t-2) >= 1 && h.count(t-1) >= 1 && tile.Rank(t) >= 3 {
			actions = append(actions, LegalAction{Kind: ChowRight, Target: t})
		}
	}
	return actions
}

func indexOf(tiles []tile.Tile, t tile.Tile) int {
	for i, x := range tiles {
		if x == t {
			return i
		}
	}
	return -1
}

func contains(tiles []tile.Tile, t tile.Tile) bool {
	return indexOf(tiles, t) >= 0
}

func removeOne(tiles []tile.Tile, t tile.Tile) []tile.Tile {
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
