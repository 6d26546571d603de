package selector

import (
	"testing"

	"mahjong-engine/player"
	"mahjong-engine/tile"
)

func c(r int) tile.Tile { return tile.New(tile.Character, r) }
func d(r int) tile.Tile { return tile.New(tile.Dot, r) }
func wd(r int) tile.Tile { return tile.New(tile.Wind, r) }

// waitingOnFive builds a 13-tile hand: four complete triplets plus a
// single middle tile (c5) one draw away from a pair.
func waitingOnFive() []tile.Tile {
	var h []tile.Tile
	for _, r := range []int{1, 2, 3, 4} {
		h = append(h, c(r), c(r), c(r))
	}
	h = append(h, c(5))
	return tile.Sorted(h)
}

func TestEvaluate_WinningHandScoresHighest(t *testing.T) {
	sel, err := New(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	winning := []tile.Tile{c(5), c(5)}
	waiting := waitingOnFive()

	winScoreVal := sel.evaluate(winning, nil)
	waitScoreVal := sel.evaluate(waiting, []tile.Tile{c(5)})

	if winScoreVal <= waitScoreVal {
		t.Fatalf("want a completed pair to outscore a tenpai hand, got win=%v wait=%v", winScoreVal, waitScoreVal)
	}
}

func TestEvaluate_CloserWaitScoresHigherThanFartherWait(t *testing.T) {
	sel, err := New(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	waiting := waitingOnFive()

	near := sel.evaluate(waiting, []tile.Tile{c(5), c(9)})
	far := sel.evaluate(waiting, []tile.Tile{c(9), c(5)})

	if near <= far {
		t.Fatalf("want the hand scored against an earlier-arriving wait to score higher, got near=%v far=%v", near, far)
	}
}

func TestChooseDiscard_PrefersIsolatedTerminalOverUsefulMiddleTile(t *testing.T) {
	sel, err := New(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	h := player.New(0)
	h.Concealed = tile.Sorted(append(waitingOnFive(), c(9)))

	discard := sel.ChooseDiscard(h, nil, nil)
	if discard != c(9) {
		t.Fatalf("want isolated terminal c9 discarded, got %v", discard)
	}
}

func TestChooseDrawAction_TakesSelfGoalWhenOffered(t *testing.T) {
	sel, err := New(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	h := player.New(0)
	legal := []player.LegalAction{
		{Kind: player.Discard, Target: c(1)},
		{Kind: player.SelfGoalAct},
	}
	a := sel.ChooseDrawAction(h, legal, nil, nil)
	if a.Kind != player.SelfGoalAct {
		t.Fatalf("want self-goal taken unconditionally, got %v", a.Kind)
	}
}

func TestChooseReaction_TakesGoalOverPass(t *testing.T) {
	sel, err := New(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	h := player.New(1)
	legal := []player.LegalAction{
		{Kind: player.Pass, Target: c(5)},
		{Kind: player.Goal, Target: c(5)},
	}
	a := sel.ChooseReaction(h, legal, nil, true)
	if a.Kind != player.Goal {
		t.Fatalf("want GOAL taken over PASS, got %v", a.Kind)
	}
}

func TestChooseReaction_ReturnsOnlyAnOfferedKind(t *testing.T) {
	sel, err := New(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	h := player.New(1)
	h.Concealed = tile.Sorted(append(waitingOnFive(), wd(1), wd(1)))
	legal := []player.LegalAction{
		{Kind: player.Pass, Target: wd(1)},
		{Kind: player.Pong, Target: wd(1)},
	}
	a := sel.ChooseReaction(h, legal, nil, false)
	if a.Kind != player.Pass && a.Kind != player.Pong {
		t.Fatalf("unexpected reaction kind %v", a.Kind)
	}
}
