// Package engine drives a Taiwanese 16-tile mahjong round as a
// cooperative coroutine: it emits events describing the current phase
// and, where a decision is required, blocks until the embedder (a
// human-facing CLI or the selector package, playing a bot seat)
// supplies a response. See events.go for the event/response shapes.
package engine

import (
	"math/rand"

	"github.com/google/uuid"

	"mahjong-engine/internal/xlog"
	"mahjong-engine/player"
	"mahjong-engine/tile"
)

// Game is one table across its entire lifetime: banker/wind state
// persists across NewRound calls, everything else is reset per round.
type Game struct {
	Seed                  int64
	RoundWind             int
	BankerSeat            int
	ConsecutiveBankerRuns int
	CurrentSeat           int
	Dice                  [3]int
	Wall                  []tile.Tile
	CanGoal               [4]bool
	PendingKongGoal       bool
	Players               [4]*player.Hand
	RoundID               string

	rng             *rand.Rand
	robberyDeclined [4]bool

	eventCh chan Event
	respCh  chan Response

	lastEvent   Event
	responseLog []Response
}

// NewGame seeds a table. bankerSeat and roundWind set the state for the
// first round; later rounds carry forward whatever NewRound's
// end-of-round accounting produced.
func NewGame(seed int64, bankerSeat, roundWind int) *Game {
	return &Game{
		Seed:        seed,
		BankerSeat:  bankerSeat,
		RoundWind:   roundWind,
		CurrentSeat: bankerSeat,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// NewRound resets per-round state and starts the coroutine, returning
// the first event that requires the embedder's attention (or END, on
// the degenerate case of an instant flower win during setup).
func (g *Game) NewRound() Event {
	g.CurrentSeat = g.BankerSeat
	g.Dice = [3]int{}
	g.Wall = nil
	for i := range g.CanGoal {
		g.CanGoal[i] = true
		g.robberyDeclined[i] = false
	}
	g.PendingKongGoal = false
	g.Players = [4]*player.Hand{player.New(0), player.New(1), player.New(2), player.New(3)}
	g.RoundID = g.newRoundID()
	g.responseLog = nil

	g.eventCh = make(chan Event)
	g.respCh = make(chan Response)

	xlog.Info("new round id=%s seed=%d banker=%d wind=%d", g.RoundID, g.Seed, g.BankerSeat, g.RoundWind)
	go g.run()

	return g.drain()
}

// Next advances until the engine emits a prompt requiring a decision or
// ends, returning that event. Used for phases with no legal_actions to
// offer (the embedder has nothing to decide, only to observe). When the
// last event is already a decision prompt or END, Next returns it
// unchanged: only Respond answers a prompt.
func (g *Game) Next() Event {
	if len(g.lastEvent.LegalActions) > 0 || g.lastEvent.Phase == PhaseEnd {
		return g.lastEvent
	}
	g.respCh <- Response{}
	return g.drain()
}

// Respond supplies the embedder's choice for the last emitted decision
// event. An (action, target) not present in that event's LegalActions
// is rejected silently: the same event is returned, state untouched.
func (g *Game) Respond(action player.ActionKind, target tile.Tile) Event {
	if !legalChoice(g.lastEvent.LegalActions, action, target) {
		xlog.Warn("rejected illegal action=%v target=%v phase=%s seat=%d", action, target, g.lastEvent.Phase, g.lastEvent.Seat)
		return g.lastEvent
	}
	resp := Response{Action: action, Target: target}
	g.responseLog = append(g.responseLog, resp)
	g.respCh <- resp
	return g.drain()
}

// newRoundID draws a UUID from the round's own RNG rather than a
// crypto-random source, so that replaying identical (seed, responses)
// reproduces the identical RoundID alongside the rest of the event
// stream - the determinism contract covers this value too.
func (g *Game) newRoundID() string {
	var b [16]byte
	_, _ = g.rng.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // RFC 4122 variant
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		panic(err)
	}
	return id.String()
}

// History returns every response accepted so far this round, in order.
// For a Game's first round, replaying them through a fresh Game with the
// same seed/banker/wind reproduces the identical event stream. A later
// round also depends on the RNG state the earlier rounds left behind, so
// it replays only through a Game that has played those rounds first.
func (g *Game) History() []Response {
	return append([]Response(nil), g.responseLog...)
}

// drain pumps the coroutine with auto-acknowledgements until an event
// requires a decision (non-empty LegalActions) or the round ends.
func (g *Game) drain() Event {
	for {
		ev := <-g.eventCh
		g.lastEvent = ev
		if len(ev.LegalActions) > 0 || ev.Phase == PhaseEnd {
			return ev
		}
		g.respCh <- Response{}
	}
}

// emit hands an event to whichever goroutine is waiting in drain() and
// blocks for its acknowledgement or response. Every non-terminal phase
// of the coroutine passes through here exactly once.
func (g *Game) emit(ev Event) Response {
	xlog.Debug("emit seat=%d phase=%s legal=%d", ev.Seat, ev.Phase, len(ev.LegalActions))
	g.eventCh <- ev
	return <-g.respCh
}

// emitFinal hands the terminal event to the waiting goroutine without
// waiting for an acknowledgement; the coroutine returns immediately
// after calling this.
func (g *Game) emitFinal(ev Event) {
	xlog.Info("round %s ended: winner=%d losers=%v", g.RoundID, ev.Payload.Winner, ev.Payload.Losers)
	g.eventCh <- ev
}

func (g *Game) popHead() (tile.Tile, bool) {
	if len(g.Wall) == 0 {
		return 0, false
	}
	t := g.Wall[0]
	g.Wall = g.Wall[1:]
	return t, true
}

func (g *Game) popTail() (tile.Tile, bool) {
	n := len(g.Wall)
	if n == 0 {
		return 0, false
	}
	t := g.Wall[n-1]
	g.Wall = g.Wall[:n-1]
	return t, true
}

// armOrForfeitKongGoal implements the "not latched through a second
// kong" rule: the bonus arms on a kong only if none was already
// pending; a second kong before claiming it forfeits it instead of
// renewing it.
func (g *Game) armOrForfeitKongGoal() {
	g.PendingKongGoal = !g.PendingKongGoal
}

func others(seat int) []int {
	out := make([]int, 0, 3)
	for s := 0; s < 4; s++ {
		if s != seat {
			out = append(out, s)
		}
	}
	return out
}

func nextSeat(seat int) int {
	return (seat + 1) % 4
}

// clockwiseDistance is how many seats clockwise from from one must step
// to reach to.
func clockwiseDistance(from, to int) int {
	return ((to-from)%4 + 4) % 4
}

// goalEligible is CanGoal further gated by a permanent-for-the-round
// robbery decline, distinct from the furiten-style pass which only
// clears CanGoal until the seat's own next discard.
func (g *Game) goalEligible(seat int) bool {
	return g.CanGoal[seat] && !g.robberyDeclined[seat]
}
