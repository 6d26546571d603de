package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mahjong-engine/engine"
	"mahjong-engine/internal/xlog"
)

var replayFile string

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "feed a recorded response log back through a fresh game and check that each round's ID matches the recording",
	RunE:  replayE,
}

func init() {
	replayCmd.Flags().StringVar(&replayFile, "file", "", "response log written by 'run --record'")
	_ = replayCmd.MarkFlagRequired("file")
}

func replayE(cmd *cobra.Command, args []string) error {
	loadConfig()

	f, err := os.Open(replayFile)
	if err != nil {
		return err
	}
	defer f.Close()

	var rounds []recordedRound
	if err := json.NewDecoder(f).Decode(&rounds); err != nil {
		return fmt.Errorf("decode %s: %w", replayFile, err)
	}

	if len(rounds) == 0 {
		return nil
	}

	// One Game, reused across every recorded round: the original session
	// also drove every round through a single Game, so its RNG stream
	// carries state forward from one round's draws into the next round's
	// shuffle. Recreating a fresh Game per round would reseed that stream
	// and only reproduce round 1 correctly.
	g := engine.NewGame(rounds[0].Seed, rounds[0].BankerSeat, rounds[0].RoundWind)

	for _, r := range rounds {
		ev := g.NewRound()
		for _, resp := range r.Responses {
			if ev.Phase == engine.PhaseEnd {
				break
			}
			ev = g.Respond(resp.Action, resp.Target)
		}
		if g.RoundID != r.RoundID {
			xlog.Warn("replay %s: round id mismatch, got %s", r.RoundID, g.RoundID)
		}
		xlog.Info("replayed round=%s winner=%d losers=%v points=%v",
			r.RoundID, ev.Payload.Winner, ev.Payload.Losers, ev.Payload.Points)
	}
	return nil
}
