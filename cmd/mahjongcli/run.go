package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"mahjong-engine/engine"
	"mahjong-engine/internal/xlog"
	"mahjong-engine/selector"
)

var runOutput string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "play one or more self-play rounds and print the END summary of each",
	RunE:  runE,
}

func init() {
	runCmd.Flags().StringVar(&runOutput, "record", "", "write the accepted response log of each round to this file as JSON, for later replay")
}

// recordedRound is what --record persists: enough to reconstruct the
// exact event stream via engine.Game.History()'s replay contract.
type recordedRound struct {
	Seed       int64             `json:"seed"`
	BankerSeat int               `json:"bankerSeat"`
	RoundWind  int               `json:"roundWind"`
	RoundID    string            `json:"roundId"`
	Responses  []engine.Response `json:"responses"`
}

func runE(cmd *cobra.Command, args []string) error {
	live := loadConfig()
	cfg := live.Get()

	sel, err := selector.New(cfg.SelectorTemperature, cfg.Seed)
	if err != nil {
		return err
	}

	g := engine.NewGame(cfg.Seed, cfg.BankerSeat, cfg.RoundWind)
	var recorded []recordedRound

	for round := 0; round < cfg.Rounds; round++ {
		// Re-read the live config each round so a config file edit mid-run
		// (log level, selector temperature) takes effect without a
		// restart, per internal/config.Live's hot-reload contract.
		current := live.Get()
		xlog.SetLevel(current.Log.Level)
		sel.Temperature = current.SelectorTemperature

		preBanker, preWind := g.BankerSeat, g.RoundWind
		ev := g.NewRound()
		ev = driveRound(g, ev, botResponder(g, sel))

		xlog.Info("round=%s winner=%d losers=%v points=%v banker=%v",
			g.RoundID, ev.Payload.Winner, ev.Payload.Losers, ev.Payload.Points, ev.Payload.BankerPoints)

		recorded = append(recorded, recordedRound{
			Seed:       g.Seed,
			BankerSeat: preBanker,
			RoundWind:  preWind,
			RoundID:    g.RoundID,
			Responses:  g.History(),
		})
	}

	if runOutput == "" {
		return nil
	}
	f, err := os.Create(runOutput)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(recorded)
}
