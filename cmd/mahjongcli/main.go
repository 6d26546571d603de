package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mahjong-engine/internal/config"
	"mahjong-engine/internal/xlog"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "mahjongcli",
	Short: "mahjongcli 跑一桌台灣十六張麻將自對局",
	Long:  `mahjongcli 跑一桌台灣十六張麻將自對局`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml); falls back to defaults + MAHJONG_* env vars")
	rootCmd.AddCommand(runCmd, replayCmd)
}

func loadConfig() *config.Live {
	live, err := config.Load(configFile)
	if err != nil {
		xlog.Fatal("load config: %v", err)
	}
	xlog.Init("mahjongcli", live.Get().Log.Level)
	return live
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
