package cmd

import (
	"os"

	"lol-leaderboard/internal/config"
	"lol-leaderboard/internal/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ladder",
	Short: "Ranked leaderboard for a group of League of Legends players",
	Long: `Ranked leaderboard for a group of League of Legends players.

Data comes from DATA_SOURCE (sqlite, postgres or supabase); see .env.example.

Commands:
    tui         interactive leaderboard in the terminal
    snapshot    print the leaderboard once
    seed        load a JSON fixture into the local SQLite store
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(seedCmd)
}

// initConfig loads .env and environment settings and sets up a stderr logger; the tui command
// swaps it for a file logger.
func initConfig() error {
	var err error
	cfg, err = config.Load(zerolog.Nop())
	if err != nil {
		return err
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if verbose {
		level = zerolog.DebugLevel
	}
	log = logger.NewConsole(os.Stderr, level)
	return nil
}
