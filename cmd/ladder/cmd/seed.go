package cmd

import (
	"fmt"
	"os"

	"lol-leaderboard/internal/config"
	"lol-leaderboard/internal/database"
	"lol-leaderboard/internal/repository"
	"lol-leaderboard/internal/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.json>",
	Short: "Load a JSON fixture into the local SQLite store",
	Long: `Loads players, ranks, recent games and live status from a JSON fixture into DB_PATH.

Examples:
  ladder seed testdata/fixture.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	if cfg.DataSource != config.SourceSQLite {
		return fmt.Errorf("seed only writes to the sqlite data source, DATA_SOURCE is %q", cfg.DataSource)
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open fixture: %w", err)
	}
	defer file.Close()

	fixture, err := seed.Decode(file)
	if err != nil {
		return err
	}

	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := seed.Load(cmd.Context(), repository.NewSource(db, log), fixture, log)
	if err != nil {
		return err
	}

	fmt.Printf("seeded %d players, %d ranks, %d recent games, %d live statuses into %s\n",
		res.Players, res.Ranks, res.RecentGames, res.LiveStatus, cfg.DBPath)
	return nil
}
