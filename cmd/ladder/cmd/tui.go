package cmd

import (
	"context"

	fxmodules "lol-leaderboard/internal/fx"
	"lol-leaderboard/internal/logger"
	"lol-leaderboard/internal/session"
	"lol-leaderboard/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive leaderboard",
	Long:  `Shows the live leaderboard. Logs go to LOG_FILE so they do not corrupt the screen.`,
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	level := logger.ParseLevel(cfg.LogLevel)
	if verbose {
		level = zerolog.DebugLevel
	}
	fileLog := logger.NewFile(cfg.LogFile, level)

	src, trigger, closeFn, err := fxmodules.OpenDataSource(cmd.Context(), cfg, fileLog)
	if err != nil {
		return err
	}
	defer closeFn()

	ctrl := session.New(src, trigger, fileLog, session.Options{
		Queue:            cfg.DefaultQueue,
		PresenceInterval: cfg.PresenceInterval,
	})
	ctrl.Start(context.Background())
	defer ctrl.Stop()

	return tui.Run(ctrl)
}
