package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"lol-leaderboard/internal/domain"
	fxmodules "lol-leaderboard/internal/fx"
	"lol-leaderboard/internal/session"

	styles "github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	snapshotQueue   string
	snapshotSearch  string
	snapshotJSON    bool
	snapshotTimeout time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the leaderboard once",
	Long: `Runs one fetch cycle and prints the resulting leaderboard.

Examples:
  ladder snapshot
  ladder snapshot --queue RANKED_FLEX_SR --search ann
  ladder snapshot --json`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotQueue, "queue", "", "queue to show (default DEFAULT_QUEUE)")
	snapshotCmd.Flags().StringVar(&snapshotSearch, "search", "", "only players whose name contains this")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "print the view as JSON")
	snapshotCmd.Flags().DurationVar(&snapshotTimeout, "timeout", 30*time.Second, "give up after this long")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	queue := cfg.DefaultQueue
	if snapshotQueue != "" {
		queue = domain.Queue(snapshotQueue)
		if !queue.Valid() {
			return fmt.Errorf("unknown queue %q", snapshotQueue)
		}
	}

	src, trigger, closeFn, err := fxmodules.OpenDataSource(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	ctrl := session.New(src, trigger, log, session.Options{Queue: queue, PresenceInterval: cfg.PresenceInterval})
	views, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	ctrl.Start(context.Background())
	defer ctrl.Stop()
	ctrl.SetSearchTerm(snapshotSearch)

	view, err := awaitCycle(views, snapshotSearch, snapshotTimeout)
	if err != nil {
		return err
	}
	if view.Banner != nil {
		return fmt.Errorf("%s: %s", view.Banner.Title, view.Banner.Message)
	}

	if snapshotJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return printTable(os.Stdout, view)
}

// awaitCycle waits for the first view produced after a fetch cycle settled with the search applied.
func awaitCycle(views <-chan session.View, search string, timeout time.Duration) (session.View, error) {
	deadline := time.After(timeout)
	for {
		select {
		case v, ok := <-views:
			if !ok {
				return session.View{}, errors.New("session closed")
			}
			settled := !v.Summary.Loading && (v.Summary.LastFetchAt != nil || v.Banner != nil)
			if settled && v.Search == search {
				return v, nil
			}
		case <-deadline:
			return session.View{}, fmt.Errorf("no leaderboard after %s", timeout)
		}
	}
}

// printTable aligns columns by display width; the recent-form glyphs are two cells wide each.
func printTable(w io.Writer, view session.View) error {
	fmt.Fprintf(w, "%s · %d players\n\n", view.Summary.QueueLabel, view.Summary.PlayerCount)

	lines := [][]string{{"#", "PLAYER", "RANK", "W / L", "WR", "RECENT", "LIVE"}}
	for i, row := range view.Rows {
		live := ""
		if row.InGame {
			live = "in game"
		}
		lines = append(lines, []string{
			strconv.Itoa(i + 1), row.DisplayName, row.RankLabel, row.WinLoss, row.WinRateText, row.RecentFormText, live,
		})
	}

	_, err := io.WriteString(w, alignColumns(lines, 2))
	return err
}

func alignColumns(lines [][]string, gap int) string {
	widths := make([]int, len(lines[0]))
	for _, cells := range lines {
		for i, cell := range cells {
			widths[i] = max(widths[i], styles.Width(cell))
		}
	}

	var b strings.Builder
	for _, cells := range lines {
		var line strings.Builder
		for i, cell := range cells {
			line.WriteString(cell)
			if i < len(cells)-1 {
				line.WriteString(strings.Repeat(" ", widths[i]-styles.Width(cell)+gap))
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
