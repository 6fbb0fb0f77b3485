package cmd

import (
	"bytes"
	"strings"
	"testing"

	"lol-leaderboard/internal/domain"
	"lol-leaderboard/internal/session"

	styles "github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTable_AlignsWideGlyphs(t *testing.T) {
	view := session.View{
		Rows: []domain.DisplayRow{
			{DisplayName: "Ann", RankLabel: "GOLD II • 40 LP", WinLoss: "5 / 5", WinRateText: "50%", RecentFormText: "🟩🟥⬛", InGame: true},
			{DisplayName: "Bob", RankLabel: "Unranked", WinLoss: "—", WinRateText: "—", RecentFormText: "—", InGame: true},
			{DisplayName: "Joanna", RankLabel: "IRON IV", WinLoss: "0 / 1", WinRateText: "0%", RecentFormText: "🟥🟥🟥🟥🟥🟥🟥🟥🟥🟥", InGame: true},
		},
		Summary: domain.Summary{PlayerCount: 3, QueueLabel: "SoloQ"},
	}

	var buf bytes.Buffer
	require.NoError(t, printTable(&buf, view))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "SoloQ · 3 players", lines[0])

	header := lines[2]
	liveCol := styles.Width(header[:strings.Index(header, "LIVE")])
	for _, line := range lines[3:] {
		idx := strings.Index(line, "in game")
		require.NotEqual(t, -1, idx, line)
		assert.Equal(t, liveCol, styles.Width(line[:idx]), line)
	}
}

func TestAlignColumns_TrimsTrailingSpace(t *testing.T) {
	out := alignColumns([][]string{{"A", "B"}, {"long", ""}}, 2)
	assert.Equal(t, "A     B\nlong\n", out)
}
