package tui

import (
	"fmt"
	"strings"

	"lol-leaderboard/internal/domain"

	styles "github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = styles.NewStyle().Bold(true).Foreground(styles.AdaptiveColor{Light: "4", Dark: "12"})
	dimStyle    = styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "8", Dark: "7"})
	errStyle    = styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "1", Dark: "9"})
	infoStyle   = styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "2", Dark: "10"})
	headerStyle = styles.NewStyle().Bold(true).Underline(true)
	liveStyle   = styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "2", Dark: "10"})
	tabStyle    = styles.NewStyle().Padding(0, 1)
	activeTab   = tabStyle.Bold(true).Reverse(true)
)

type column struct {
	title string
	width int
}

var columns = []column{
	{"#", 4},
	{"Player", 24},
	{"Rank", 22},
	{"W / L", 10},
	{"WR", 6},
	{"Recent", 24},
}

func (m *model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSummary())
	b.WriteString("\n")

	if banner := m.view.Banner; banner != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("%s: %s", banner.Title, banner.Message)))
		b.WriteString("\n")
	}

	if m.searching || m.view.Search != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(renderColumns(headerStyle, titles()))
	b.WriteString("\n")
	if len(m.view.Rows) == 0 {
		b.WriteString(dimStyle.Render("no players"))
		b.WriteString("\n")
	}
	for i, row := range m.view.Rows {
		b.WriteString(renderRow(i+1, row))
		b.WriteString("\n")
	}

	if n := m.view.Notice; n != nil {
		style := infoStyle
		if n.Kind == domain.BannerError {
			style = errStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(n.Message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m *model) renderHeader() string {
	solo, flex := tabStyle, tabStyle
	if m.view.Summary.Queue == domain.QueueFlex {
		flex = activeTab
	} else {
		solo = activeTab
	}
	tabs := styles.JoinHorizontal(styles.Top,
		solo.Render(domain.QueueSolo.Label()),
		flex.Render(domain.QueueFlex.Label()),
	)
	return styles.JoinHorizontal(styles.Top, titleStyle.Render("Ranked leaderboard"), "  ", tabs)
}

func (m *model) renderSummary() string {
	s := m.view.Summary
	parts := []string{fmt.Sprintf("%d players", s.PlayerCount)}

	switch {
	case s.Loading:
		parts = append(parts, m.spinner.View()+"loading")
	case m.view.Banner != nil:
		parts = append(parts, "error")
	default:
		parts = append(parts, "ok")
	}
	if s.LastFetchAt != nil {
		parts = append(parts, "updated "+s.LastFetchAt.Local().Format("15:04:05"))
	}
	if m.view.Refreshing {
		parts = append(parts, "refreshing")
	}
	return dimStyle.Render(strings.Join(parts, " · "))
}

func titles() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.title
	}
	return out
}

func renderRow(pos int, row domain.DisplayRow) string {
	name := row.DisplayName
	if row.InGame {
		name = liveStyle.Render("●") + " " + name
	}
	return renderColumns(styles.NewStyle(), []string{
		fmt.Sprintf("%d", pos),
		name,
		row.RankLabel,
		row.WinLoss,
		row.WinRateText,
		row.RecentFormText,
	})
}

func renderColumns(style styles.Style, cells []string) string {
	rendered := make([]string, len(cells))
	for i, cell := range cells {
		rendered[i] = style.Width(columns[i].width).MaxWidth(columns[i].width).Render(cell)
	}
	return styles.JoinHorizontal(styles.Top, rendered...)
}
