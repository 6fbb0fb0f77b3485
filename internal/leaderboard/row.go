package leaderboard

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"lol-leaderboard/internal/constants"
	"lol-leaderboard/internal/domain"
)

const placeholder = "—"

// Lookup is the read side of the aggregation store used while building rows.
type Lookup interface {
	RankSnapshot(playerID string, queue domain.Queue) (domain.RankSnapshot, bool)
	MatchHistory(playerID string, queue domain.Queue) (domain.MatchHistory, bool)
	Presence(playerID string) (domain.PresenceRecord, bool)
}

func BuildRow(player domain.Player, lookup Lookup, queue domain.Queue) domain.DisplayRow {
	row := domain.DisplayRow{
		Player:      player,
		PlayerID:    player.ID,
		DisplayName: DisplayName(player),
		RiotID:      RiotID(player),
		ProfileURL:  ProfileURL(player),
	}

	if snap, ok := lookup.RankSnapshot(player.ID, queue); ok {
		row.Tier = snap.Tier
		row.Division = snap.Division
		row.LP = snap.LP
		row.Wins = snap.Wins
		row.Losses = snap.Losses
	}

	row.Ranked = row.Tier != "" && row.Division != ""
	row.RankLabel = RankLabel(row.Tier, row.Division, row.LP)
	row.WinLoss = WinLoss(row.Wins, row.Losses)
	row.WinRate = WinRate(row.Wins, row.Losses)
	row.WinRateText = placeholder
	if row.WinRate != nil {
		row.WinRateText = fmt.Sprintf("%d%%", *row.WinRate)
	}

	history, ok := lookup.MatchHistory(player.ID, queue)
	if !ok {
		history = domain.MatchHistory{}
	}
	row.RecentForm = RecentForm(history, queue)
	row.RecentFormText = glyphsText(row.RecentForm)

	row.Score = Score(row.Tier, row.Division, row.LP)
	row.RankIconURL = RankIconURL(row.Tier)

	if pres, ok := lookup.Presence(player.ID); ok {
		row.PresenceKnown = true
		row.InGame = pres.InGame
	}

	return row
}

func RankLabel(tier, division string, lp *int) string {
	if tier == "" || division == "" {
		return "Unranked"
	}
	label := tier + " " + division
	if lp != nil {
		label += fmt.Sprintf(" • %d LP", *lp)
	}
	return label
}

func WinLoss(wins, losses *int) string {
	if wins == nil || losses == nil {
		return placeholder
	}
	return fmt.Sprintf("%d / %d", *wins, *losses)
}

// WinRate returns nil when there are no games, so a zero rate is never reported for an empty record.
func WinRate(wins, losses *int) *int {
	w, l := 0, 0
	if wins != nil {
		w = *wins
	}
	if losses != nil {
		l = *losses
	}
	total := w + l
	if total <= 0 {
		return nil
	}
	rate := int(math.Round(float64(w) / float64(total) * 100))
	return &rate
}

func RecentForm(history domain.MatchHistory, queue domain.Queue) []domain.FormGlyph {
	if history.Malformed || len(history.Games) == 0 {
		return []domain.FormGlyph{domain.GlyphNoData}
	}

	games := history.Games
	if len(games) > constants.RecentFormLimit {
		games = games[:constants.RecentFormLimit]
	}

	glyphs := make([]domain.FormGlyph, 0, len(games))
	for _, g := range games {
		switch {
		case g.Queue != "" && g.Queue != queue:
			glyphs = append(glyphs, domain.GlyphOther)
		case g.Win == nil:
			glyphs = append(glyphs, domain.GlyphOther)
		case *g.Win:
			glyphs = append(glyphs, domain.GlyphWin)
		default:
			glyphs = append(glyphs, domain.GlyphLoss)
		}
	}
	return glyphs
}

func glyphsText(glyphs []domain.FormGlyph) string {
	var sb strings.Builder
	for _, g := range glyphs {
		sb.WriteString(string(g))
	}
	return sb.String()
}

// RiotID formats "game#tag", or just the game name when the tag is missing.
func RiotID(p domain.Player) string {
	game := strings.TrimSpace(p.RiotGameName)
	tag := strings.TrimSpace(p.RiotTagLine)
	if game != "" && tag != "" {
		return game + "#" + tag
	}
	return game
}

func DisplayName(p domain.Player) string {
	if name := strings.TrimSpace(p.DisplayName); name != "" {
		return p.DisplayName
	}
	return RiotID(p)
}

func ProfileURL(p domain.Player) string {
	game := strings.TrimSpace(p.RiotGameName)
	tag := strings.TrimSpace(p.RiotTagLine)
	if game == "" || tag == "" {
		return ""
	}
	return constants.ProfileBaseURL + url.PathEscape(game) + "-" + url.PathEscape(tag)
}

func RankIconURL(tier string) string {
	t := strings.ToLower(strings.TrimSpace(tier))
	if t == "" {
		t = "unranked"
	}
	return constants.RankIconBaseURL + t + ".png"
}
