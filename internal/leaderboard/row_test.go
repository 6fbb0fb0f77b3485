package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lol-leaderboard/internal/domain"
)

func boolPtr(v bool) *bool { return &v }

func TestBuildRow_Scenario(t *testing.T) {
	store := NewStore()
	store.ReplaceRoster([]domain.Player{{ID: "1", DisplayName: "Ann", Active: true}})
	store.ReplaceRankSnapshots([]domain.RankSnapshot{{
		PlayerID: "1",
		Queue:    domain.QueueSolo,
		Tier:     "GOLD",
		Division: "II",
		LP:       intPtr(40),
		Wins:     intPtr(5),
		Losses:   intPtr(5),
	}})

	row := BuildRow(store.Roster()[0], store, domain.QueueSolo)

	assert.Equal(t, "GOLD II • 40 LP", row.RankLabel)
	assert.Equal(t, "5 / 5", row.WinLoss)
	assert.Equal(t, "50%", row.WinRateText)
	require.NotNil(t, row.WinRate)
	assert.Equal(t, 50, *row.WinRate)
	assert.True(t, row.Ranked)
	assert.Equal(t, []domain.FormGlyph{domain.GlyphNoData}, row.RecentForm)
	assert.False(t, row.PresenceKnown)
}

func TestBuildRow_Unranked(t *testing.T) {
	store := NewStore()
	p := domain.Player{ID: "2", DisplayName: "Bob", Active: true}

	row := BuildRow(p, store, domain.QueueSolo)

	assert.Equal(t, "Unranked", row.RankLabel)
	assert.Equal(t, "—", row.WinLoss)
	assert.Equal(t, "—", row.WinRateText)
	assert.Nil(t, row.WinRate)
	assert.False(t, row.Ranked)
	assert.Equal(t, 0, row.Score)
	assert.Contains(t, row.RankIconURL, "/unranked.png")
}

func TestRankLabel_NoLP(t *testing.T) {
	assert.Equal(t, "MASTER I", RankLabel("MASTER", "I", nil))
	assert.Equal(t, "Unranked", RankLabel("MASTER", "", intPtr(10)))
}

func TestWinRate(t *testing.T) {
	rate := WinRate(intPtr(7), intPtr(3))
	require.NotNil(t, rate)
	assert.Equal(t, 70, *rate)

	assert.Nil(t, WinRate(intPtr(0), intPtr(0)))
	assert.Nil(t, WinRate(nil, nil))

	rate = WinRate(intPtr(2), intPtr(1))
	require.NotNil(t, rate)
	assert.Equal(t, 67, *rate)
}

func TestRecentForm(t *testing.T) {
	games := []domain.MatchOutcome{
		{Win: boolPtr(true), Queue: domain.QueueSolo},
		{Win: boolPtr(false), Queue: domain.QueueSolo},
		{Win: boolPtr(true), Queue: domain.QueueFlex},
		{Win: nil, Queue: domain.QueueSolo},
		{Win: boolPtr(false)},
	}

	form := RecentForm(domain.MatchHistory{Games: games}, domain.QueueSolo)

	assert.Equal(t, []domain.FormGlyph{
		domain.GlyphWin,
		domain.GlyphLoss,
		domain.GlyphOther,
		domain.GlyphOther,
		domain.GlyphLoss,
	}, form)
}

func TestRecentForm_CapsAtTenWithoutPadding(t *testing.T) {
	var games []domain.MatchOutcome
	for i := 0; i < 14; i++ {
		games = append(games, domain.MatchOutcome{Win: boolPtr(i%2 == 0), Queue: domain.QueueFlex})
	}

	form := RecentForm(domain.MatchHistory{Games: games}, domain.QueueFlex)
	require.Len(t, form, 10)
	assert.Equal(t, domain.GlyphWin, form[0])
	assert.Equal(t, domain.GlyphLoss, form[9])

	short := RecentForm(domain.MatchHistory{Games: games[:3]}, domain.QueueFlex)
	assert.Len(t, short, 3)
}

func TestRecentForm_NoData(t *testing.T) {
	assert.Equal(t, []domain.FormGlyph{domain.GlyphNoData}, RecentForm(domain.MatchHistory{}, domain.QueueSolo))
	assert.Equal(t, []domain.FormGlyph{domain.GlyphNoData}, RecentForm(domain.MatchHistory{Malformed: true}, domain.QueueSolo))
}

func TestPlayerNames(t *testing.T) {
	p := domain.Player{DisplayName: "  ", RiotGameName: "Heroic Pol", RiotTagLine: "POL"}
	assert.Equal(t, "Heroic Pol#POL", RiotID(p))
	assert.Equal(t, "Heroic Pol#POL", DisplayName(p))
	assert.Equal(t, "https://dpm.lol/Heroic%20Pol-POL", ProfileURL(p))

	p = domain.Player{DisplayName: "Pol", RiotGameName: "Heroic Pol"}
	assert.Equal(t, "Heroic Pol", RiotID(p))
	assert.Equal(t, "Pol", DisplayName(p))
	assert.Empty(t, ProfileURL(p))
}

func TestBuildRow_Presence(t *testing.T) {
	store := NewStore()
	store.ReplacePresence([]domain.PresenceRecord{{PlayerID: "1", InGame: true}})

	row := BuildRow(domain.Player{ID: "1", Active: true}, store, domain.QueueSolo)
	assert.True(t, row.PresenceKnown)
	assert.True(t, row.InGame)
}
