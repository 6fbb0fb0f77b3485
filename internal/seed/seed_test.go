package seed

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lol-leaderboard/internal/database"
	"lol-leaderboard/internal/domain"
	"lol-leaderboard/internal/leaderboard"
	"lol-leaderboard/internal/repository"
)

const fixture = `{
  "players": [
    {"display_name": "Ann", "riot_game_name": "Ann", "riot_tag_line": "EUW"},
    {"id": "bob", "display_name": "Bob", "riot_game_name": "Bob", "riot_tag_line": "EUW"},
    {"id": "old", "display_name": "Retired", "active": false}
  ],
  "ranks": [
    {"player": "Ann", "queue": "RANKED_SOLO_5x5", "tier": "GOLD", "division": "II", "lp": 40, "wins": 5, "losses": 5},
    {"player": "bob", "queue": "RANKED_SOLO_5x5", "tier": "PLATINUM", "division": "IV", "lp": 0}
  ],
  "recent_games": [
    {"player": "Ann", "queue": "RANKED_SOLO_5x5", "games": [{"win": true, "queue": 420}, {"win": false, "queue": 420}]}
  ],
  "live_status": [
    {"player": "bob", "in_game": true, "queue_id": 420}
  ]
}`

func newSource(t *testing.T) *repository.Source {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "seed.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewSource(db, zerolog.Nop())
}

func TestLoad_FixtureProjectsLeaderboard(t *testing.T) {
	ctx := context.Background()
	src := newSource(t)

	f, err := Decode(strings.NewReader(fixture))
	require.NoError(t, err)

	res, err := Load(ctx, src, f, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Result{Players: 3, Ranks: 2, RecentGames: 1, LiveStatus: 1}, res)

	roster, err := src.ReadRoster(ctx)
	require.NoError(t, err)
	ranks, err := src.ReadRankSnapshots(ctx, domain.QueueSolo)
	require.NoError(t, err)
	histories, err := src.ReadMatchHistories(ctx, domain.QueueSolo)
	require.NoError(t, err)
	presence, err := src.ReadPresence(ctx)
	require.NoError(t, err)

	store := leaderboard.NewStore()
	store.ReplaceRoster(roster)
	store.ReplaceRankSnapshots(ranks)
	store.ReplaceMatchHistories(histories)
	store.ReplacePresence(presence)

	rows := leaderboard.Project(store, domain.QueueSolo, "")
	require.Len(t, rows, 2)

	assert.Equal(t, "Bob", rows[0].DisplayName)
	assert.True(t, rows[0].InGame)
	assert.Equal(t, "Ann", rows[1].DisplayName)
	assert.Equal(t, "GOLD II • 40 LP", rows[1].RankLabel)
	assert.Equal(t, "🟩🟥", rows[1].RecentFormText)
}

func TestLoad_UnknownPlayerReference(t *testing.T) {
	f := &Fixture{
		Players: []PlayerFixture{{ID: "a", DisplayName: "Ann"}},
		Ranks:   []RankFixture{{Player: "nobody", Queue: domain.QueueSolo, Tier: "GOLD", Division: "I"}},
	}

	_, err := Load(context.Background(), newSource(t), f, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nobody")
}

func TestLoad_RejectsUnknownQueue(t *testing.T) {
	f := &Fixture{
		Players: []PlayerFixture{{ID: "a", DisplayName: "Ann"}},
		Ranks:   []RankFixture{{Player: "a", Queue: "ARAM"}},
	}

	_, err := Load(context.Background(), newSource(t), f, zerolog.Nop())
	assert.Error(t, err)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"player": []}`))
	assert.Error(t, err)
}
