package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lol-leaderboard/internal/database"
	"lol-leaderboard/internal/domain"
)

func intPtr(v int) *int { return &v }

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedPlayers(t *testing.T, src *Source) []domain.Player {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	stored, err := src.Players.UpsertBatch(context.Background(), []domain.Player{
		{ID: "b", DisplayName: "Bob", RiotGameName: "Bob", RiotTagLine: "EUW", Active: true, CreatedAt: base.Add(time.Hour)},
		{ID: "a", DisplayName: "Ann", RiotGameName: "Ann", RiotTagLine: "EUW", Active: true, CreatedAt: base},
		{ID: "z", DisplayName: "Gone", Active: false, CreatedAt: base},
	})
	require.NoError(t, err)
	return stored
}

func TestPlayerRepository_ListActiveOrdersByCreation(t *testing.T) {
	src := NewSource(openTestDB(t), zerolog.Nop())
	seedPlayers(t, src)

	players, err := src.ReadRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "a", players[0].ID)
	assert.Equal(t, "b", players[1].ID)
	assert.True(t, players[0].Active)
	assert.Equal(t, "EUW", players[0].RiotTagLine)
}

func TestPlayerRepository_UpsertGeneratesIDs(t *testing.T) {
	src := NewSource(openTestDB(t), zerolog.Nop())

	stored, err := src.Players.UpsertBatch(context.Background(), []domain.Player{
		{DisplayName: "NoID", Active: true},
	})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotEmpty(t, stored[0].ID)
	assert.False(t, stored[0].CreatedAt.IsZero())

	// upsert on the generated id updates in place
	stored[0].DisplayName = "Renamed"
	_, err = src.Players.UpsertBatch(context.Background(), stored)
	require.NoError(t, err)

	players, err := src.ReadRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Renamed", players[0].DisplayName)
}

func TestRankRepository_ListByQueueKeepsNulls(t *testing.T) {
	src := NewSource(openTestDB(t), zerolog.Nop())
	seedPlayers(t, src)
	ctx := context.Background()

	require.NoError(t, src.Ranks.UpsertBatch(ctx, []domain.RankSnapshot{
		{PlayerID: "a", Queue: domain.QueueSolo, Tier: "GOLD", Division: "II", LP: intPtr(40), Wins: intPtr(5), Losses: intPtr(5)},
		{PlayerID: "b", Queue: domain.QueueSolo, Tier: "IRON", Division: "IV"},
		{PlayerID: "a", Queue: domain.QueueFlex, Tier: "SILVER", Division: "I", LP: intPtr(0)},
	}))

	snaps, err := src.ReadRankSnapshots(ctx, domain.QueueSolo)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	byPlayer := map[string]domain.RankSnapshot{}
	for _, s := range snaps {
		byPlayer[s.PlayerID] = s
	}
	require.NotNil(t, byPlayer["a"].LP)
	assert.Equal(t, 40, *byPlayer["a"].LP)
	assert.Equal(t, domain.QueueSolo, byPlayer["a"].Queue)
	assert.Nil(t, byPlayer["b"].LP)
	assert.Nil(t, byPlayer["b"].Wins)

	flex, err := src.ReadRankSnapshots(ctx, domain.QueueFlex)
	require.NoError(t, err)
	require.Len(t, flex, 1)
	require.NotNil(t, flex[0].LP)
	assert.Equal(t, 0, *flex[0].LP)
}

func TestRecentGamesRepository_MarksMalformedRows(t *testing.T) {
	src := NewSource(openTestDB(t), zerolog.Nop())
	seedPlayers(t, src)
	ctx := context.Background()

	require.NoError(t, src.RecentGames.UpsertBatch(ctx, []RecentGames{
		{PlayerID: "a", Queue: domain.QueueSolo, Games: json.RawMessage(`[{"win":true,"queue":420},{"win":false,"queue":440}]`)},
		{PlayerID: "b", Queue: domain.QueueSolo, Games: json.RawMessage(`{"oops":1}`)},
	}))

	histories, err := src.ReadMatchHistories(ctx, domain.QueueSolo)
	require.NoError(t, err)
	require.Len(t, histories, 2)

	byPlayer := map[string]domain.MatchHistory{}
	for _, h := range histories {
		byPlayer[h.PlayerID] = h
	}

	ann := byPlayer["a"]
	assert.False(t, ann.Malformed)
	require.Len(t, ann.Games, 2)
	require.NotNil(t, ann.Games[0].Win)
	assert.True(t, *ann.Games[0].Win)
	assert.Equal(t, domain.QueueSolo, ann.Games[0].Queue)
	assert.Equal(t, domain.QueueFlex, ann.Games[1].Queue)

	assert.True(t, byPlayer["b"].Malformed)
	assert.Empty(t, byPlayer["b"].Games)
}

func TestPresenceRepository_RoundTrip(t *testing.T) {
	src := NewSource(openTestDB(t), zerolog.Nop())
	seedPlayers(t, src)
	ctx := context.Background()

	require.NoError(t, src.Presence.UpsertBatch(ctx, []domain.PresenceRecord{
		{PlayerID: "a", InGame: true, QueueID: intPtr(420)},
		{PlayerID: "b", InGame: false, LastError: "rate limited"},
	}))

	records, err := src.ReadPresence(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byPlayer := map[string]domain.PresenceRecord{}
	for _, p := range records {
		byPlayer[p.PlayerID] = p
	}
	assert.True(t, byPlayer["a"].InGame)
	require.NotNil(t, byPlayer["a"].QueueID)
	assert.Equal(t, 420, *byPlayer["a"].QueueID)
	assert.Nil(t, byPlayer["b"].QueueID)
	assert.Equal(t, "rate limited", byPlayer["b"].LastError)
}

func TestNoopTrigger(t *testing.T) {
	trigger := NewNoopTrigger(zerolog.Nop())
	assert.NoError(t, trigger.TriggerRefresh(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, trigger.TriggerRefresh(ctx), context.Canceled)
}
