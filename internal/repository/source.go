package repository

import (
	"context"
	"database/sql"

	"lol-leaderboard/internal/domain"
	"lol-leaderboard/internal/session"

	"github.com/rs/zerolog"
)

var (
	_ session.DataSource     = (*Source)(nil)
	_ session.RefreshTrigger = (*NoopTrigger)(nil)
)

// Source serves the leaderboard from the local SQLite tables.
type Source struct {
	Players     *PlayerRepository
	Ranks       *RankRepository
	RecentGames *RecentGamesRepository
	Presence    *PresenceRepository
}

func NewSource(sqlDB *sql.DB, logger zerolog.Logger) *Source {
	logger = logger.With().Str("source", "sqlite").Logger()
	return &Source{
		Players:     NewPlayerRepository(sqlDB, logger),
		Ranks:       NewRankRepository(sqlDB, logger),
		RecentGames: NewRecentGamesRepository(sqlDB, logger),
		Presence:    NewPresenceRepository(sqlDB, logger),
	}
}

func (s *Source) ReadRoster(ctx context.Context) ([]domain.Player, error) {
	return s.Players.ListActive(ctx)
}

func (s *Source) ReadRankSnapshots(ctx context.Context, queue domain.Queue) ([]domain.RankSnapshot, error) {
	return s.Ranks.ListByQueue(ctx, queue)
}

func (s *Source) ReadMatchHistories(ctx context.Context, queue domain.Queue) ([]domain.MatchHistory, error) {
	return s.RecentGames.ListByQueue(ctx, queue)
}

func (s *Source) ReadPresence(ctx context.Context) ([]domain.PresenceRecord, error) {
	return s.Presence.List(ctx)
}

// NoopTrigger stands in for the remote refresher when data lives in a local store.
type NoopTrigger struct {
	logger zerolog.Logger
}

func NewNoopTrigger(logger zerolog.Logger) *NoopTrigger {
	return &NoopTrigger{logger: logger}
}

func (t *NoopTrigger) TriggerRefresh(ctx context.Context) error {
	t.logger.Debug().Msg("no remote refresher configured, re-reading local store")
	return ctx.Err()
}
