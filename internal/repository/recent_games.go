package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lol-leaderboard/internal/domain"

	"github.com/rs/zerolog"
)

// RecentGames is a stored recent-games row. Games holds the raw JSON array as written by the
// refresher, which may be null or malformed.
type RecentGames struct {
	PlayerID  string
	Queue     domain.Queue
	Games     json.RawMessage
	FetchedAt time.Time
}

type RecentGamesRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRecentGamesRepository(sqlDB *sql.DB, logger zerolog.Logger) *RecentGamesRepository {
	return &RecentGamesRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// ListByQueue decodes each row's games. A row whose payload cannot be decoded is returned
// with Malformed set rather than failing the whole read.
func (r *RecentGamesRepository) ListByQueue(ctx context.Context, queue domain.Queue) ([]domain.MatchHistory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player_id, queue, games, fetched_at
		FROM recent_games
		WHERE queue = ?`, string(queue))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent games: %w", err)
	}
	defer rows.Close()

	var histories []domain.MatchHistory
	for rows.Next() {
		var (
			h     domain.MatchHistory
			q     string
			games sql.NullString
		)
		if err := rows.Scan(&h.PlayerID, &q, &games, &h.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent games: %w", err)
		}
		h.Queue = domain.Queue(q)

		h.Games, err = domain.ParseMatchOutcomes([]byte(games.String))
		if err != nil {
			r.logger.Warn().Err(err).Str("player_id", h.PlayerID).Msg("malformed recent games")
			h.Games = nil
			h.Malformed = true
		}
		histories = append(histories, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent games: %w", err)
	}

	r.logger.Debug().Str("queue", string(queue)).Int("count", len(histories)).Msg("recent games loaded")
	return histories, nil
}

func (r *RecentGamesRepository) UpsertBatch(ctx context.Context, records []RecentGames) error {
	if len(records) == 0 {
		return nil
	}

	return inTx(ctx, r.db, `
		INSERT INTO recent_games (player_id, queue, games, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (player_id, queue) DO UPDATE SET
			games = excluded.games,
			fetched_at = excluded.fetched_at`,
		len(records), func(i int) ([]any, error) {
			rec := records[i]
			var games sql.NullString
			if len(rec.Games) > 0 {
				games = sql.NullString{String: string(rec.Games), Valid: true}
			}
			return []any{rec.PlayerID, string(rec.Queue), games, orNow(rec.FetchedAt)}, nil
		})
}
