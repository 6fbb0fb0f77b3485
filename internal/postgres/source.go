package postgres

import (
	"context"
	"fmt"
	"time"

	"lol-leaderboard/internal/domain"
	"lol-leaderboard/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

var _ session.DataSource = (*Source)(nil)

// Source reads the refresher's tables straight from a Postgres (or Supabase) database.
type Source struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSource connects and pings the database. The caller owns Close.
func NewSource(ctx context.Context, databaseURL string, logger zerolog.Logger) (*Source, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("connected to postgres")
	return &Source{pool: pool, logger: logger.With().Str("source", "postgres").Logger()}, nil
}

func (s *Source) Close() {
	s.pool.Close()
}

func (s *Source) ReadRoster(ctx context.Context) ([]domain.Player, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, coalesce(display_name, ''), coalesce(riot_game_name, ''),
		       coalesce(riot_tag_line, ''), active, created_at
		FROM players
		WHERE active = true
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.RiotGameName, &p.RiotTagLine, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return players, nil
}

func (s *Source) ReadRankSnapshots(ctx context.Context, queue domain.Queue) ([]domain.RankSnapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT player_id::text, queue, coalesce(tier, ''), coalesce(division, ''),
		       lp, wins, losses, updated_at
		FROM latest_rank
		WHERE queue = $1`, string(queue))
	if err != nil {
		return nil, fmt.Errorf("query latest_rank: %w", err)
	}
	defer rows.Close()

	var snaps []domain.RankSnapshot
	for rows.Next() {
		var (
			snap      domain.RankSnapshot
			q         string
			updatedAt *time.Time
		)
		if err := rows.Scan(&snap.PlayerID, &q, &snap.Tier, &snap.Division, &snap.LP, &snap.Wins, &snap.Losses, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan latest_rank: %w", err)
		}
		snap.Queue = domain.Queue(q)
		if updatedAt != nil {
			snap.UpdatedAt = *updatedAt
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return snaps, nil
}

func (s *Source) ReadMatchHistories(ctx context.Context, queue domain.Queue) ([]domain.MatchHistory, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT player_id::text, queue, games::text, fetched_at
		FROM recent_games
		WHERE queue = $1`, string(queue))
	if err != nil {
		return nil, fmt.Errorf("query recent_games: %w", err)
	}
	defer rows.Close()

	var histories []domain.MatchHistory
	for rows.Next() {
		var (
			h         domain.MatchHistory
			q         string
			games     *string
			fetchedAt *time.Time
		)
		if err := rows.Scan(&h.PlayerID, &q, &games, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan recent_games: %w", err)
		}
		h.Queue = domain.Queue(q)
		if fetchedAt != nil {
			h.FetchedAt = *fetchedAt
		}
		if games != nil {
			h.Games, err = domain.ParseMatchOutcomes([]byte(*games))
			if err != nil {
				s.logger.Warn().Err(err).Str("player_id", h.PlayerID).Msg("malformed recent games")
				h.Games = nil
				h.Malformed = true
			}
		}
		histories = append(histories, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return histories, nil
}

func (s *Source) ReadPresence(ctx context.Context) ([]domain.PresenceRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT player_id::text, coalesce(in_game, false), queue_id, checked_at, coalesce(last_error, '')
		FROM live_status`)
	if err != nil {
		return nil, fmt.Errorf("query live_status: %w", err)
	}
	defer rows.Close()

	var records []domain.PresenceRecord
	for rows.Next() {
		var (
			p         domain.PresenceRecord
			checkedAt *time.Time
		)
		if err := rows.Scan(&p.PlayerID, &p.InGame, &p.QueueID, &checkedAt, &p.LastError); err != nil {
			return nil, fmt.Errorf("scan live_status: %w", err)
		}
		if checkedAt != nil {
			p.CheckedAt = *checkedAt
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return records, nil
}
