package repository

import (
	"context"
	"database/sql"
	"fmt"

	"lol-leaderboard/internal/domain"

	"github.com/rs/zerolog"
)

type RankRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRankRepository(sqlDB *sql.DB, logger zerolog.Logger) *RankRepository {
	return &RankRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *RankRepository) ListByQueue(ctx context.Context, queue domain.Queue) ([]domain.RankSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player_id, queue, tier, division, lp, wins, losses, updated_at
		FROM latest_rank
		WHERE queue = ?`, string(queue))
	if err != nil {
		return nil, fmt.Errorf("failed to query ranks: %w", err)
	}
	defer rows.Close()

	var snaps []domain.RankSnapshot
	for rows.Next() {
		var (
			s                domain.RankSnapshot
			q                string
			lp, wins, losses sql.NullInt64
		)
		if err := rows.Scan(&s.PlayerID, &q, &s.Tier, &s.Division, &lp, &wins, &losses, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rank: %w", err)
		}
		s.Queue = domain.Queue(q)
		s.LP = fromNull(lp)
		s.Wins = fromNull(wins)
		s.Losses = fromNull(losses)
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ranks: %w", err)
	}

	r.logger.Debug().Str("queue", string(queue)).Int("count", len(snaps)).Msg("ranks loaded")
	return snaps, nil
}

func (r *RankRepository) UpsertBatch(ctx context.Context, snaps []domain.RankSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	return inTx(ctx, r.db, `
		INSERT INTO latest_rank (player_id, queue, tier, division, lp, wins, losses, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id, queue) DO UPDATE SET
			tier = excluded.tier,
			division = excluded.division,
			lp = excluded.lp,
			wins = excluded.wins,
			losses = excluded.losses,
			updated_at = excluded.updated_at`,
		len(snaps), func(i int) ([]any, error) {
			s := snaps[i]
			return []any{s.PlayerID, string(s.Queue), s.Tier, s.Division, toNull(s.LP), toNull(s.Wins), toNull(s.Losses), orNow(s.UpdatedAt)}, nil
		})
}
