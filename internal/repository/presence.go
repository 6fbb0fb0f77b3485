package repository

import (
	"context"
	"database/sql"
	"fmt"

	"lol-leaderboard/internal/domain"

	"github.com/rs/zerolog"
)

type PresenceRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPresenceRepository(sqlDB *sql.DB, logger zerolog.Logger) *PresenceRepository {
	return &PresenceRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *PresenceRepository) List(ctx context.Context) ([]domain.PresenceRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT player_id, in_game, queue_id, checked_at, last_error
		FROM live_status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query live status: %w", err)
	}
	defer rows.Close()

	var records []domain.PresenceRecord
	for rows.Next() {
		var (
			p       domain.PresenceRecord
			queueID sql.NullInt64
		)
		if err := rows.Scan(&p.PlayerID, &p.InGame, &queueID, &p.CheckedAt, &p.LastError); err != nil {
			return nil, fmt.Errorf("failed to scan live status: %w", err)
		}
		p.QueueID = fromNull(queueID)
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate live status: %w", err)
	}
	return records, nil
}

func (r *PresenceRepository) UpsertBatch(ctx context.Context, records []domain.PresenceRecord) error {
	if len(records) == 0 {
		return nil
	}

	return inTx(ctx, r.db, `
		INSERT INTO live_status (player_id, in_game, queue_id, checked_at, last_error)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (player_id) DO UPDATE SET
			in_game = excluded.in_game,
			queue_id = excluded.queue_id,
			checked_at = excluded.checked_at,
			last_error = excluded.last_error`,
		len(records), func(i int) ([]any, error) {
			p := records[i]
			return []any{p.PlayerID, p.InGame, toNull(p.QueueID), orNow(p.CheckedAt), p.LastError}, nil
		})
}
