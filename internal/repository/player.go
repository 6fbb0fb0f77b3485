package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lol-leaderboard/internal/constants"
	"lol-leaderboard/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// ListActive returns active players oldest first.
func (r *PlayerRepository) ListActive(ctx context.Context) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, display_name, riot_game_name, riot_tag_line, active, created_at
		FROM players
		WHERE active = 1
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.RiotGameName, &p.RiotTagLine, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}

	r.logger.Debug().Int("count", len(players)).Msg("players loaded")
	return players, nil
}

// UpsertBatch writes players in one transaction. Players without an id get a nanoid; the
// stored players are returned so callers can link ranks and histories to them.
func (r *PlayerRepository) UpsertBatch(ctx context.Context, players []domain.Player) ([]domain.Player, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (id, display_name, riot_game_name, riot_tag_line, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			display_name = excluded.display_name,
			riot_game_name = excluded.riot_game_name,
			riot_tag_line = excluded.riot_tag_line,
			active = excluded.active`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare player upsert: %w", err)
	}
	defer stmt.Close()

	stored := make([]domain.Player, 0, len(players))
	for i := 0; i < len(players); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(players))

		for _, player := range players[i:end] {
			if player.ID == "" {
				player.ID, err = gonanoid.New()
				if err != nil {
					return nil, fmt.Errorf("failed to generate nanoid: %w", err)
				}
			}
			if player.CreatedAt.IsZero() {
				player.CreatedAt = time.Now().UTC()
			}

			_, err := stmt.ExecContext(ctx,
				player.ID,
				player.DisplayName,
				player.RiotGameName,
				player.RiotTagLine,
				player.Active,
				player.CreatedAt,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to upsert player %s: %w", player.ID, err)
			}
			stored = append(stored, player)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit players: %w", err)
	}
	return stored, nil
}
