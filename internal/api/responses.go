package api

import (
	"encoding/json"
	"time"

	"lol-leaderboard/internal/domain"
)

type playerRow struct {
	ID           string     `json:"id"`
	DisplayName  *string    `json:"display_name"`
	RiotGameName *string    `json:"riot_game_name"`
	RiotTagLine  *string    `json:"riot_tag_line"`
	Active       bool       `json:"active"`
	CreatedAt    *time.Time `json:"created_at"`
}

func (r playerRow) toDomain() domain.Player {
	return domain.Player{
		ID:           r.ID,
		DisplayName:  deref(r.DisplayName),
		RiotGameName: deref(r.RiotGameName),
		RiotTagLine:  deref(r.RiotTagLine),
		Active:       r.Active,
		CreatedAt:    derefTime(r.CreatedAt),
	}
}

type rankRow struct {
	PlayerID  string     `json:"player_id"`
	Queue     string     `json:"queue"`
	Tier      *string    `json:"tier"`
	Division  *string    `json:"division"`
	LP        any        `json:"lp"`
	Wins      any        `json:"wins"`
	Losses    any        `json:"losses"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (r rankRow) toDomain() domain.RankSnapshot {
	return domain.RankSnapshot{
		PlayerID:  r.PlayerID,
		Queue:     domain.Queue(r.Queue),
		Tier:      deref(r.Tier),
		Division:  deref(r.Division),
		LP:        looseInt(r.LP),
		Wins:      looseInt(r.Wins),
		Losses:    looseInt(r.Losses),
		UpdatedAt: derefTime(r.UpdatedAt),
	}
}

type recentGamesRow struct {
	PlayerID  string          `json:"player_id"`
	Queue     string          `json:"queue"`
	Games     json.RawMessage `json:"games"`
	FetchedAt *time.Time      `json:"fetched_at"`
}

type liveStatusRow struct {
	PlayerID  string     `json:"player_id"`
	InGame    *bool      `json:"in_game"`
	QueueID   any        `json:"queue_id"`
	CheckedAt *time.Time `json:"checked_at"`
	LastError *string    `json:"last_error"`
}
