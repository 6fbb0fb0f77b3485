package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"lol-leaderboard/internal/domain"
	"lol-leaderboard/internal/repository"

	"github.com/rs/zerolog"
)

// Fixture is the JSON document accepted by `ladder seed`. Ranks, games and live status refer to
// players by id or display name.
type Fixture struct {
	Players     []PlayerFixture      `json:"players"`
	Ranks       []RankFixture        `json:"ranks"`
	RecentGames []RecentGamesFixture `json:"recent_games"`
	LiveStatus  []LiveStatusFixture  `json:"live_status"`
}

type PlayerFixture struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	RiotGameName string `json:"riot_game_name"`
	RiotTagLine  string `json:"riot_tag_line"`
	Active       *bool  `json:"active"`
}

type RankFixture struct {
	Player   string       `json:"player"`
	Queue    domain.Queue `json:"queue"`
	Tier     string       `json:"tier"`
	Division string       `json:"division"`
	LP       *int         `json:"lp"`
	Wins     *int         `json:"wins"`
	Losses   *int         `json:"losses"`
}

type RecentGamesFixture struct {
	Player string          `json:"player"`
	Queue  domain.Queue    `json:"queue"`
	Games  json.RawMessage `json:"games"`
}

type LiveStatusFixture struct {
	Player    string `json:"player"`
	InGame    bool   `json:"in_game"`
	QueueID   *int   `json:"queue_id"`
	LastError string `json:"last_error"`
}

type Result struct {
	Players     int
	Ranks       int
	RecentGames int
	LiveStatus  int
}

func Decode(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return &f, nil
}

// Load writes the fixture into the local store. Players go first so the rest can be linked to
// their (possibly generated) ids.
func Load(ctx context.Context, src *repository.Source, f *Fixture, logger zerolog.Logger) (Result, error) {
	players := make([]domain.Player, 0, len(f.Players))
	for _, p := range f.Players {
		active := true
		if p.Active != nil {
			active = *p.Active
		}
		players = append(players, domain.Player{
			ID:           p.ID,
			DisplayName:  p.DisplayName,
			RiotGameName: p.RiotGameName,
			RiotTagLine:  p.RiotTagLine,
			Active:       active,
		})
	}

	stored, err := src.Players.UpsertBatch(ctx, players)
	if err != nil {
		return Result{}, err
	}

	ids := make(map[string]string, len(stored)*2)
	for _, p := range stored {
		ids[p.ID] = p.ID
		if p.DisplayName != "" {
			ids[p.DisplayName] = p.ID
		}
	}
	resolve := func(ref string) (string, error) {
		if id, ok := ids[ref]; ok {
			return id, nil
		}
		return "", fmt.Errorf("unknown player %q", ref)
	}

	ranks := make([]domain.RankSnapshot, 0, len(f.Ranks))
	for _, r := range f.Ranks {
		id, err := resolve(r.Player)
		if err != nil {
			return Result{}, fmt.Errorf("rank: %w", err)
		}
		if !r.Queue.Valid() {
			return Result{}, fmt.Errorf("rank for %q: unknown queue %q", r.Player, r.Queue)
		}
		ranks = append(ranks, domain.RankSnapshot{
			PlayerID: id,
			Queue:    r.Queue,
			Tier:     r.Tier,
			Division: r.Division,
			LP:       r.LP,
			Wins:     r.Wins,
			Losses:   r.Losses,
		})
	}
	if err := src.Ranks.UpsertBatch(ctx, ranks); err != nil {
		return Result{}, err
	}

	games := make([]repository.RecentGames, 0, len(f.RecentGames))
	for _, g := range f.RecentGames {
		id, err := resolve(g.Player)
		if err != nil {
			return Result{}, fmt.Errorf("recent games: %w", err)
		}
		games = append(games, repository.RecentGames{PlayerID: id, Queue: g.Queue, Games: g.Games})
	}
	if err := src.RecentGames.UpsertBatch(ctx, games); err != nil {
		return Result{}, err
	}

	live := make([]domain.PresenceRecord, 0, len(f.LiveStatus))
	for _, l := range f.LiveStatus {
		id, err := resolve(l.Player)
		if err != nil {
			return Result{}, fmt.Errorf("live status: %w", err)
		}
		live = append(live, domain.PresenceRecord{PlayerID: id, InGame: l.InGame, QueueID: l.QueueID, LastError: l.LastError})
	}
	if err := src.Presence.UpsertBatch(ctx, live); err != nil {
		return Result{}, err
	}

	res := Result{Players: len(stored), Ranks: len(ranks), RecentGames: len(games), LiveStatus: len(live)}
	logger.Info().
		Int("players", res.Players).
		Int("ranks", res.Ranks).
		Int("recent_games", res.RecentGames).
		Int("live_status", res.LiveStatus).
		Msg("fixture loaded")
	return res, nil
}
