package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"lol-leaderboard/internal/config"
	"lol-leaderboard/internal/constants"
	"lol-leaderboard/internal/domain"
	"lol-leaderboard/internal/session"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

var (
	_ session.DataSource     = (*SupabaseClient)(nil)
	_ session.RefreshTrigger = (*SupabaseClient)(nil)
)

// SupabaseClient reads the leaderboard tables through PostgREST and kicks the refresh edge function.
type SupabaseClient struct {
	baseURL       string
	functionsBase string
	anonKey       string
	client        *fasthttp.Client
	logger        zerolog.Logger
}

func NewSupabaseClient(cfg *config.Config, logger zerolog.Logger) *SupabaseClient {
	return &SupabaseClient{
		baseURL:       cfg.SupabaseURL,
		functionsBase: cfg.FunctionsBase,
		anonKey:       cfg.SupabaseAnonKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger.With().Str("source", "supabase").Logger(),
	}
}

func (c *SupabaseClient) ReadRoster(ctx context.Context) ([]domain.Player, error) {
	rows, err := doRequest[[]playerRow](ctx, c, c.restURL("players", url.Values{
		"select": {"id,display_name,riot_game_name,riot_tag_line,active,created_at"},
		"active": {"eq.true"},
		"order":  {"created_at.asc"},
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read players: %w", err)
	}

	players := make([]domain.Player, 0, len(*rows))
	for _, r := range *rows {
		players = append(players, r.toDomain())
	}
	return players, nil
}

func (c *SupabaseClient) ReadRankSnapshots(ctx context.Context, queue domain.Queue) ([]domain.RankSnapshot, error) {
	rows, err := doRequest[[]rankRow](ctx, c, c.restURL("latest_rank", url.Values{
		"select": {"player_id,queue,tier,division,lp,wins,losses,updated_at"},
		"queue":  {"eq." + string(queue)},
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read latest_rank: %w", err)
	}

	snaps := make([]domain.RankSnapshot, 0, len(*rows))
	for _, r := range *rows {
		snaps = append(snaps, r.toDomain())
	}
	return snaps, nil
}

func (c *SupabaseClient) ReadMatchHistories(ctx context.Context, queue domain.Queue) ([]domain.MatchHistory, error) {
	rows, err := doRequest[[]recentGamesRow](ctx, c, c.restURL("recent_games", url.Values{
		"select": {"player_id,queue,games,fetched_at"},
		"queue":  {"eq." + string(queue)},
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read recent_games: %w", err)
	}

	histories := make([]domain.MatchHistory, 0, len(*rows))
	for _, r := range *rows {
		h := domain.MatchHistory{
			PlayerID:  r.PlayerID,
			Queue:     domain.Queue(r.Queue),
			FetchedAt: derefTime(r.FetchedAt),
		}
		h.Games, err = domain.ParseMatchOutcomes(r.Games)
		if err != nil {
			c.logger.Warn().Err(err).Str("player_id", r.PlayerID).Msg("malformed recent games")
			h.Games = nil
			h.Malformed = true
		}
		histories = append(histories, h)
	}
	return histories, nil
}

func (c *SupabaseClient) ReadPresence(ctx context.Context) ([]domain.PresenceRecord, error) {
	rows, err := doRequest[[]liveStatusRow](ctx, c, c.restURL("live_status", url.Values{
		"select": {"player_id,in_game,queue_id,checked_at,last_error"},
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read live_status: %w", err)
	}

	records := make([]domain.PresenceRecord, 0, len(*rows))
	for _, r := range *rows {
		records = append(records, domain.PresenceRecord{
			PlayerID:  r.PlayerID,
			InGame:    r.InGame != nil && *r.InGame,
			QueueID:   looseInt(r.QueueID),
			CheckedAt: derefTime(r.CheckedAt),
			LastError: deref(r.LastError),
		})
	}
	return records, nil
}

// TriggerRefresh asks the refresh_now_public edge function to pull fresh ranks.
func (c *SupabaseClient) TriggerRefresh(ctx context.Context) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.functionsBase + "/refresh_now_public")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBodyString(`{"reason":"site"}`)

	if err := c.do(ctx, req, resp); err != nil {
		return fmt.Errorf("failed to trigger refresh: %w", err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		body := string(resp.Body())
		c.logger.Warn().Int("status", status).Str("body", body).Msg("refresh endpoint rejected request")
		return &domain.RemoteTriggerError{StatusCode: status, Body: body}
	}

	c.logger.Info().Int("status", status).Msg("refresh triggered")
	return nil
}

func (c *SupabaseClient) restURL(table string, query url.Values) string {
	return c.baseURL + "/rest/v1/" + table + "?" + query.Encode()
}

func (c *SupabaseClient) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)

	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		return c.client.DoDeadline(req, resp, deadline)
	}
	return c.client.DoTimeout(req, resp, constants.ExternalAPITimeout)
}

func doRequest[T any](ctx context.Context, client *SupabaseClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := client.do(ctx, req, resp); err != nil {
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, apiError(resp)
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// apiError prefers the PostgREST message over the bare status.
func apiError(resp *fasthttp.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Message != "" {
		return fmt.Errorf("API error %d: %s", resp.StatusCode(), body.Message)
	}
	return fmt.Errorf("API error: %d", resp.StatusCode())
}

// looseInt accepts the numeric shapes PostgREST may return for a column: number, numeric string or null.
func looseInt(v any) *int {
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return &i
		}
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			i := int(f)
			return &i
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
