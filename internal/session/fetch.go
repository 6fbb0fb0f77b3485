package session

import (
	"context"

	"lol-leaderboard/internal/constants"
	"lol-leaderboard/internal/domain"
)

type cycleResult struct {
	roster    []domain.Player
	ranks     []domain.RankSnapshot
	histories []domain.MatchHistory
}

// startCycle stamps a new generation and fetches in the background. Only the cycle that
// started last may apply its result.
func (c *Controller) startCycle() {
	c.generation++
	gen, queue := c.generation, c.queue

	c.loading = true
	c.banner = nil
	c.publish()

	c.logger.Debug().Uint64("generation", gen).Str("queue", string(queue)).Msg("fetch cycle started")

	c.spawn(func(ctx context.Context) {
		res, err := c.fetch(ctx, queue)
		c.post(func() { c.applyCycle(gen, res, err) })
	})
}

func (c *Controller) fetch(ctx context.Context, queue domain.Queue) (*cycleResult, error) {
	roster, err := read(ctx, "read roster", c.source.ReadRoster)
	if err != nil {
		return nil, err
	}

	ranks, err := read(ctx, "read rank snapshots", func(ctx context.Context) ([]domain.RankSnapshot, error) {
		return c.source.ReadRankSnapshots(ctx, queue)
	})
	if err != nil {
		return nil, err
	}

	histories, err := read(ctx, "read match histories", func(ctx context.Context) ([]domain.MatchHistory, error) {
		return c.source.ReadMatchHistories(ctx, queue)
	})
	if err != nil {
		return nil, err
	}

	return &cycleResult{roster: roster, ranks: ranks, histories: histories}, nil
}

func (c *Controller) applyCycle(gen uint64, res *cycleResult, err error) {
	if gen != c.generation {
		c.logger.Debug().
			Uint64("generation", gen).
			Uint64("current", c.generation).
			Msg("discarding superseded fetch cycle")
		return
	}

	c.loading = false

	if err != nil {
		c.logger.Error().Err(err).Uint64("generation", gen).Msg("fetch cycle failed")
		c.banner = &domain.Banner{
			Kind:    domain.BannerError,
			Title:   "Data source error",
			Message: err.Error(),
		}
		c.publish()
		return
	}

	c.store.ReplaceRoster(res.roster)
	c.store.ReplaceRankSnapshots(res.ranks)
	c.store.ReplaceMatchHistories(res.histories)
	c.lastFetchAt = c.now()

	c.logger.Info().
		Uint64("generation", gen).
		Int("players", len(res.roster)).
		Int("ranks", len(res.ranks)).
		Int("histories", len(res.histories)).
		Msg("fetch cycle applied")

	c.publish()
}

func read[T any](ctx context.Context, op string, fn func(context.Context) ([]T, error)) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ReadTimeout)
	defer cancel()

	items, err := fn(ctx)
	if err != nil {
		return nil, &domain.DataSourceError{Op: op, Err: err}
	}
	return items, nil
}
