package fx

import (
	"context"
	"fmt"

	"lol-leaderboard/internal/api"
	"lol-leaderboard/internal/config"
	"lol-leaderboard/internal/constants"
	"lol-leaderboard/internal/database"
	"lol-leaderboard/internal/domain"
	"lol-leaderboard/internal/logger"
	"lol-leaderboard/internal/postgres"
	"lol-leaderboard/internal/repository"
	"lol-leaderboard/internal/server"
	"lol-leaderboard/internal/session"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// OpenDataSource builds the reader and refresh trigger selected by DATA_SOURCE. The returned
// close func releases whatever connection the source holds.
func OpenDataSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (session.DataSource, session.RefreshTrigger, func(), error) {
	switch cfg.DataSource {
	case config.SourceSQLite:
		db, err := database.New(cfg, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
		}
		return repository.NewSource(db, logger), repository.NewNoopTrigger(logger), closeFn, nil

	case config.SourcePostgres:
		ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
		defer cancel()
		src, err := postgres.NewSource(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open postgres source: %w", err)
		}
		var trigger session.RefreshTrigger = repository.NewNoopTrigger(logger)
		if cfg.FunctionsBase != "" && cfg.SupabaseAnonKey != "" {
			trigger = api.NewSupabaseClient(cfg, logger)
		}
		return src, trigger, src.Close, nil

	case config.SourceSupabase:
		client := api.NewSupabaseClient(cfg, logger)
		return client, client, func() {}, nil
	}

	return nil, nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownDataSource, cfg.DataSource)
}

func ProvideDataSource(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (session.DataSource, session.RefreshTrigger, error) {
	src, trigger, closeFn, err := OpenDataSource(context.Background(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			closeFn()
			return nil
		},
	})
	return src, trigger, nil
}

func ProvideSession(lc fx.Lifecycle, src session.DataSource, trigger session.RefreshTrigger, cfg *config.Config, logger zerolog.Logger) *session.Controller {
	ctrl := session.New(src, trigger, logger, session.Options{
		Queue:            cfg.DefaultQueue,
		PresenceInterval: cfg.PresenceInterval,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// the start context ends with OnStart; the session outlives it
			ctrl.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return ctrl.Stop()
		},
	})
	return ctrl
}

func ProvideSessionAPI(ctrl *session.Controller) server.Session {
	return ctrl
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	// data
	fx.Provide(ProvideDataSource),
	// session
	fx.Provide(ProvideSession),
	fx.Provide(ProvideSessionAPI),
	// server
	fx.Provide(server.NewLeaderboardServer),
	fx.Provide(server.NewHub),
)
