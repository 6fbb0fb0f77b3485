package fx

import (
	"context"
	"testing"

	"lol-leaderboard/internal/config"
	"lol-leaderboard/internal/domain"
	"lol-leaderboard/internal/server"
	"lol-leaderboard/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestModule_GraphResolves(t *testing.T) {
	err := fx.ValidateApp(
		Module,
		fx.Invoke(func(*session.Controller, *server.LeaderboardServer, *server.Hub, *config.Config, zerolog.Logger) {}),
	)
	require.NoError(t, err)
}

func TestOpenDataSource_UnknownSource(t *testing.T) {
	_, _, _, err := OpenDataSource(context.Background(), &config.Config{DataSource: "csv"}, zerolog.Nop())
	assert.ErrorIs(t, err, domain.ErrUnknownDataSource)
}
