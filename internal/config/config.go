package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"lol-leaderboard/internal/constants"
	"lol-leaderboard/internal/domain"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
	SourceSupabase = "supabase"
)

type Config struct {
	DataSource       string
	DBPath           string
	DatabaseURL      string
	SupabaseURL      string
	SupabaseAnonKey  string
	FunctionsBase    string
	ServerPort       string
	LogLevel         string
	LogFile          string
	DefaultQueue     domain.Queue
	PresenceInterval time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DataSource:       strings.ToLower(getEnv("DATA_SOURCE", SourceSQLite)),
		DBPath:           getEnv("DB_PATH", "leaderboard.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SupabaseURL:      strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey:  getEnv("SUPABASE_ANON_KEY", ""),
		FunctionsBase:    strings.TrimRight(getEnv("FUNCTIONS_BASE", ""), "/"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", "leaderboard.log"),
		DefaultQueue:     domain.Queue(getEnv("DEFAULT_QUEUE", string(domain.QueueSolo))),
		PresenceInterval: constants.PresenceInterval,
	}

	if v := os.Getenv("PRESENCE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid PRESENCE_INTERVAL %q", v)
		}
		cfg.PresenceInterval = d
	}

	if cfg.FunctionsBase == "" && cfg.SupabaseURL != "" {
		cfg.FunctionsBase = cfg.SupabaseURL + "/functions/v1"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("data_source", cfg.DataSource).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("default_queue", string(cfg.DefaultQueue)).
		Dur("presence_interval", cfg.PresenceInterval).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) validate() error {
	if !c.DefaultQueue.Valid() {
		return fmt.Errorf("invalid DEFAULT_QUEUE %q", c.DefaultQueue)
	}

	switch c.DataSource {
	case SourceSQLite:
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres data source")
		}
	case SourceSupabase:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required for the supabase data source")
		}
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownDataSource, c.DataSource)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
