package logger

import (
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New logs JSON to stdout at LOG_LEVEL (info when unset). The logger is built before config,
// so .env is loaded here as well; existing environment variables win.
func New() zerolog.Logger {
	_ = godotenv.Load()
	return build(os.Stdout, ParseLevel(os.Getenv("LOG_LEVEL")))
}

// NewFile logs to a rotating file; used when stdout belongs to the terminal UI.
func NewFile(path string, level zerolog.Level) zerolog.Logger {
	return build(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7,
	}, level)
}

// NewConsole writes human-readable lines, for CLI commands that print results on stdout.
func NewConsole(w io.Writer, level zerolog.Level) zerolog.Logger {
	return build(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}, level)
}

// ParseLevel falls back to info for an empty or unknown level.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func build(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger.Level(level)
}

var Module = fx.Provide(New)
