package logger

import (
	"os"

	"royale-rivals/internal/config"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func New(cfg *config.Config) zerolog.Logger {
	return SetLevel(cfg.Level())
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(level)

	return logger
}

var Module = fx.Provide(New)
