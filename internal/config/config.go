package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"royale-rivals/internal/constants"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	CRAPIKey   string `validate:"required"`
	CRBaseURL  string `validate:"required,url"`
	DBPath     string `validate:"required"`
	ServerPort string `validate:"required,numeric"`
	LogLevel   string `validate:"required,oneof=trace debug info warn error"`
	RedisAddr  string `validate:"omitempty,hostname_port"`
	Sync       SyncConfig
}

type SyncConfig struct {
	Enabled           bool
	InitialDelay      time.Duration `validate:"gt=0"`
	Interval          time.Duration `validate:"gt=0"`
	PlayerDelay       time.Duration `validate:"gt=0"`
	ForceSyncCooldown time.Duration `validate:"gt=0"`
}

// Load reads an optional .env file, then the environment. A missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// LogLoaded records the effective configuration, without secrets.
func LogLoaded(cfg *Config, logger zerolog.Logger) {
	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("redis_cooldown", cfg.RedisAddr != "").
		Bool("sync_enabled", cfg.Sync.Enabled).
		Dur("sync_interval", cfg.Sync.Interval).
		Dur("sync_player_delay", cfg.Sync.PlayerDelay).
		Dur("force_sync_cooldown", cfg.Sync.ForceSyncCooldown).
		Msg("configuration loaded")
}

// FromEnv builds and validates a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	var parseErr error
	dur := func(key string, fallback time.Duration) time.Duration {
		v := getenv(key)
		if v == "" {
			return fallback
		}
		d, err := time.ParseDuration(v)
		if err != nil && parseErr == nil {
			parseErr = errors.Wrapf(err, "%s", key)
		}
		return d
	}

	enabled := true
	if v := getenv("SYNC_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil && parseErr == nil {
			parseErr = errors.Wrap(err, "SYNC_ENABLED")
		}
		enabled = b
	}

	cfg := &Config{
		CRAPIKey:   getenv("CR_API_KEY"),
		CRBaseURL:  withDefault(getenv("CR_API_BASE_URL"), "https://api.clashroyale.com/v1"),
		DBPath:     withDefault(getenv("DB_PATH"), "royale.db"),
		ServerPort: withDefault(getenv("SERVER_PORT"), "8000"),
		LogLevel:   strings.ToLower(withDefault(getenv("LOG_LEVEL"), "info")),
		RedisAddr:  getenv("REDIS_ADDR"),
		Sync: SyncConfig{
			Enabled:           enabled,
			InitialDelay:      dur("SYNC_INITIAL_DELAY", constants.DefaultSyncInitialDelay),
			Interval:          dur("SYNC_INTERVAL", constants.DefaultSyncInterval),
			PlayerDelay:       dur("SYNC_PLAYER_DELAY", constants.DefaultSyncPlayerDelay),
			ForceSyncCooldown: dur("FORCE_SYNC_COOLDOWN", constants.DefaultForceSyncCooldown),
		},
	}
	if parseErr != nil {
		return nil, errors.Wrap(parseErr, "invalid configuration")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Level maps LogLevel onto zerolog, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

func withDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

var Module = fx.Options(
	fx.Provide(Load),
	fx.Invoke(LogLoaded),
)
