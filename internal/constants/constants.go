package constants

import "time"

const (
	DefaultSyncInitialDelay  = 10 * time.Second
	DefaultSyncInterval      = 10 * time.Minute
	DefaultSyncPlayerDelay   = 1 * time.Second
	DefaultForceSyncCooldown = 2 * time.Minute
	SupervisorBackoff        = 5 * time.Second
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultFeedLimit    = 50
	MaxFeedLimit        = 100
	PlayerMatchesLimit  = 50
	RecentResultsWindow = 5
	InviteTokenLength   = 32
	DefaultInviteUses   = 1
)
