package fx

import (
	"context"
	"database/sql"

	"royale-rivals/internal/api"
	"royale-rivals/internal/config"
	"royale-rivals/internal/constants"
	"royale-rivals/internal/database"
	"royale-rivals/internal/db"
	"royale-rivals/internal/ingest"
	"royale-rivals/internal/logger"
	"royale-rivals/internal/repository"
	"royale-rivals/internal/server"
	"royale-rivals/internal/service"
	"royale-rivals/internal/syncer"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideReconciler(matches *repository.MatchRepository, logger zerolog.Logger) *ingest.Reconciler {
	return ingest.NewReconciler(matches, logger)
}

func ProvidePlayerLookup(client *api.RoyaleClient) service.PlayerLookup {
	return client
}

// ProvideCooldownStore picks Redis when REDIS_ADDR is set, the in-process store otherwise.
func ProvideCooldownStore(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (syncer.CooldownStore, error) {
	if cfg.RedisAddr == "" {
		logger.Info().Msg("using in-memory sync cooldown store")
		return syncer.NewMemoryCooldownStore(), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "failed to reach redis at %s", cfg.RedisAddr)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	logger.Info().Str("addr", cfg.RedisAddr).Msg("using redis sync cooldown store")
	return syncer.NewRedisCooldownStore(client, cfg.Sync.ForceSyncCooldown), nil
}

func ProvideScheduler(
	users *repository.UserRepository,
	client *api.RoyaleClient,
	reconciler *ingest.Reconciler,
	cooldowns syncer.CooldownStore,
	cfg *config.Config,
	logger zerolog.Logger,
) *syncer.Scheduler {
	return syncer.NewScheduler(users, client, reconciler, cooldowns, syncer.OptionsFromConfig(cfg), logger)
}

func ProvideServer(
	users *service.UserService,
	stats *service.StatsService,
	invites *service.InviteService,
	feedback *service.FeedbackService,
	scheduler *syncer.Scheduler,
	logger zerolog.Logger,
) *server.Server {
	return server.NewServer(users, stats, invites, feedback, scheduler, logger)
}

var Module = fx.Options(
	config.Module,
	logger.Module,
	fx.Provide(database.New),
	fx.Invoke(database.Register),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewUserRepository),
	fx.Provide(repository.NewFriendshipRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewInviteRepository),
	fx.Provide(repository.NewFeedbackRepository),
	// api client
	fx.Provide(api.NewRoyaleClient),
	fx.Provide(ProvidePlayerLookup),
	// ingestion + sync
	fx.Provide(ProvideReconciler),
	fx.Provide(ProvideCooldownStore),
	fx.Provide(ProvideScheduler),
	// svc
	fx.Provide(service.NewCircleService),
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewUserService),
	fx.Provide(service.NewInviteService),
	fx.Provide(service.NewFeedbackService),
	// server
	fx.Provide(ProvideServer),
)
