package main

import (
	"context"
	"fmt"
	"net/http"

	"royale-rivals/internal/config"
	"royale-rivals/internal/constants"
	fxmodules "royale-rivals/internal/fx"
	"royale-rivals/internal/server"
	"royale-rivals/internal/syncer"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runScheduler),
		fx.Invoke(runServer),
	).Run()
}

func runScheduler(
	lc fx.Lifecycle,
	scheduler *syncer.Scheduler,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	if !cfg.Sync.Enabled {
		logger.Info().Msg("background sync disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				scheduler.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			logger.Info().Msg("stopping sync scheduler")
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func runServer(
	lc fx.Lifecycle,
	srv *server.Server,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: srv,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", httpSrv.Addr).Msg("server starting")
				if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
