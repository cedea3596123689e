// Package syncer keeps stored matches fresh: a supervised background loop over
// every tracked player, plus on-demand sync of a single tag.
package syncer

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"royale-rivals/internal/api"
	"royale-rivals/internal/battle"
	"royale-rivals/internal/config"
	"royale-rivals/internal/constants"
	"royale-rivals/internal/domain"
	"royale-rivals/internal/ingest"
	"royale-rivals/internal/metrics"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/panics"
)

type State int32

const (
	StateIdle State = iota
	StateFetching
	StateThrottling
	StateSleeping
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateThrottling:
		return "throttling"
	case StateSleeping:
		return "sleeping"
	}
	return "idle"
}

type PlayerStore interface {
	ListTrackedTags(ctx context.Context) ([]string, error)
	GetByTag(ctx context.Context, tag string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, profile domain.Profile) error
}

type Upstream interface {
	GetBattleLog(ctx context.Context, tag string) ([]json.RawMessage, error)
	GetPlayer(ctx context.Context, tag string) (*api.PlayerResponse, error)
}

type BatchReconciler interface {
	Reconcile(ctx context.Context, raw []json.RawMessage, known domain.TagSet) (ingest.Report, error)
}

type Options struct {
	InitialDelay   time.Duration
	Interval       time.Duration
	PlayerDelay    time.Duration
	Cooldown       time.Duration
	RestartBackoff time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		InitialDelay:   cfg.Sync.InitialDelay,
		Interval:       cfg.Sync.Interval,
		PlayerDelay:    cfg.Sync.PlayerDelay,
		Cooldown:       cfg.Sync.ForceSyncCooldown,
		RestartBackoff: constants.SupervisorBackoff,
	}
}

type CycleReport struct {
	Players  int
	Synced   int
	Failed   int
	Inserted int
	Err      error // setup failure; no player was attempted
}

type ForceSyncResult struct {
	Inserted   int
	Synced     bool
	RetryAfter time.Duration
}

type Scheduler struct {
	players    PlayerStore
	upstream   Upstream
	reconciler BatchReconciler
	cooldowns  CooldownStore
	opts       Options
	logger     zerolog.Logger

	state atomic.Int32
	// serialises cooldown check-and-record
	mu sync.Mutex

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func NewScheduler(
	players PlayerStore,
	upstream Upstream,
	reconciler BatchReconciler,
	cooldowns CooldownStore,
	opts Options,
	logger zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		players:    players,
		upstream:   upstream,
		reconciler: reconciler,
		cooldowns:  cooldowns,
		opts:       opts,
		logger:     logger.With().Str("component", "scheduler").Logger(),
		sleep:      sleepCtx,
		now:        time.Now,
	}
}

func (s *Scheduler) State() State {
	return State(s.state.Load())
}

func (s *Scheduler) setState(st State) {
	s.state.Store(int32(st))
	metrics.SchedulerState.Set(float64(st))
}

// Run supervises the sync loop until ctx is done. A panic escaping the loop is
// logged and the loop is restarted after a backoff.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info().
		Dur("initial_delay", s.opts.InitialDelay).
		Dur("interval", s.opts.Interval).
		Dur("player_delay", s.opts.PlayerDelay).
		Msg("scheduler started")
	defer s.setState(StateIdle)

	for {
		var pc panics.Catcher
		pc.Try(func() { s.loop(ctx) })

		if ctx.Err() != nil {
			s.logger.Info().Msg("scheduler stopped")
			return
		}
		if r := pc.Recovered(); r != nil {
			metrics.SchedulerRestartsTotal.Inc()
			s.logger.Error().
				Interface("panic", r.Value).
				Bytes("stack", r.Stack).
				Dur("backoff", s.opts.RestartBackoff).
				Msg("scheduler loop crashed, restarting")
		}
		if err := s.sleep(ctx, s.opts.RestartBackoff); err != nil {
			s.logger.Info().Msg("scheduler stopped")
			return
		}
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	s.setState(StateSleeping)
	if err := s.sleep(ctx, s.opts.InitialDelay); err != nil {
		return
	}
	for {
		report := s.RunCycle(ctx)
		if ctx.Err() != nil {
			return
		}
		s.logger.Info().
			Int("players", report.Players).
			Int("synced", report.Synced).
			Int("failed", report.Failed).
			Int("inserted", report.Inserted).
			Msg("sync cycle finished")

		s.setState(StateSleeping)
		if err := s.sleep(ctx, s.opts.Interval); err != nil {
			return
		}
	}
}

// RunCycle syncs every tracked player once, throttling between upstream calls.
// One player's failure never stops the rest.
func (s *Scheduler) RunCycle(ctx context.Context) CycleReport {
	s.setState(StateFetching)
	defer s.setState(StateIdle)

	tags, err := s.players.ListTrackedTags(ctx)
	if err != nil {
		metrics.SyncCycleFailuresTotal.Inc()
		s.logger.Error().Err(err).Msg("failed to load tracked players")
		return CycleReport{Err: err}
	}

	report := CycleReport{Players: len(tags)}
	known := domain.NewTagSet(tags...)

	for i, tag := range tags {
		if ctx.Err() != nil {
			break
		}
		s.setState(StateFetching)

		var (
			inserted int
			ok       bool
			pc       panics.Catcher
		)
		pc.Try(func() { inserted, ok = s.syncPlayer(ctx, tag, known) })
		if r := pc.Recovered(); r != nil {
			metrics.SyncPlayerErrorsTotal.WithLabelValues("panic").Inc()
			s.logger.Error().
				Str("tag", tag).
				Interface("panic", r.Value).
				Msg("player sync panicked")
			ok = false
		}

		if ok {
			report.Synced++
			report.Inserted += inserted
		} else {
			report.Failed++
		}

		if i < len(tags)-1 {
			s.setState(StateThrottling)
			if err := s.sleep(ctx, s.opts.PlayerDelay); err != nil {
				break
			}
		}
	}

	metrics.SyncCyclesTotal.Inc()
	return report
}

// syncPlayer fetches and reconciles one battle log. Failures are logged and
// reported as false, never returned.
func (s *Scheduler) syncPlayer(ctx context.Context, tag string, known domain.TagSet) (int, bool) {
	raw, err := s.upstream.GetBattleLog(ctx, tag)
	switch {
	case errors.Is(err, api.ErrRateLimited):
		metrics.SyncPlayerErrorsTotal.WithLabelValues("rate_limited").Inc()
		s.logger.Warn().Str("tag", tag).Msg("rate limited, skipping player this cycle")
		return 0, false
	case errors.Is(err, api.ErrNotFound):
		metrics.SyncPlayerErrorsTotal.WithLabelValues("not_found").Inc()
		s.logger.Warn().Str("tag", tag).Msg("player unknown upstream")
		return 0, false
	case err != nil:
		metrics.SyncPlayerErrorsTotal.WithLabelValues("upstream").Inc()
		s.logger.Error().Err(err).Str("tag", tag).Msg("failed to fetch battle log")
		return 0, false
	}

	report, err := s.reconciler.Reconcile(ctx, raw, known)
	if err != nil {
		metrics.SyncPlayerErrorsTotal.WithLabelValues("storage").Inc()
		s.logger.Error().Err(err).Str("tag", tag).Msg("failed to reconcile battle log")
		return 0, false
	}

	s.logger.Debug().
		Str("tag", tag).
		Int("received", report.Received).
		Int("malformed", report.Malformed).
		Int("irrelevant", report.Irrelevant).
		Int("inserted", report.Inserted).
		Msg("player synced")
	return report.Inserted, true
}

// ForceSync syncs one tracked tag now. Calls for the same tag within the
// cooldown window fail with domain.ErrSyncCooldown and a RetryAfter hint.
func (s *Scheduler) ForceSync(ctx context.Context, tag string) (ForceSyncResult, error) {
	canonical := battle.CanonicalTag(tag)
	if canonical == "" {
		return ForceSyncResult{}, errors.Wrap(domain.ErrInvalidInput, "empty player tag")
	}

	user, err := s.players.GetByTag(ctx, canonical)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.ForceSyncsTotal.WithLabelValues("not_found").Inc()
			return ForceSyncResult{}, errors.Wrapf(domain.ErrNotFound, "tag %s is not tracked", canonical)
		}
		return ForceSyncResult{}, errors.Wrap(err, "look up tracked player")
	}

	if retry, err := s.claimCooldown(ctx, canonical); err != nil {
		return ForceSyncResult{RetryAfter: retry}, err
	}

	if p, err := s.upstream.GetPlayer(ctx, canonical); err != nil {
		s.logger.Warn().Err(err).Str("tag", canonical).Msg("profile refresh failed")
	} else if err := s.players.UpdateProfile(ctx, user.ID, p.Profile()); err != nil {
		s.logger.Warn().Err(err).Str("tag", canonical).Msg("failed to store refreshed profile")
	}

	known := domain.NewTagSet(canonical)
	if tags, err := s.players.ListTrackedTags(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to load tracked players, syncing against own tag only")
	} else {
		for _, t := range tags {
			known.Add(t)
		}
	}

	inserted, ok := s.syncPlayer(ctx, canonical, known)
	if ok {
		metrics.ForceSyncsTotal.WithLabelValues("synced").Inc()
	} else {
		metrics.ForceSyncsTotal.WithLabelValues("failed").Inc()
	}
	return ForceSyncResult{Inserted: inserted, Synced: ok}, nil
}

// claimCooldown records now for key unless the previous record is still inside
// the window, in which case it returns the time left.
func (s *Scheduler) claimCooldown(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	last, ok, err := s.cooldowns.Get(ctx, key)
	if err != nil {
		return 0, errors.Wrap(err, "check cooldown")
	}
	if ok {
		if elapsed := now.Sub(last); elapsed < s.opts.Cooldown {
			metrics.ForceSyncsTotal.WithLabelValues("cooldown").Inc()
			retry := s.opts.Cooldown - elapsed
			return retry, errors.Wrapf(domain.ErrSyncCooldown, "retry in %s", retry.Round(time.Second))
		}
	}
	if err := s.cooldowns.Set(ctx, key, now); err != nil {
		return 0, errors.Wrap(err, "record cooldown")
	}
	return 0, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
