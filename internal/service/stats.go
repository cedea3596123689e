package service

import (
	"context"

	"royale-rivals/internal/battle"
	"royale-rivals/internal/constants"
	"royale-rivals/internal/domain"
	"royale-rivals/internal/repository"
	"royale-rivals/internal/stats"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type StatsService struct {
	circle  *CircleService
	users   *repository.UserRepository
	matches *repository.MatchRepository
	logger  zerolog.Logger
}

func NewStatsService(circle *CircleService, users *repository.UserRepository, matches *repository.MatchRepository, logger zerolog.Logger) *StatsService {
	return &StatsService{circle: circle, users: users, matches: matches, logger: logger}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return constants.DefaultFeedLimit
	}
	return min(limit, constants.MaxFeedLimit)
}

// GetFeed lists matches played between members of the user's circle, newest first.
func (s *StatsService) GetFeed(ctx context.Context, userID int64, skip, limit int) ([]domain.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	tags, err := s.circle.ResolveCircle(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tags.Degenerate() {
		return []domain.Match{}, nil
	}
	return s.matches.ListCircle(ctx, tags.Sorted(), max(skip, 0), clampLimit(limit))
}

func (s *StatsService) GetLeaderboard(ctx context.Context, userID int64) (domain.Leaderboard, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	user, members, err := s.circle.Members(ctx, userID)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	if !user.HasTag() {
		return domain.EmptyLeaderboard(), nil
	}

	friends := make([]stats.Friend, 0, len(members))
	opponents := make([]string, 0, len(members))
	for _, m := range members {
		if !m.HasTag() {
			continue
		}
		friends = append(friends, stats.Friend{UserID: m.ID, Username: m.Username, Tag: m.PlayerTag})
		opponents = append(opponents, m.PlayerTag)
	}
	if len(friends) == 0 {
		return domain.EmptyLeaderboard(), nil
	}

	matches, err := s.matches.ListAgainst(ctx, user.PlayerTag, opponents)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return stats.Leaderboard(user.PlayerTag, friends, matches), nil
}

// GetH2H compares the user with friendID. Either side lacking a tag gives the empty result.
func (s *StatsService) GetH2H(ctx context.Context, userID, friendID int64) (domain.HeadToHead, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	var user, friend *domain.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.users.Get(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		friend, err = s.users.Get(gctx, friendID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.HeadToHead{}, err
	}

	if !user.HasTag() || !friend.HasTag() {
		return domain.EmptyHeadToHead(), nil
	}

	matches, err := s.matches.ListBetween(ctx, user.PlayerTag, friend.PlayerTag)
	if err != nil {
		return domain.HeadToHead{}, err
	}
	return stats.HeadToHead(user.PlayerTag, friend.PlayerTag, matches), nil
}

func (s *StatsService) GetPlayerMatches(ctx context.Context, tag string, limit int) ([]domain.Match, error) {
	canonical := battle.CanonicalTag(tag)
	if canonical == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "empty player tag")
	}
	if limit <= 0 {
		limit = constants.PlayerMatchesLimit
	}
	return s.matches.ListForTag(ctx, canonical, min(limit, constants.MaxFeedLimit))
}
