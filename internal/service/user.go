package service

import (
	"context"

	"royale-rivals/internal/api"
	"royale-rivals/internal/battle"
	"royale-rivals/internal/constants"
	"royale-rivals/internal/domain"
	"royale-rivals/internal/repository"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// PlayerLookup fetches a player profile upstream.
type PlayerLookup interface {
	GetPlayer(ctx context.Context, tag string) (*api.PlayerResponse, error)
}

type UserService struct {
	users       *repository.UserRepository
	friendships *repository.FriendshipRepository
	upstream    PlayerLookup
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewUserService(users *repository.UserRepository, friendships *repository.FriendshipRepository, upstream PlayerLookup, logger zerolog.Logger) *UserService {
	return &UserService{
		users:       users,
		friendships: friendships,
		upstream:    upstream,
		validate:    validator.New(),
		logger:      logger,
	}
}

type CreateUserInput struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func invalid(err error, what string) error {
	return errors.Mark(errors.Wrap(err, what), domain.ErrInvalidInput)
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err, "invalid user")
	}
	user, err := s.users.Create(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user created")
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

// fetchProfile asks upstream for tag, mapping an unknown player to domain.ErrNotFound.
func (s *UserService) fetchProfile(ctx context.Context, tag string) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	p, err := s.upstream.GetPlayer(ctx, tag)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return domain.Profile{}, errors.Wrapf(domain.ErrNotFound, "player %s", tag)
		}
		return domain.Profile{}, errors.Wrapf(err, "fetch profile %s", tag)
	}
	return p.Profile(), nil
}

// LinkTag verifies tag upstream and attaches it to the account. A tag already
// owned by another account is a conflict.
func (s *UserService) LinkTag(ctx context.Context, userID int64, tag string) (*domain.User, error) {
	canonical := battle.CanonicalTag(tag)
	if canonical == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "empty player tag")
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	owner, err := s.users.GetByTag(ctx, canonical)
	switch {
	case err == nil && owner.ID != userID:
		return nil, errors.Wrapf(domain.ErrConflict, "tag %s is linked to another account", canonical)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	profile, err := s.fetchProfile(ctx, canonical)
	if err != nil {
		return nil, err
	}
	if err := s.users.LinkTag(ctx, userID, canonical, profile); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", userID).Str("tag", canonical).Msg("tag linked")
	return s.users.Get(ctx, userID)
}

// DiscoverPlayer returns the account tracking tag, creating a tracked account
// from the upstream profile when none exists yet.
func (s *UserService) DiscoverPlayer(ctx context.Context, tag string) (*domain.User, error) {
	canonical := battle.CanonicalTag(tag)
	if canonical == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "empty player tag")
	}

	user, err := s.users.GetByTag(ctx, canonical)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	s.logger.Debug().Str("tag", canonical).Msg("player not found in database, fetching from API")
	profile, err := s.fetchProfile(ctx, canonical)
	if err != nil {
		return nil, err
	}

	user, err = s.users.CreateTracked(ctx, canonical, profile)
	if errors.Is(err, domain.ErrConflict) {
		// lost a race with a concurrent discover
		return s.users.GetByTag(ctx, canonical)
	}
	return user, err
}

// AddFriend links two accounts. It reports false when they were already friends.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) (bool, error) {
	if userID == friendID {
		return false, errors.Wrap(domain.ErrInvalidInput, "cannot add self")
	}
	for _, id := range []int64{userID, friendID} {
		if _, err := s.users.Get(ctx, id); err != nil {
			return false, err
		}
	}
	return s.friendships.Add(ctx, userID, friendID)
}

func (s *UserService) ListFriends(ctx context.Context, userID int64) ([]domain.User, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.friendships.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.users.ListByIDs(ctx, ids)
}
