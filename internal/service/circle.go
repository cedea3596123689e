package service

import (
	"context"

	"royale-rivals/internal/domain"
	"royale-rivals/internal/repository"

	"github.com/rs/zerolog"
)

type CircleService struct {
	users       *repository.UserRepository
	friendships *repository.FriendshipRepository
	logger      zerolog.Logger
}

func NewCircleService(users *repository.UserRepository, friendships *repository.FriendshipRepository, logger zerolog.Logger) *CircleService {
	return &CircleService{users: users, friendships: friendships, logger: logger}
}

// Members returns the user and their direct friends. Friends without a tag are included.
func (s *CircleService) Members(ctx context.Context, userID int64) (*domain.User, []domain.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	ids, err := s.friendships.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	friends, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return user, friends, nil
}

// ResolveCircle returns the linked tags of the user and their friends.
func (s *CircleService) ResolveCircle(ctx context.Context, userID int64) (domain.TagSet, error) {
	user, friends, err := s.Members(ctx, userID)
	if err != nil {
		return nil, err
	}
	tags := domain.NewTagSet(user.PlayerTag)
	for _, f := range friends {
		tags.Add(f.PlayerTag)
	}

	s.logger.Debug().
		Int64("user_id", userID).
		Int("friends", len(friends)).
		Int("tags", len(tags)).
		Msg("circle resolved")
	return tags, nil
}
