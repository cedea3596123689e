package service

import (
	"context"

	"royale-rivals/internal/battle"
	"royale-rivals/internal/constants"
	"royale-rivals/internal/domain"
	"royale-rivals/internal/repository"

	"github.com/cockroachdb/errors"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type InviteService struct {
	invites *repository.InviteRepository
	users   *repository.UserRepository
	logger  zerolog.Logger
}

func NewInviteService(invites *repository.InviteRepository, users *repository.UserRepository, logger zerolog.Logger) *InviteService {
	return &InviteService{invites: invites, users: users, logger: logger}
}

type RedeemResult struct {
	Invite      *domain.Invite
	FriendAdded bool
}

// Create issues a single-use invite from creatorID. A non-empty targetTag
// reserves the invite for the account linked to that tag.
func (s *InviteService) Create(ctx context.Context, creatorID int64, targetTag string) (*domain.Invite, error) {
	if _, err := s.users.Get(ctx, creatorID); err != nil {
		return nil, err
	}

	token, err := gonanoid.New(constants.InviteTokenLength)
	if err != nil {
		return nil, errors.Wrap(err, "generate invite token")
	}

	invite, err := s.invites.Create(ctx, domain.Invite{
		Token:     token,
		CreatorID: creatorID,
		TargetTag: battle.CanonicalTag(targetTag),
		MaxUses:   constants.DefaultInviteUses,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("creator_id", creatorID).Msg("invite created")
	return invite, nil
}

func (s *InviteService) Get(ctx context.Context, token string) (*domain.Invite, error) {
	return s.invites.GetByToken(ctx, token)
}

// Redeem spends one use of the invite and befriends its creator with userID.
func (s *InviteService) Redeem(ctx context.Context, token string, userID int64) (*RedeemResult, error) {
	invite, err := s.invites.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	redeemer, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if invite.CreatorID == userID {
		return nil, errors.Wrap(domain.ErrInvalidInput, "cannot redeem own invite")
	}
	if invite.TargetTag != "" && invite.TargetTag != redeemer.PlayerTag {
		return nil, errors.Wrapf(domain.ErrInvalidInput, "invite is reserved for %s", invite.TargetTag)
	}
	if invite.Exhausted() {
		return nil, errors.Wrap(domain.ErrConflict, "invite has no uses left")
	}

	added, err := s.invites.Redeem(ctx, token, invite.CreatorID, userID)
	if err != nil {
		return nil, err
	}

	invite, err = s.invites.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int64("creator_id", invite.CreatorID).
		Int64("user_id", userID).
		Bool("friend_added", added).
		Msg("invite redeemed")
	return &RedeemResult{Invite: invite, FriendAdded: added}, nil
}
