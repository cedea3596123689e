package repository

import (
	"context"
	"database/sql"
	"time"

	"royale-rivals/internal/db"
	"royale-rivals/internal/domain"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

type InviteRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewInviteRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *InviteRepository {
	return &InviteRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func toInvite(i db.Invite) *domain.Invite {
	return &domain.Invite{
		ID:        i.ID,
		Token:     i.Token,
		CreatorID: i.CreatorID,
		TargetTag: deref(i.TargetTag),
		MaxUses:   int(i.MaxUses),
		UsedCount: int(i.UsedCount),
		CreatedAt: i.CreatedAt,
	}
}

func (r *InviteRepository) Create(ctx context.Context, invite domain.Invite) (*domain.Invite, error) {
	_, err := r.queries.CreateInvite(ctx, db.CreateInviteParams{
		Token:     invite.Token,
		CreatorID: invite.CreatorID,
		TargetTag: optional(invite.TargetTag),
		MaxUses:   int64(invite.MaxUses),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, translate(err, "create invite")
	}
	return r.GetByToken(ctx, invite.Token)
}

func (r *InviteRepository) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	i, err := r.queries.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, translate(err, "get invite")
	}
	return toInvite(i), nil
}

// Redeem consumes one use of the invite and befriends creator and redeemer in
// the same transaction. An exhausted invite yields domain.ErrConflict.
func (r *InviteRepository) Redeem(ctx context.Context, token string, creatorID, redeemerID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	n, err := qtx.IncrementInviteUse(ctx, token)
	if err != nil {
		return false, translate(err, "increment invite use")
	}
	if n == 0 {
		return false, errors.Mark(errors.Newf("invite %s has no uses left", token), domain.ErrConflict)
	}

	created, err := addFriendship(ctx, qtx, creatorID, redeemerID)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, errors.Wrap(err, "failed to commit invite redemption")
	}
	return created, nil
}
