package repository

import (
	"context"
	"database/sql"
	"time"

	"royale-rivals/internal/db"
	"royale-rivals/internal/domain"

	"github.com/rs/zerolog"
)

type UserRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewUserRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *UserRepository {
	return &UserRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func toUser(u db.User) *domain.User {
	return &domain.User{
		ID:          u.ID,
		Username:    u.Username,
		Email:       deref(u.Email),
		PlayerTag:   deref(u.PlayerTag),
		DisplayName: u.DisplayName,
		Trophies:    int(u.Trophies),
		ClanName:    deref(u.ClanName),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, username, email string) (*domain.User, error) {
	now := time.Now().UTC()
	id, err := r.queries.CreateUser(ctx, db.CreateUserParams{
		Username:    username,
		Email:       optional(email),
		DisplayName: username,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, translate(err, "create user")
	}
	return r.Get(ctx, id)
}

// CreateTracked stores an account that exists only to have its tag synced.
func (r *UserRepository) CreateTracked(ctx context.Context, tag string, profile domain.Profile) (*domain.User, error) {
	now := time.Now().UTC()
	id, err := r.queries.CreateUser(ctx, db.CreateUserParams{
		Username:    profile.Name,
		PlayerTag:   optional(tag),
		DisplayName: profile.Name,
		Trophies:    int64(profile.Trophies),
		ClanName:    optional(profile.ClanName),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, translate(err, "create tracked user")
	}
	r.logger.Debug().Str("tag", tag).Int64("user_id", id).Msg("tracked user created")
	return r.Get(ctx, id)
}

func (r *UserRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := r.queries.GetUser(ctx, id)
	if err != nil {
		return nil, translate(err, "get user")
	}
	return toUser(u), nil
}

func (r *UserRepository) GetByTag(ctx context.Context, tag string) (*domain.User, error) {
	u, err := r.queries.GetUserByTag(ctx, tag)
	if err != nil {
		return nil, translate(err, "get user by tag")
	}
	return toUser(u), nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	rows, err := r.queries.ListUsersByIDs(ctx, ids)
	if err != nil {
		return nil, translate(err, "list users")
	}
	result := make([]domain.User, len(rows))
	for i, u := range rows {
		result[i] = *toUser(u)
	}
	return result, nil
}

func (r *UserRepository) ListTrackedTags(ctx context.Context) ([]string, error) {
	tags, err := r.queries.ListTrackedTags(ctx)
	if err != nil {
		return nil, translate(err, "list tracked tags")
	}
	return tags, nil
}

// LinkTag attaches a canonical tag and its profile to the account.
func (r *UserRepository) LinkTag(ctx context.Context, userID int64, tag string, profile domain.Profile) error {
	n, err := r.queries.UpdateUserTag(ctx, db.UpdateUserTagParams{
		PlayerTag:   optional(tag),
		DisplayName: profile.Name,
		Trophies:    int64(profile.Trophies),
		ClanName:    optional(profile.ClanName),
		UpdatedAt:   time.Now().UTC(),
		ID:          userID,
	})
	if err != nil {
		return translate(err, "link tag")
	}
	if n == 0 {
		return translate(sql.ErrNoRows, "link tag")
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, profile domain.Profile) error {
	n, err := r.queries.UpdateUserProfile(ctx, db.UpdateUserProfileParams{
		DisplayName: profile.Name,
		Trophies:    int64(profile.Trophies),
		ClanName:    optional(profile.ClanName),
		UpdatedAt:   time.Now().UTC(),
		ID:          userID,
	})
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to update profile")
		return translate(err, "update profile")
	}
	if n == 0 {
		return translate(sql.ErrNoRows, "update profile")
	}
	return nil
}
