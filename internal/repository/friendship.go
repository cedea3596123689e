package repository

import (
	"context"
	"database/sql"
	"time"

	"royale-rivals/internal/db"

	"github.com/rs/zerolog"
)

type FriendshipRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewFriendshipRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *FriendshipRepository {
	return &FriendshipRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Add stores the pair in canonical order. It reports false when the pair already existed.
func (r *FriendshipRepository) Add(ctx context.Context, userA, userB int64) (bool, error) {
	return addFriendship(ctx, r.queries, userA, userB)
}

func (r *FriendshipRepository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := r.queries.ListFriendIDs(ctx, userID)
	if err != nil {
		return nil, translate(err, "list friend ids")
	}
	return ids, nil
}

func addFriendship(ctx context.Context, q *db.Queries, userA, userB int64) (bool, error) {
	if userB < userA {
		userA, userB = userB, userA
	}
	n, err := q.InsertFriendship(ctx, db.InsertFriendshipParams{
		UserID1:   userA,
		UserID2:   userB,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return false, translate(err, "insert friendship")
	}
	return n > 0, nil
}
