package repository

import (
	"context"
	"database/sql"
	"time"

	"royale-rivals/internal/db"
	"royale-rivals/internal/domain"

	"github.com/rs/zerolog"
)

type FeedbackRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewFeedbackRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *FeedbackRepository {
	return &FeedbackRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *FeedbackRepository) Create(ctx context.Context, f domain.Feedback) (*domain.Feedback, error) {
	id, err := r.queries.CreateFeedback(ctx, db.CreateFeedbackParams{
		UserID:       f.UserID,
		FeedbackType: f.Type,
		Title:        f.Title,
		Description:  f.Description,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, translate(err, "create feedback")
	}

	row, err := r.queries.GetFeedback(ctx, id)
	if err != nil {
		return nil, translate(err, "get feedback")
	}
	return &domain.Feedback{
		ID:          row.ID,
		UserID:      row.UserID,
		Type:        row.FeedbackType,
		Title:       row.Title,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
	}, nil
}
