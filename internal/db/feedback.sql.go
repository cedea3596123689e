package db

import (
	"context"
	"time"
)

const createFeedback = `-- name: CreateFeedback :execlastid
INSERT INTO feedback (user_id, feedback_type, title, description, created_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateFeedbackParams struct {
	UserID       int64
	FeedbackType string
	Title        string
	Description  string
	CreatedAt    time.Time
}

func (q *Queries) CreateFeedback(ctx context.Context, arg CreateFeedbackParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createFeedback,
		arg.UserID,
		arg.FeedbackType,
		arg.Title,
		arg.Description,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getFeedback = `-- name: GetFeedback :one
SELECT id, user_id, feedback_type, title, description, created_at
FROM feedback
WHERE id = ?
`

func (q *Queries) GetFeedback(ctx context.Context, id int64) (Feedback, error) {
	row := q.db.QueryRowContext(ctx, getFeedback, id)
	var i Feedback
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.FeedbackType,
		&i.Title,
		&i.Description,
		&i.CreatedAt,
	)
	return i, err
}
