package db

import (
	"context"
	"time"
)

const createInvite = `-- name: CreateInvite :execlastid
INSERT INTO invites (token, creator_id, target_tag, max_uses, used_count, created_at)
VALUES (?, ?, ?, ?, 0, ?)
`

type CreateInviteParams struct {
	Token     string
	CreatorID int64
	TargetTag *string
	MaxUses   int64
	CreatedAt time.Time
}

func (q *Queries) CreateInvite(ctx context.Context, arg CreateInviteParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createInvite,
		arg.Token,
		arg.CreatorID,
		arg.TargetTag,
		arg.MaxUses,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getInviteByToken = `-- name: GetInviteByToken :one
SELECT id, token, creator_id, target_tag, max_uses, used_count, created_at
FROM invites
WHERE token = ?
`

func (q *Queries) GetInviteByToken(ctx context.Context, token string) (Invite, error) {
	row := q.db.QueryRowContext(ctx, getInviteByToken, token)
	var i Invite
	err := row.Scan(
		&i.ID,
		&i.Token,
		&i.CreatorID,
		&i.TargetTag,
		&i.MaxUses,
		&i.UsedCount,
		&i.CreatedAt,
	)
	return i, err
}

const incrementInviteUse = `-- name: IncrementInviteUse :execrows
UPDATE invites SET used_count = used_count + 1
WHERE token = ? AND used_count < max_uses
`

func (q *Queries) IncrementInviteUse(ctx context.Context, token string) (int64, error) {
	result, err := q.db.ExecContext(ctx, incrementInviteUse, token)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
