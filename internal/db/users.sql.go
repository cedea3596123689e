package db

import (
	"context"
	"strings"
	"time"
)

const userColumns = `id, username, email, player_tag, display_name, trophies, clan_name, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.PlayerTag,
		&i.DisplayName,
		&i.Trophies,
		&i.ClanName,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :execlastid
INSERT INTO users (username, email, player_tag, display_name, trophies, clan_name, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateUserParams struct {
	Username    string
	Email       *string
	PlayerTag   *string
	DisplayName string
	Trophies    int64
	ClanName    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createUser,
		arg.Username,
		arg.Email,
		arg.PlayerTag,
		arg.DisplayName,
		arg.Trophies,
		arg.ClanName,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getUser = `-- name: GetUser :one
SELECT ` + userColumns + ` FROM users WHERE id = ?
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUser, id))
}

const getUserByTag = `-- name: GetUserByTag :one
SELECT ` + userColumns + ` FROM users WHERE player_tag = ?
`

func (q *Queries) GetUserByTag(ctx context.Context, playerTag string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByTag, playerTag))
}

const listUsersByIDs = `-- name: ListUsersByIDs :many
SELECT ` + userColumns + ` FROM users WHERE id IN (/*SLICE:ids*/?) ORDER BY id
`

func (q *Queries) ListUsersByIDs(ctx context.Context, ids []int64) ([]User, error) {
	if len(ids) == 0 {
		return []User{}, nil
	}
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := strings.Replace(listUsersByIDs, "/*SLICE:ids*/?", placeholders(len(ids)), 1)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []User{}
	for rows.Next() {
		i, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTrackedTags = `-- name: ListTrackedTags :many
SELECT player_tag FROM users WHERE player_tag IS NOT NULL ORDER BY id
`

func (q *Queries) ListTrackedTags(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listTrackedTags)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		items = append(items, tag)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateUserTag = `-- name: UpdateUserTag :execrows
UPDATE users
SET player_tag = ?, display_name = ?, trophies = ?, clan_name = ?, updated_at = ?
WHERE id = ?
`

type UpdateUserTagParams struct {
	PlayerTag   *string
	DisplayName string
	Trophies    int64
	ClanName    *string
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdateUserTag(ctx context.Context, arg UpdateUserTagParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateUserTag,
		arg.PlayerTag,
		arg.DisplayName,
		arg.Trophies,
		arg.ClanName,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateUserProfile = `-- name: UpdateUserProfile :execrows
UPDATE users
SET display_name = ?, trophies = ?, clan_name = ?, updated_at = ?
WHERE id = ?
`

type UpdateUserProfileParams struct {
	DisplayName string
	Trophies    int64
	ClanName    *string
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateUserProfile,
		arg.DisplayName,
		arg.Trophies,
		arg.ClanName,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
