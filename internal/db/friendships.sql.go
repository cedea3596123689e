package db

import (
	"context"
	"time"
)

const insertFriendship = `-- name: InsertFriendship :execrows
INSERT INTO friendships (user_id_1, user_id_2, created_at)
VALUES (?, ?, ?)
ON CONFLICT (user_id_1, user_id_2) DO NOTHING
`

type InsertFriendshipParams struct {
	UserID1   int64
	UserID2   int64
	CreatedAt time.Time
}

func (q *Queries) InsertFriendship(ctx context.Context, arg InsertFriendshipParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertFriendship, arg.UserID1, arg.UserID2, arg.CreatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listFriendIDs = `-- name: ListFriendIDs :many
SELECT CASE WHEN user_id_1 = ? THEN user_id_2 ELSE user_id_1 END AS friend_id
FROM friendships
WHERE user_id_1 = ? OR user_id_2 = ?
ORDER BY created_at, id
`

func (q *Queries) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listFriendIDs, userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []int64{}
	for rows.Next() {
		var friendID int64
		if err := rows.Scan(&friendID); err != nil {
			return nil, err
		}
		items = append(items, friendID)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
