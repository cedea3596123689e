package db

import (
	"context"
	"strings"
	"time"
)

const matchColumns = `id, battle_id, player_1_tag, player_2_tag, winner_tag, battle_time, game_mode, crowns_1, crowns_2, created_at`

const insertMatchesIgnore = `-- name: InsertMatchesIgnore :execrows
INSERT INTO matches (battle_id, player_1_tag, player_2_tag, winner_tag, battle_time, game_mode, crowns_1, crowns_2, created_at)
VALUES /*VALUES*/
ON CONFLICT (battle_id) DO NOTHING
`

const matchValueRow = "(?, ?, ?, ?, ?, ?, ?, ?, ?)"

type InsertMatchParams struct {
	BattleID   string
	Player1Tag string
	Player2Tag string
	WinnerTag  *string
	BattleTime time.Time
	GameMode   string
	Crowns1    int64
	Crowns2    int64
	CreatedAt  time.Time
}

// InsertMatchesIgnore writes all rows in one statement and reports how many were new.
func (q *Queries) InsertMatchesIgnore(ctx context.Context, arg []InsertMatchParams) (int64, error) {
	if len(arg) == 0 {
		return 0, nil
	}
	values := make([]string, len(arg))
	args := make([]interface{}, 0, len(arg)*9)
	for i, m := range arg {
		values[i] = matchValueRow
		args = append(args,
			m.BattleID,
			m.Player1Tag,
			m.Player2Tag,
			m.WinnerTag,
			m.BattleTime,
			m.GameMode,
			m.Crowns1,
			m.Crowns2,
			m.CreatedAt,
		)
	}
	query := strings.Replace(insertMatchesIgnore, "/*VALUES*/", strings.Join(values, ", "), 1)

	result, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listCircleMatches = `-- name: ListCircleMatches :many
SELECT ` + matchColumns + `
FROM matches
WHERE player_1_tag IN (/*SLICE:tags*/?) AND player_2_tag IN (/*SLICE:tags*/?)
ORDER BY battle_time DESC, id DESC
LIMIT ? OFFSET ?
`

type ListCircleMatchesParams struct {
	Tags   []string
	Limit  int64
	Offset int64
}

func (q *Queries) ListCircleMatches(ctx context.Context, arg ListCircleMatchesParams) ([]Match, error) {
	if len(arg.Tags) == 0 {
		return []Match{}, nil
	}
	args := make([]interface{}, 0, len(arg.Tags)*2+2)
	for range 2 {
		for _, t := range arg.Tags {
			args = append(args, t)
		}
	}
	args = append(args, arg.Limit, arg.Offset)
	query := strings.ReplaceAll(listCircleMatches, "/*SLICE:tags*/?", placeholders(len(arg.Tags)))
	return q.listMatches(ctx, query, args...)
}

const listMatchesBetween = `-- name: ListMatchesBetween :many
SELECT ` + matchColumns + `
FROM matches
WHERE (player_1_tag = ? AND player_2_tag = ?) OR (player_1_tag = ? AND player_2_tag = ?)
ORDER BY battle_time DESC, id DESC
`

type ListMatchesBetweenParams struct {
	TagA string
	TagB string
}

func (q *Queries) ListMatchesBetween(ctx context.Context, arg ListMatchesBetweenParams) ([]Match, error) {
	return q.listMatches(ctx, listMatchesBetween, arg.TagA, arg.TagB, arg.TagB, arg.TagA)
}

const listMatchesAgainst = `-- name: ListMatchesAgainst :many
SELECT ` + matchColumns + `
FROM matches
WHERE (player_1_tag = ? AND player_2_tag IN (/*SLICE:opponents*/?))
   OR (player_2_tag = ? AND player_1_tag IN (/*SLICE:opponents*/?))
ORDER BY battle_time DESC, id DESC
`

type ListMatchesAgainstParams struct {
	Tag       string
	Opponents []string
}

func (q *Queries) ListMatchesAgainst(ctx context.Context, arg ListMatchesAgainstParams) ([]Match, error) {
	if len(arg.Opponents) == 0 {
		return []Match{}, nil
	}
	args := make([]interface{}, 0, len(arg.Opponents)*2+2)
	for range 2 {
		args = append(args, arg.Tag)
		for _, t := range arg.Opponents {
			args = append(args, t)
		}
	}
	query := strings.ReplaceAll(listMatchesAgainst, "/*SLICE:opponents*/?", placeholders(len(arg.Opponents)))
	return q.listMatches(ctx, query, args...)
}

const listMatchesForTag = `-- name: ListMatchesForTag :many
SELECT ` + matchColumns + `
FROM matches
WHERE player_1_tag = ? OR player_2_tag = ?
ORDER BY battle_time DESC, id DESC
LIMIT ?
`

type ListMatchesForTagParams struct {
	Tag   string
	Limit int64
}

func (q *Queries) ListMatchesForTag(ctx context.Context, arg ListMatchesForTagParams) ([]Match, error) {
	return q.listMatches(ctx, listMatchesForTag, arg.Tag, arg.Tag, arg.Limit)
}

const countMatches = `-- name: CountMatches :one
SELECT COUNT(*) FROM matches
`

func (q *Queries) CountMatches(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countMatches)
	var count int64
	err := row.Scan(&count)
	return count, err
}

func (q *Queries) listMatches(ctx context.Context, query string, args ...interface{}) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Match{}
	for rows.Next() {
		var i Match
		if err := rows.Scan(
			&i.ID,
			&i.BattleID,
			&i.Player1Tag,
			&i.Player2Tag,
			&i.WinnerTag,
			&i.BattleTime,
			&i.GameMode,
			&i.Crowns1,
			&i.Crowns2,
			&i.CreatedAt,
		); err != nil {
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
