package repository

import (
	"context"
	"database/sql"
	"time"

	"royale-rivals/internal/constants"
	"royale-rivals/internal/db"
	"royale-rivals/internal/domain"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

type MatchRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func toMatch(m db.Match) domain.Match {
	return domain.Match{
		BattleID:   m.BattleID,
		Player1Tag: m.Player1Tag,
		Player2Tag: m.Player2Tag,
		WinnerTag:  m.WinnerTag,
		BattleTime: m.BattleTime.UTC(),
		GameMode:   m.GameMode,
		Crowns1:    int(m.Crowns1),
		Crowns2:    int(m.Crowns2),
		CreatedAt:  m.CreatedAt,
	}
}

func toMatches(rows []db.Match) []domain.Match {
	result := make([]domain.Match, len(rows))
	for i, m := range rows {
		result[i] = toMatch(m)
	}
	return result
}

// InsertIgnore merges matches in one transaction. Rows whose battle id is already
// stored are skipped; the returned count covers only new rows.
func (r *MatchRepository) InsertIgnore(ctx context.Context, matches []domain.Match) (int, error) {
	if len(matches) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now().UTC()

	var inserted int64
	for i := 0; i < len(matches); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(matches) {
			end = len(matches)
		}

		params := make([]db.InsertMatchParams, 0, end-i)
		for _, m := range matches[i:end] {
			params = append(params, db.InsertMatchParams{
				BattleID:   m.BattleID,
				Player1Tag: m.Player1Tag,
				Player2Tag: m.Player2Tag,
				WinnerTag:  m.WinnerTag,
				BattleTime: m.BattleTime.UTC(),
				GameMode:   m.GameMode,
				Crowns1:    int64(m.Crowns1),
				Crowns2:    int64(m.Crowns2),
				CreatedAt:  now,
			})
		}

		n, err := qtx.InsertMatchesIgnore(ctx, params)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to insert matches %d-%d", i, end)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit matches")
	}

	r.logger.Debug().
		Int("submitted", len(matches)).
		Int64("inserted", inserted).
		Msg("matches merged")
	return int(inserted), nil
}

// ListCircle returns matches with both participants in tags, newest first.
func (r *MatchRepository) ListCircle(ctx context.Context, tags []string, skip, limit int) ([]domain.Match, error) {
	rows, err := r.queries.ListCircleMatches(ctx, db.ListCircleMatchesParams{
		Tags:   tags,
		Limit:  int64(limit),
		Offset: int64(skip),
	})
	if err != nil {
		return nil, translate(err, "list circle matches")
	}
	return toMatches(rows), nil
}

// ListBetween returns every match between the two tags, in either seat order.
func (r *MatchRepository) ListBetween(ctx context.Context, tagA, tagB string) ([]domain.Match, error) {
	rows, err := r.queries.ListMatchesBetween(ctx, db.ListMatchesBetweenParams{TagA: tagA, TagB: tagB})
	if err != nil {
		return nil, translate(err, "list matches between")
	}
	return toMatches(rows), nil
}

// ListAgainst returns matches of tag against any of opponents.
func (r *MatchRepository) ListAgainst(ctx context.Context, tag string, opponents []string) ([]domain.Match, error) {
	rows, err := r.queries.ListMatchesAgainst(ctx, db.ListMatchesAgainstParams{Tag: tag, Opponents: opponents})
	if err != nil {
		return nil, translate(err, "list matches against")
	}
	return toMatches(rows), nil
}

func (r *MatchRepository) ListForTag(ctx context.Context, tag string, limit int) ([]domain.Match, error) {
	rows, err := r.queries.ListMatchesForTag(ctx, db.ListMatchesForTagParams{Tag: tag, Limit: int64(limit)})
	if err != nil {
		return nil, translate(err, "list matches for tag")
	}
	return toMatches(rows), nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	n, err := r.queries.CountMatches(ctx)
	if err != nil {
		return 0, translate(err, "count matches")
	}
	return int(n), nil
}
