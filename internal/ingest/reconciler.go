// Package ingest turns raw upstream battle records into stored matches.
package ingest

import (
	"context"
	"encoding/json"
	"time"

	"royale-rivals/internal/api"
	"royale-rivals/internal/battle"
	"royale-rivals/internal/domain"
	"royale-rivals/internal/metrics"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

const unknownMode = "Unknown"

type MatchWriter interface {
	InsertIgnore(ctx context.Context, matches []domain.Match) (int, error)
}

type Report struct {
	Received   int
	Malformed  int
	Irrelevant int
	Inserted   int
}

type Reconciler struct {
	writer MatchWriter
	logger zerolog.Logger
}

func NewReconciler(writer MatchWriter, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		writer: writer,
		logger: logger.With().Str("component", "reconciler").Logger(),
	}
}

// Reconcile keeps the records that involve at least one known tag and merges
// them in a single insert-ignore batch. A bad record never aborts the batch.
func (r *Reconciler) Reconcile(ctx context.Context, raw []json.RawMessage, known domain.TagSet) (Report, error) {
	report := Report{Received: len(raw)}
	metrics.BattlesReceivedTotal.Add(float64(len(raw)))

	matches := make([]domain.Match, 0, len(raw))
	for i, rec := range raw {
		m, err := Canonicalize(rec)
		if err != nil {
			report.Malformed++
			metrics.BattlesMalformedTotal.Inc()
			r.logger.Debug().Err(err).Int("index", i).Msg("skipping malformed battle")
			continue
		}
		if !known.Has(m.Player1Tag) && !known.Has(m.Player2Tag) {
			report.Irrelevant++
			metrics.BattlesIrrelevantTotal.Inc()
			continue
		}
		matches = append(matches, m)
	}

	if len(matches) == 0 {
		return report, nil
	}

	start := time.Now()
	inserted, err := r.writer.InsertIgnore(ctx, matches)
	metrics.MergeLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return report, errors.Wrap(err, "merge matches")
	}

	report.Inserted = inserted
	metrics.MatchesInsertedTotal.Add(float64(inserted))
	return report, nil
}

// Canonicalize decodes one upstream record into a match. Seat order follows the
// record: the team side is player 1.
func Canonicalize(rec json.RawMessage) (domain.Match, error) {
	var rb api.RawBattle
	if err := sonic.Unmarshal(rec, &rb); err != nil {
		return domain.Match{}, errors.Wrap(err, "decode battle")
	}
	if len(rb.Team) == 0 || len(rb.Opponent) == 0 {
		return domain.Match{}, errors.New("battle without both sides")
	}

	p1, p2 := rb.Team[0], rb.Opponent[0]
	tag1, tag2 := battle.CanonicalTag(p1.Tag), battle.CanonicalTag(p2.Tag)
	if tag1 == "" || tag2 == "" {
		return domain.Match{}, errors.New("participant without tag")
	}
	if p1.Crowns == nil || p2.Crowns == nil {
		return domain.Match{}, errors.New("participant without crowns")
	}
	if *p1.Crowns < 0 || *p2.Crowns < 0 {
		return domain.Match{}, errors.Newf("negative crowns %d-%d", *p1.Crowns, *p2.Crowns)
	}
	if rb.BattleTime == "" {
		return domain.Match{}, errors.New("battle without time")
	}
	at, err := battle.ParseTime(rb.BattleTime)
	if err != nil {
		return domain.Match{}, err
	}

	mode := rb.Type
	if mode == "" {
		mode = unknownMode
	}

	return domain.Match{
		BattleID:   battle.ID(rb.BattleTime, tag1, tag2),
		Player1Tag: tag1,
		Player2Tag: tag2,
		WinnerTag:  battle.Winner(tag1, *p1.Crowns, tag2, *p2.Crowns),
		BattleTime: at,
		GameMode:   mode,
		Crowns1:    *p1.Crowns,
		Crowns2:    *p2.Crowns,
	}, nil
}
