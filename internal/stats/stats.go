// Package stats derives leaderboard and head-to-head figures from stored matches.
// Nothing here touches storage; callers pass the matches in.
package stats

import (
	"fmt"
	"math"
	"sort"

	"royale-rivals/internal/constants"
	"royale-rivals/internal/domain"
)

const (
	dominationAbove = 60.0
	nemesisBelow    = 40.0
)

// Friend is one member of the user's circle, as the leaderboard sees it.
type Friend struct {
	UserID   int64
	Username string
	Tag      string
}

// WinRate is wins/total as a percentage rounded to one decimal, 0 when total is 0.
func WinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(total)*1000) / 10
}

// Classify buckets a win rate. The boundaries themselves are rivals.
func Classify(rate float64) domain.Bucket {
	switch {
	case rate > dominationAbove:
		return domain.BucketDomination
	case rate < nemesisBelow:
		return domain.BucketNemesis
	}
	return domain.BucketRivals
}

// Leaderboard tallies the user's record against each friend and files every
// friend with a tag in exactly one bucket. Matches against anyone else are ignored.
func Leaderboard(userTag string, friends []Friend, matches []domain.Match) domain.Leaderboard {
	board := domain.EmptyLeaderboard()
	if userTag == "" {
		return board
	}

	type tally struct{ wins, total int }
	byTag := make(map[string]*tally, len(friends))
	for _, f := range friends {
		if f.Tag != "" && f.Tag != userTag {
			byTag[f.Tag] = &tally{}
		}
	}

	for _, m := range matches {
		if !m.Involves(userTag) {
			continue
		}
		t, ok := byTag[m.Opponent(userTag)]
		if !ok {
			continue
		}
		t.total++
		if m.WonBy(userTag) {
			t.wins++
		}
	}

	seen := make(map[string]bool, len(friends))
	for _, f := range friends {
		t, ok := byTag[f.Tag]
		if !ok || seen[f.Tag] {
			continue
		}
		seen[f.Tag] = true

		entry := domain.LeaderboardEntry{
			UserID:    f.UserID,
			Username:  f.Username,
			PlayerTag: f.Tag,
			Wins:      t.wins,
			Total:     t.total,
			WinRate:   WinRate(t.wins, t.total),
		}
		// no games yet counts as an even rivalry, not a 0% record
		if t.total == 0 {
			board.Rivals = append(board.Rivals, entry)
			continue
		}
		switch Classify(entry.WinRate) {
		case domain.BucketDomination:
			board.Domination = append(board.Domination, entry)
		case domain.BucketNemesis:
			board.Nemesis = append(board.Nemesis, entry)
		default:
			board.Rivals = append(board.Rivals, entry)
		}
	}
	return board
}

// HeadToHead summarises the matches between userTag and friendTag. Seat order
// in the stored rows is never assumed.
func HeadToHead(userTag, friendTag string, matches []domain.Match) domain.HeadToHead {
	if userTag == "" || friendTag == "" {
		return domain.EmptyHeadToHead()
	}

	pair := make([]domain.Match, 0, len(matches))
	for _, m := range matches {
		if m.Involves(userTag) && m.Opponent(userTag) == friendTag {
			pair = append(pair, m)
		}
	}
	if len(pair) == 0 {
		return domain.EmptyHeadToHead()
	}
	sort.SliceStable(pair, func(i, j int) bool {
		return pair[i].BattleTime.After(pair[j].BattleTime)
	})

	h := domain.HeadToHead{TotalMatches: len(pair)}
	codes := make([]string, 0, len(pair))
	for _, m := range pair {
		if m.Player1Tag == userTag {
			h.UserCrowns += m.Crowns1
			h.FriendCrowns += m.Crowns2
		} else {
			h.UserCrowns += m.Crowns2
			h.FriendCrowns += m.Crowns1
		}

		switch {
		case m.WonBy(userTag):
			h.UserWins++
			codes = append(codes, domain.ResultWin)
		case m.WonBy(friendTag):
			h.FriendWins++
			codes = append(codes, domain.ResultLoss)
		default:
			h.Draws++
			codes = append(codes, domain.ResultDraw)
		}
	}

	window := min(len(codes), constants.RecentResultsWindow)
	h.RecentResults = codes[:window:window]
	h.WinRate = WinRate(h.UserWins, h.TotalMatches)
	h.Streak = StreakLabel(h.RecentResults)
	return h
}

// StreakLabel names the leading run of identical codes, newest first.
func StreakLabel(recent []string) string {
	if len(recent) == 0 {
		return domain.NoStreak
	}
	n := 1
	for n < len(recent) && recent[n] == recent[0] {
		n++
	}

	var singular, plural string
	switch recent[0] {
	case domain.ResultWin:
		singular, plural = "Win", "Wins"
	case domain.ResultLoss:
		singular, plural = "Loss", "Losses"
	case domain.ResultDraw:
		singular, plural = "Draw", "Draws"
	default:
		return domain.NoStreak
	}
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
