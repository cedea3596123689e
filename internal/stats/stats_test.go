package stats

import (
	"fmt"
	"testing"
	"time"

	"royale-rivals/internal/battle"
	"royale-rivals/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const me = "#ME"

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// play builds a match seated as given; result is from the user's side: "W", "L" or "D".
func play(p1, p2 string, at time.Time, userFirst bool, result string) domain.Match {
	userCrowns, otherCrowns := 1, 1
	switch result {
	case domain.ResultWin:
		userCrowns, otherCrowns = 3, 1
	case domain.ResultLoss:
		userCrowns, otherCrowns = 0, 2
	}
	c1, c2 := userCrowns, otherCrowns
	if !userFirst {
		c1, c2 = otherCrowns, userCrowns
	}
	ts := at.Format(battle.TimeLayout)
	return domain.Match{
		BattleID:   battle.ID(ts, p1, p2),
		Player1Tag: p1,
		Player2Tag: p2,
		WinnerTag:  battle.Winner(p1, c1, p2, c2),
		BattleTime: at,
		Crowns1:    c1,
		Crowns2:    c2,
	}
}

func vs(friend string, at time.Time, userFirst bool, result string) domain.Match {
	if userFirst {
		return play(me, friend, at, true, result)
	}
	return play(friend, me, at, false, result)
}

func TestWinRate(t *testing.T) {
	assert.Equal(t, 0.0, WinRate(0, 0))
	assert.Equal(t, 66.7, WinRate(2, 3))
	assert.Equal(t, 33.3, WinRate(1, 3))
	assert.Equal(t, 100.0, WinRate(5, 5))
	assert.Equal(t, 14.3, WinRate(1, 7))
}

func TestClassifyBoundaries(t *testing.T) {
	assert.Equal(t, domain.BucketRivals, Classify(60.0))
	assert.Equal(t, domain.BucketRivals, Classify(40.0))
	assert.Equal(t, domain.BucketRivals, Classify(50))
	assert.Equal(t, domain.BucketDomination, Classify(60.1))
	assert.Equal(t, domain.BucketNemesis, Classify(39.9))
	assert.Equal(t, domain.BucketNemesis, Classify(0))
}

func TestLeaderboardScenario(t *testing.T) {
	friends := []Friend{
		{UserID: 2, Username: "f1", Tag: "#F1"},
		{UserID: 3, Username: "f2", Tag: "#F2"},
		{UserID: 4, Username: "untagged"},
	}
	matches := []domain.Match{
		vs("#F1", t0, true, domain.ResultWin),
		vs("#F1", t0.Add(time.Minute), false, domain.ResultWin),
		vs("#F1", t0.Add(2*time.Minute), false, domain.ResultLoss),
		vs("#STRANGER", t0.Add(3*time.Minute), true, domain.ResultLoss),
	}

	board := Leaderboard(me, friends, matches)

	require.Len(t, board.Domination, 1)
	assert.Equal(t, "#F1", board.Domination[0].PlayerTag)
	assert.Equal(t, 66.7, board.Domination[0].WinRate)
	assert.Equal(t, 2, board.Domination[0].Wins)
	assert.Equal(t, 3, board.Domination[0].Total)

	require.Len(t, board.Rivals, 1)
	assert.Equal(t, "#F2", board.Rivals[0].PlayerTag)
	assert.Zero(t, board.Rivals[0].Total)
	assert.Empty(t, board.Nemesis)
}

func TestLeaderboardUnplayedFriendIsRival(t *testing.T) {
	board := Leaderboard(me, []Friend{{UserID: 3, Tag: "#F2"}}, nil)

	require.Len(t, board.Rivals, 1)
	assert.Equal(t, "#F2", board.Rivals[0].PlayerTag)
	assert.Zero(t, board.Rivals[0].WinRate)
	assert.Empty(t, board.Domination)
	assert.Empty(t, board.Nemesis)

	// a played 0% record is still a nemesis
	board = Leaderboard(me, []Friend{{UserID: 3, Tag: "#F2"}}, []domain.Match{vs("#F2", t0, true, domain.ResultLoss)})
	require.Len(t, board.Nemesis, 1)
	assert.Empty(t, board.Rivals)
}

func TestLeaderboardWithoutUserTag(t *testing.T) {
	board := Leaderboard("", []Friend{{UserID: 2, Tag: "#F1"}}, nil)
	assert.Zero(t, board.Size())
	assert.NotNil(t, board.Domination)
	assert.NotNil(t, board.Rivals)
	assert.NotNil(t, board.Nemesis)
}

func TestLeaderboardPartition(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every tagged friend lands in exactly one bucket", prop.ForAll(
		func(nFriends int, seeds []int) bool {
			friends := make([]Friend, nFriends)
			for i := range friends {
				friends[i] = Friend{UserID: int64(i + 2), Tag: fmt.Sprintf("#F%d", i)}
			}

			results := []string{domain.ResultWin, domain.ResultLoss, domain.ResultDraw}
			matches := make([]domain.Match, 0, len(seeds))
			for i, seed := range seeds {
				opponent := "#STRANGER"
				if idx := seed % (nFriends + 1); idx < nFriends {
					opponent = friends[idx].Tag
				}
				matches = append(matches, vs(opponent, t0.Add(time.Duration(i)*time.Second),
					(seed/30)%2 == 0, results[(seed/10)%3]))
			}

			board := Leaderboard(me, friends, matches)
			if board.Size() != nFriends {
				return false
			}
			count := map[string]int{}
			buckets := map[domain.Bucket][]domain.LeaderboardEntry{
				domain.BucketDomination: board.Domination,
				domain.BucketRivals:     board.Rivals,
				domain.BucketNemesis:    board.Nemesis,
			}
			for bucket, entries := range buckets {
				for _, e := range entries {
					count[e.PlayerTag]++
					if e.Wins > e.Total || e.WinRate < 0 || e.WinRate > 100 {
						return false
					}
					want := domain.BucketRivals
					if e.Total > 0 {
						want = Classify(e.WinRate)
					}
					if bucket != want {
						return false
					}
				}
			}
			for _, f := range friends {
				if count[f.Tag] != 1 {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 8),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}

func TestHeadToHeadScenario(t *testing.T) {
	codes := []string{"W", "W", "L", "W", "W"}
	matches := make([]domain.Match, 0, len(codes))
	for i, code := range codes {
		// newest first, alternating seats
		matches = append(matches, vs("#F", t0.Add(-time.Duration(i)*time.Hour), i%2 == 0, code))
	}
	// an unrelated match must not count
	matches = append(matches, vs("#OTHER", t0.Add(time.Hour), true, domain.ResultLoss))

	h := HeadToHead(me, "#F", matches)

	assert.Equal(t, 5, h.TotalMatches)
	assert.Equal(t, 4, h.UserWins)
	assert.Equal(t, 1, h.FriendWins)
	assert.Equal(t, 0, h.Draws)
	assert.Equal(t, 4*3+0, h.UserCrowns)
	assert.Equal(t, 4*1+2, h.FriendCrowns)
	assert.Equal(t, 80.0, h.WinRate)
	assert.Equal(t, codes, h.RecentResults)
	assert.Equal(t, "2 Wins", h.Streak)
}

func TestHeadToHeadOrdersNewestFirst(t *testing.T) {
	matches := []domain.Match{
		vs("#F", t0, true, domain.ResultLoss),
		vs("#F", t0.Add(2*time.Hour), false, domain.ResultDraw),
		vs("#F", t0.Add(time.Hour), true, domain.ResultDraw),
	}
	for i := 0; i < 4; i++ {
		matches = append(matches, vs("#F", t0.Add(-time.Duration(i+1)*time.Hour), true, domain.ResultWin))
	}

	h := HeadToHead(me, "#F", matches)

	assert.Equal(t, 7, h.TotalMatches)
	assert.Equal(t, []string{"D", "D", "L", "W", "W"}, h.RecentResults)
	assert.Equal(t, "2 Draws", h.Streak)
	assert.Equal(t, 2, h.Draws)
}

func TestHeadToHeadEmpty(t *testing.T) {
	tests := []struct {
		name      string
		userTag   string
		friendTag string
		matches   []domain.Match
	}{
		{"no matches", me, "#F", nil},
		{"user without tag", "", "#F", []domain.Match{vs("#F", t0, true, domain.ResultWin)}},
		{"friend without tag", me, "", []domain.Match{vs("#F", t0, true, domain.ResultWin)}},
		{"only other opponents", me, "#F", []domain.Match{vs("#X", t0, true, domain.ResultWin)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := HeadToHead(tt.userTag, tt.friendTag, tt.matches)
			assert.Equal(t, domain.EmptyHeadToHead(), h)
		})
	}
}

func TestStreakLabel(t *testing.T) {
	tests := []struct {
		recent []string
		want   string
	}{
		{nil, "None"},
		{[]string{"W"}, "1 Win"},
		{[]string{"W", "W", "W"}, "3 Wins"},
		{[]string{"L", "W"}, "1 Loss"},
		{[]string{"L", "L", "W", "L"}, "2 Losses"},
		{[]string{"D"}, "1 Draw"},
		{[]string{"D", "D", "D", "D", "D"}, "5 Draws"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, StreakLabel(tt.recent))
		})
	}
}
