package domain

type Bucket string

const (
	BucketDomination Bucket = "domination"
	BucketRivals     Bucket = "rivals"
	BucketNemesis    Bucket = "nemesis"
)

type LeaderboardEntry struct {
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	PlayerTag string  `json:"player_tag"`
	Wins      int     `json:"wins"`
	Total     int     `json:"total"`
	WinRate   float64 `json:"win_rate"`
}

type Leaderboard struct {
	Domination []LeaderboardEntry `json:"domination"`
	Rivals     []LeaderboardEntry `json:"rivals"`
	Nemesis    []LeaderboardEntry `json:"nemesis"`
}

func EmptyLeaderboard() Leaderboard {
	return Leaderboard{
		Domination: []LeaderboardEntry{},
		Rivals:     []LeaderboardEntry{},
		Nemesis:    []LeaderboardEntry{},
	}
}

// Size counts entries across all buckets.
func (l Leaderboard) Size() int {
	return len(l.Domination) + len(l.Rivals) + len(l.Nemesis)
}

const (
	ResultWin  = "W"
	ResultLoss = "L"
	ResultDraw = "D"
)

const NoStreak = "None"

type HeadToHead struct {
	TotalMatches  int      `json:"total_matches"`
	UserWins      int      `json:"user_wins"`
	FriendWins    int      `json:"friend_wins"`
	Draws         int      `json:"draws"`
	UserCrowns    int      `json:"user_crowns"`
	FriendCrowns  int      `json:"friend_crowns"`
	WinRate       float64  `json:"win_rate"`
	Streak        string   `json:"streak"`
	RecentResults []string `json:"recent_results"`
}

func EmptyHeadToHead() HeadToHead {
	return HeadToHead{
		Streak:        NoStreak,
		RecentResults: []string{},
	}
}
