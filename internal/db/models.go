package db

import (
	"time"
)

type User struct {
	ID          int64
	Username    string
	Email       *string
	PlayerTag   *string
	DisplayName string
	Trophies    int64
	ClanName    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Friendship struct {
	ID        int64
	UserID1   int64
	UserID2   int64
	CreatedAt time.Time
}

type Match struct {
	ID         int64
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

type Invite struct {
	ID        int64
	Token     string
	CreatorID int64
	TargetTag *string
	MaxUses   int64
	UsedCount int64
	CreatedAt time.Time
}

type Feedback struct {
	ID           int64
	UserID       int64
	FeedbackType string
	Title        string
	Description  string
	CreatedAt    time.Time
}
