package domain

import (
	"sort"
	"time"
)

type User struct {
	ID          int64
	Username    string
	Email       string
	PlayerTag   string // canonical "#TAG", empty when not linked
	DisplayName string
	Trophies    int
	ClanName    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u User) HasTag() bool {
	return u.PlayerTag != ""
}

// Profile is the cached upstream view of a player.
type Profile struct {
	Name     string
	Trophies int
	ClanName string
}

type Match struct {
	BattleID   string
	Player1Tag string
	Player2Tag string
	WinnerTag  *string // nil is a draw
	BattleTime time.Time
	GameMode   string
	Crowns1    int
	Crowns2    int
	CreatedAt  time.Time
}

// Involves reports whether tag played in the match, in either seat.
func (m Match) Involves(tag string) bool {
	return m.Player1Tag == tag || m.Player2Tag == tag
}

// Opponent returns the tag facing tag, or "" if tag did not play.
func (m Match) Opponent(tag string) string {
	switch tag {
	case m.Player1Tag:
		return m.Player2Tag
	case m.Player2Tag:
		return m.Player1Tag
	}
	return ""
}

func (m Match) WonBy(tag string) bool {
	return m.WinnerTag != nil && *m.WinnerTag == tag
}

func (m Match) IsDraw() bool {
	return m.WinnerTag == nil
}

type Invite struct {
	ID        int64
	Token     string
	CreatorID int64
	TargetTag string
	MaxUses   int
	UsedCount int
	CreatedAt time.Time
}

func (i Invite) Exhausted() bool {
	return i.UsedCount >= i.MaxUses
}

type Feedback struct {
	ID          int64
	UserID      int64
	Type        string
	Title       string
	Description string
	CreatedAt   time.Time
}

// TagSet is a set of canonical player tags.
type TagSet map[string]struct{}

func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

func (s TagSet) Add(tag string) {
	if tag == "" {
		return
	}
	s[tag] = struct{}{}
}

func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Degenerate is true when the set cannot contain a match between two members.
func (s TagSet) Degenerate() bool {
	return len(s) < 2
}

// Sorted returns the members in lexical order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
