package server

import (
	"time"

	"royale-rivals/internal/domain"
)

type userDTO struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	PlayerTag   string    `json:"player_tag,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Trophies    int       `json:"trophies"`
	ClanName    string    `json:"clan_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		PlayerTag:   u.PlayerTag,
		DisplayName: u.DisplayName,
		Trophies:    u.Trophies,
		ClanName:    u.ClanName,
		CreatedAt:   u.CreatedAt,
	}
}

func toUserDTOs(users []domain.User) []userDTO {
	out := make([]userDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	return out
}

type matchDTO struct {
	BattleID   string    `json:"battle_id"`
	Player1Tag string    `json:"player_1_tag"`
	Player2Tag string    `json:"player_2_tag"`
	WinnerTag  *string   `json:"winner_tag"`
	BattleTime time.Time `json:"battle_time"`
	GameMode   string    `json:"game_mode"`
	Crowns1    int       `json:"crowns_1"`
	Crowns2    int       `json:"crowns_2"`
}

func toMatchDTOs(matches []domain.Match) []matchDTO {
	out := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchDTO{
			BattleID:   m.BattleID,
			Player1Tag: m.Player1Tag,
			Player2Tag: m.Player2Tag,
			WinnerTag:  m.WinnerTag,
			BattleTime: m.BattleTime,
			GameMode:   m.GameMode,
			Crowns1:    m.Crowns1,
			Crowns2:    m.Crowns2,
		})
	}
	return out
}

type inviteDTO struct {
	Token     string    `json:"token"`
	CreatorID int64     `json:"creator_id"`
	TargetTag string    `json:"target_tag,omitempty"`
	MaxUses   int       `json:"max_uses"`
	UsedCount int       `json:"used_count"`
	CreatedAt time.Time `json:"created_at"`
}

func toInviteDTO(i *domain.Invite) inviteDTO {
	return inviteDTO{
		Token:     i.Token,
		CreatorID: i.CreatorID,
		TargetTag: i.TargetTag,
		MaxUses:   i.MaxUses,
		UsedCount: i.UsedCount,
		CreatedAt: i.CreatedAt,
	}
}

type feedbackDTO struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type linkTagRequest struct {
	PlayerTag string `json:"player_tag"`
}

type addFriendRequest struct {
	FriendID int64 `json:"friend_id"`
}

type createInviteRequest struct {
	TargetTag string `json:"target_tag"`
}

type redeemResponse struct {
	Invite      inviteDTO `json:"invite"`
	FriendAdded bool      `json:"friend_added"`
}

type friendResponse struct {
	Created bool `json:"created"`
}

type syncResponse struct {
	Tag      string `json:"tag"`
	Synced   bool   `json:"synced"`
	Inserted int    `json:"inserted"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Scheduler string `json:"scheduler"`
}
