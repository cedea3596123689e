package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"royale-rivals/internal/battle"
	"royale-rivals/internal/database"
	"royale-rivals/internal/db"
	"royale-rivals/internal/domain"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repos struct {
	users       *UserRepository
	friendships *FriendshipRepository
	matches     *MatchRepository
	invites     *InviteRepository
	feedback    *FeedbackRepository
}

func newRepos(t *testing.T) repos {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return newReposFrom(sqlDB)
}

func newReposFrom(sqlDB *sql.DB) repos {
	q := db.New(sqlDB)
	log := zerolog.Nop()
	return repos{
		users:       NewUserRepository(sqlDB, q, log),
		friendships: NewFriendshipRepository(sqlDB, q, log),
		matches:     NewMatchRepository(sqlDB, q, log),
		invites:     NewInviteRepository(sqlDB, q, log),
		feedback:    NewFeedbackRepository(sqlDB, q, log),
	}
}

var base = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func match(tagA, tagB string, at time.Time, c1, c2 int) domain.Match {
	ts := at.Format(battle.TimeLayout)
	return domain.Match{
		BattleID:   battle.ID(ts, tagA, tagB),
		Player1Tag: tagA,
		Player2Tag: tagB,
		WinnerTag:  battle.Winner(tagA, c1, tagB, c2),
		BattleTime: at,
		GameMode:   "PvP",
		Crowns1:    c1,
		Crowns2:    c2,
	}
}

func TestInsertIgnoreIsIdempotent(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	batch := []domain.Match{
		match("#A", "#B", base, 3, 1),
		match("#A", "#C", base.Add(time.Minute), 1, 1),
		match("#B", "#C", base.Add(2*time.Minute), 0, 2),
	}

	n, err := r.matches.InsertIgnore(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = r.matches.InsertIgnore(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	count, err := r.matches.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestInsertIgnoreSameBattleFromBothSides(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	fromA := match("#A", "#B", base, 3, 1)
	fromB := match("#B", "#A", base, 1, 3)
	require.Equal(t, fromA.BattleID, fromB.BattleID)

	n, err := r.matches.InsertIgnore(ctx, []domain.Match{fromA, fromB})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertIgnoreAcrossChunks(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	batch := make([]domain.Match, 0, 250)
	for i := range 250 {
		batch = append(batch, match("#A", fmt.Sprintf("#P%d", i), base.Add(time.Duration(i)*time.Second), 1, 0))
	}

	n, err := r.matches.InsertIgnore(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 250, n)

	n, err = r.matches.InsertIgnore(ctx, append(batch[:10:10], match("#A", "#NEW", base, 0, 0)))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertIgnoreRollsBackOnFailure(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	bad := match("#A", "#C", base.Add(time.Minute), 1, 0)
	bad.Crowns2 = -1

	_, err := r.matches.InsertIgnore(ctx, []domain.Match{match("#A", "#B", base, 1, 0), bad})
	require.Error(t, err)

	count, err := r.matches.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListCircle(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	_, err := r.matches.InsertIgnore(ctx, []domain.Match{
		match("#A", "#B", base, 1, 0),
		match("#C", "#A", base.Add(time.Hour), 0, 1),
		match("#A", "#X", base.Add(2*time.Hour), 1, 0),
		match("#B", "#C", base.Add(3*time.Hour), 2, 2),
	})
	require.NoError(t, err)

	got, err := r.matches.ListCircle(ctx, []string{"#A", "#B", "#C"}, 0, 50)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "#B", got[0].Player1Tag)
	assert.Equal(t, "#C", got[1].Player1Tag)
	assert.Equal(t, "#A", got[2].Player1Tag)
	assert.True(t, got[0].IsDraw())
	assert.True(t, got[2].BattleTime.Equal(base))

	page, err := r.matches.ListCircle(ctx, []string{"#A", "#B", "#C"}, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, got[1].BattleID, page[0].BattleID)
}

func TestListBetweenAndAgainst(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	_, err := r.matches.InsertIgnore(ctx, []domain.Match{
		match("#A", "#B", base, 1, 0),
		match("#B", "#A", base.Add(time.Hour), 1, 0),
		match("#A", "#C", base.Add(2*time.Hour), 1, 0),
		match("#B", "#C", base.Add(3*time.Hour), 1, 0),
	})
	require.NoError(t, err)

	between, err := r.matches.ListBetween(ctx, "#A", "#B")
	require.NoError(t, err)
	assert.Len(t, between, 2)

	against, err := r.matches.ListAgainst(ctx, "#A", []string{"#B", "#C"})
	require.NoError(t, err)
	assert.Len(t, against, 3)

	forTag, err := r.matches.ListForTag(ctx, "#C", 1)
	require.NoError(t, err)
	require.Len(t, forTag, 1)
	assert.Equal(t, "#B", forTag[0].Player1Tag)
}

func TestUserTagLifecycle(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	alice, err := r.users.Create(ctx, "alice", "alice@example.com")
	require.NoError(t, err)
	bob, err := r.users.Create(ctx, "bob", "")
	require.NoError(t, err)
	assert.False(t, alice.HasTag())

	_, err = r.users.Create(ctx, "alice2", "alice@example.com")
	assert.True(t, errors.Is(err, domain.ErrConflict))

	require.NoError(t, r.users.LinkTag(ctx, alice.ID, "#AAA", domain.Profile{Name: "Alice", Trophies: 5000, ClanName: "Clan"}))

	err = r.users.LinkTag(ctx, bob.ID, "#AAA", domain.Profile{Name: "Bob"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	got, err := r.users.GetByTag(ctx, "#AAA")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, 5000, got.Trophies)
	assert.Equal(t, "Clan", got.ClanName)

	require.NoError(t, r.users.UpdateProfile(ctx, alice.ID, domain.Profile{Name: "Alice", Trophies: 5100}))
	got, err = r.users.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 5100, got.Trophies)
	assert.Empty(t, got.ClanName)

	tags, err := r.users.ListTrackedTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"#AAA"}, tags)

	_, err = r.users.Get(ctx, 999)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(r.users.UpdateProfile(ctx, 999, domain.Profile{}), domain.ErrNotFound))
}

func TestFriendshipIsCanonical(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	a, err := r.users.Create(ctx, "a", "")
	require.NoError(t, err)
	b, err := r.users.Create(ctx, "b", "")
	require.NoError(t, err)
	c, err := r.users.Create(ctx, "c", "")
	require.NoError(t, err)

	created, err := r.friendships.Add(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = r.friendships.Add(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = r.friendships.Add(ctx, c.ID, a.ID)
	require.NoError(t, err)

	ids, err := r.friendships.ListFriendIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{b.ID, c.ID}, ids)

	ids, err = r.friendships.ListFriendIDs(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID}, ids)

	users, err := r.users.ListByIDs(ctx, []int64{c.ID, a.ID})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a.ID, users[0].ID)
}

func TestInviteRedeemExhausts(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	creator, err := r.users.Create(ctx, "creator", "")
	require.NoError(t, err)
	first, err := r.users.Create(ctx, "first", "")
	require.NoError(t, err)
	second, err := r.users.Create(ctx, "second", "")
	require.NoError(t, err)

	inv, err := r.invites.Create(ctx, domain.Invite{Token: "tok", CreatorID: creator.ID, MaxUses: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, inv.UsedCount)
	assert.Empty(t, inv.TargetTag)

	created, err := r.invites.Redeem(ctx, "tok", creator.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, created)

	_, err = r.invites.Redeem(ctx, "tok", creator.ID, second.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	ids, err := r.friendships.ListFriendIDs(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID}, ids)

	inv, err = r.invites.GetByToken(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, inv.Exhausted())

	_, err = r.invites.GetByToken(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestFeedbackCreate(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	u, err := r.users.Create(ctx, "u", "")
	require.NoError(t, err)

	f, err := r.feedback.Create(ctx, domain.Feedback{UserID: u.ID, Type: "bug", Title: "t", Description: "d"})
	require.NoError(t, err)
	assert.NotZero(t, f.ID)
	assert.Equal(t, "bug", f.Type)

	_, err = r.feedback.Create(ctx, domain.Feedback{UserID: 999, Type: "bug", Title: "t", Description: "d"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
