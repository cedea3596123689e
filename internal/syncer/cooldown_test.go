package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisCooldownStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCooldownStore(client, ttl), mr
}

func TestCooldownStoreEquivalence(t *testing.T) {
	properties := gopter.NewProperties(nil)
	redisStore, _ := newRedisStore(t, time.Hour)

	properties.Property("memory and redis stores agree after the same writes", prop.ForAll(
		func(key string, offsets []int64) bool {
			ctx := context.Background()
			mem := NewMemoryCooldownStore()
			key = "eq:" + key

			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			for _, off := range offsets {
				at := base.Add(time.Duration(off) * time.Millisecond)
				if mem.Set(ctx, key, at) != nil || redisStore.Set(ctx, key, at) != nil {
					return false
				}
			}

			mAt, mOK, mErr := mem.Get(ctx, key)
			rAt, rOK, rErr := redisStore.Get(ctx, key)
			if mErr != nil || rErr != nil || mOK != rOK {
				return false
			}
			if len(offsets) == 0 {
				return !mOK
			}
			return mAt.Equal(rAt)
		},
		gen.Identifier(),
		gen.SliceOf(gen.Int64Range(0, 1<<40)),
	))

	properties.TestingRun(t)
}

func TestRedisCooldownStoreExpires(t *testing.T) {
	store, mr := newRedisStore(t, 2*time.Minute)
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Set(ctx, "#T", at))
	assert.True(t, mr.Exists("sync:cooldown:#T"))

	got, ok, err := store.Get(ctx, "#T")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Equal(at))

	mr.FastForward(2*time.Minute + time.Second)

	_, ok, err = store.Get(ctx, "#T")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCooldownStoreCorruptEntry(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	require.NoError(t, mr.Set("sync:cooldown:#T", "yesterday"))

	_, _, err := store.Get(context.Background(), "#T")
	assert.Error(t, err)
}

func TestForceSyncWithRedisCooldown(t *testing.T) {
	store, _ := newRedisStore(t, testOpts.Cooldown)
	players := &stubPlayers{tags: []string{"#T"}}
	s := NewScheduler(players, &stubUpstream{}, &stubReconciler{}, store, testOpts, zerolog.Nop())

	_, err := s.ForceSync(context.Background(), "#T")
	require.NoError(t, err)

	res, err := s.ForceSync(context.Background(), "#T")
	require.Error(t, err)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
}
