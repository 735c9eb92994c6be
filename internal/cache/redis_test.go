package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client), mr
}

func TestOnce_RunsOnlyFirstTime(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fn := func() error { calls++; return nil }

	require.NoError(t, c.Once(ctx, "reminder:daily:2024-01-08", time.Hour, fn))
	require.NoError(t, c.Once(ctx, "reminder:daily:2024-01-08", time.Hour, fn))
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("reminder:daily:2024-01-08"))

	mr.FastForward(2 * time.Hour)
	require.NoError(t, c.Once(ctx, "reminder:daily:2024-01-08", time.Hour, fn))
	assert.Equal(t, 2, calls)
}

func TestOnce_ReleasesKeyOnFailure(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	boom := errors.New("webhook down")
	err := c.Once(ctx, "k", time.Hour, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))

	calls := 0
	require.NoError(t, c.Once(ctx, "k", time.Hour, func() error { calls++; return nil }))
	assert.Equal(t, 1, calls)
}

func TestOnce_RedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	called := false
	err := c.Once(context.Background(), "k", time.Hour, func() error { called = true; return nil })
	assert.Error(t, err)
	assert.False(t, called)
}

func TestDial(t *testing.T) {
	c, err := Dial(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.Nil(t, c)

	mr := miniredis.RunT(t)
	c, err = Dial(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}
