package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	return NewCache(rc), mr
}

func TestCache_DisabledIsAlwaysMiss(t *testing.T) {
	ctx := context.Background()

	for name, c := range map[string]*Cache{"nil cache": nil, "no client": NewCache(nil)} {
		t.Run(name, func(t *testing.T) {
			c.SetJSON(ctx, "k", map[string]int{"a": 1}, 0)
			_, ok := c.GetBytes(ctx, "k")
			assert.False(t, ok)

			_, ok = c.Generation(ctx, "gen")
			assert.False(t, ok)
			assert.NotPanics(t, func() { c.Bump(ctx, "gen") })
		})
	}
}

func TestCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok := c.GetBytes(ctx, "k")
	assert.False(t, ok)

	c.SetJSON(ctx, "k", map[string]int{"a": 1}, 0)
	b, ok := c.GetBytes(ctx, "k")
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(b))
	assert.Equal(t, defaultCacheTTL, mr.TTL("k"))

	c.SetJSON(ctx, "short", 1, time.Minute)
	assert.Equal(t, time.Minute, mr.TTL("short"))

	mr.FastForward(2 * time.Minute)
	_, ok = c.GetBytes(ctx, "short")
	assert.False(t, ok)
}

func TestCache_Generation(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	gen, ok := c.Generation(ctx, "gen")
	require.True(t, ok)
	assert.Equal(t, int64(0), gen)

	c.Bump(ctx, "gen")
	c.Bump(ctx, "gen")
	gen, ok = c.Generation(ctx, "gen")
	require.True(t, ok)
	assert.Equal(t, int64(2), gen)

	mr.Close()
	_, ok = c.Generation(ctx, "gen")
	assert.False(t, ok, "an unreachable redis disables the cache for the request")
}
