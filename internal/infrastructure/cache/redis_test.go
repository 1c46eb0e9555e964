package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/pkg/config"
)

func newGuard(t *testing.T, ttl time.Duration) (*IdempotencyGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := New(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyGuard(client, ttl), mr
}

func TestIdempotencyGuard_AcquireOnce(t *testing.T) {
	g, mr := newGuard(t, time.Minute)
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Acquire(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, mr.Exists("idem:sale:abc"))
	assert.Equal(t, time.Minute, mr.TTL("idem:sale:abc"))
}

func TestIdempotencyGuard_ReleaseAllowsRetry(t *testing.T) {
	g, _ := newGuard(t, time.Minute)
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, g.Release(ctx, "k1"))

	ok, err = g.Acquire(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, g.Release(ctx, "no-existe"))
}

func TestIdempotencyGuard_KeyExpires(t *testing.T) {
	g, mr := newGuard(t, time.Second)
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)
	ok, err = g.Acquire(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNew_PingFails(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
