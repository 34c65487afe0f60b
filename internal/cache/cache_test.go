package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elskow/portfolio-cms/internal/config"
)

func TestNew_WithoutAddrIsNoop(t *testing.T) {
	c := New(&config.RedisConfig{}, zap.NewNop())
	assert.IsType(t, Noop{}, c)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}))

	var dst map[string]int
	hit, err := c.Get(ctx, "k", &dst)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Ping(ctx))
}

func TestNew_WithAddrIsRedis(t *testing.T) {
	c := New(&config.RedisConfig{Addr: "localhost:6379"}, zap.NewNop())
	r, ok := c.(*Redis)
	require.True(t, ok)
	assert.NoError(t, r.Close())
}
