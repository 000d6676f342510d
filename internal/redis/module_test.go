package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/railzwaylabs/featuregate/internal/config"
	"github.com/railzwaylabs/featuregate/internal/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestNewClient_Disabled(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	client, err := redis.NewClient(lc, config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewClient_Connects(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	lc := fxtest.NewLifecycle(t)
	client, err := redis.NewClient(lc, config.Config{Redis: config.RedisConfig{Addr: s.Addr()}}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, client)

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	lc.RequireStart().RequireStop()
}

func TestNewClient_Unreachable(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	addr := s.Addr()
	s.Close()

	_, err = redis.NewClient(fxtest.NewLifecycle(t), config.Config{Redis: config.RedisConfig{Addr: addr}}, zap.NewNop())
	assert.Error(t, err)
}
