package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/marcelsud/webhook-debugger/capture"
	"github.com/marcelsud/webhook-debugger/capture/capturetest"
	"github.com/marcelsud/webhook-debugger/capture/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredisRepository(t *testing.T) (*redis.Repository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	repo := redis.NewRepositoryWithClient(client)
	t.Cleanup(func() { _ = repo.Close(context.Background()) })

	return repo, mr
}

func TestRepository(t *testing.T) {
	capturetest.RunRepositoryTests(t, func(t *testing.T) capture.Repository {
		repo, _ := newMiniredisRepository(t)
		return repo
	})
}

func TestRepository_Keys(t *testing.T) {
	ctx := context.Background()
	repo, mr := newMiniredisRepository(t)

	c := capturetest.NewCapture("ep-keys", "shopify", time.Now().UTC())
	_, err := repo.Create(ctx, c)
	require.NoError(t, err)

	assert.True(t, mr.Exists("capture:"+c.ID))
	members, err := mr.ZMembers("captures:endpoint:ep-keys")
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, members)

	members, err = mr.ZMembers("captures:endpoint:ep-keys:source:shopify")
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, members)

	ok, err := mr.SIsMember("captures:endpoints", "ep-keys")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRepository_UpdateReplayDoesNotCreateHash(t *testing.T) {
	ctx := context.Background()
	repo, mr := newMiniredisRepository(t)

	err := repo.UpdateReplay(ctx, "ghost", capture.ReplayOutcome{Status: 200})

	assert.ErrorIs(t, err, capture.ErrNotFound)
	assert.False(t, mr.Exists("capture:ghost"))
}
