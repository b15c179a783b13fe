package retention_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/marcelsud/webhook-debugger/retention"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	cutoffs []time.Time
	removed int64
	err     error
}

func (s *fakeStore) DeleteReceivedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.removed, s.err
}

func (s *fakeStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cutoffs)
}

func TestNewJanitor(t *testing.T) {
	t.Run("rejects invalid schedule", func(t *testing.T) {
		_, err := retention.NewJanitor(&fakeStore{}, time.Hour, "every now and then")
		assert.Error(t, err)
	})

	t.Run("rejects negative window", func(t *testing.T) {
		_, err := retention.NewJanitor(&fakeStore{}, -time.Hour, "@every 1h")
		assert.Error(t, err)
	})

	t.Run("accepts descriptors and cron expressions", func(t *testing.T) {
		for _, schedule := range []string{"@every 1h", "@daily", "0 3 * * *"} {
			_, err := retention.NewJanitor(&fakeStore{}, time.Hour, schedule)
			assert.NoError(t, err, schedule)
		}
	})
}

func TestRunOnce(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("deletes before now minus window", func(t *testing.T) {
		store := &fakeStore{removed: 4}
		j, err := retention.NewJanitor(store, 90*24*time.Hour, "@every 1h", retention.WithClock(clock))
		require.NoError(t, err)

		removed, err := j.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(4), removed)
		require.Len(t, store.cutoffs, 1)
		assert.Equal(t, now.Add(-90*24*time.Hour), store.cutoffs[0])
	})

	t.Run("zero window disables deletion", func(t *testing.T) {
		store := &fakeStore{removed: 4}
		j, err := retention.NewJanitor(store, 0, "@every 1h", retention.WithClock(clock))
		require.NoError(t, err)

		removed, err := j.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Zero(t, removed)
		assert.Zero(t, store.calls())
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		boom := errors.New("disk full")
		j, err := retention.NewJanitor(&fakeStore{err: boom}, time.Hour, "@every 1h", retention.WithClock(clock))
		require.NoError(t, err)

		_, err = j.RunOnce(context.Background())
		assert.ErrorIs(t, err, boom)
	})
}

func TestStartStop(t *testing.T) {
	store := &fakeStore{}
	j, err := retention.NewJanitor(store, time.Hour, "@every 1s")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	j.Start(ctx)
	j.Start(ctx)

	assert.Eventually(t, func() bool { return store.calls() > 0 }, 5*time.Second, 50*time.Millisecond)

	j.Stop()
	after := store.calls()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, after, store.calls())

	j.Stop()
}
