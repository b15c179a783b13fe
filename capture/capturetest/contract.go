// Package capturetest holds a behavioral suite shared by every capture.Repository backend.
package capturetest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/webhook-debugger/capture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty repository for one subtest
type Factory func(t *testing.T) capture.Repository

var base = time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

// NewCapture builds a capture with sensible defaults for tests
func NewCapture(endpointID, source string, receivedAt time.Time) capture.Capture {
	body := `{"event":"test"}`
	return capture.Capture{
		ID:          uuid.New().String(),
		EndpointID:  endpointID,
		Method:      "POST",
		Source:      source,
		Headers:     map[string]string{"Content-Type": "application/json", "X-Request-Id": "r-1"},
		Body:        &body,
		QueryParams: map[string]string{"attempt": "1"},
		ContentType: "application/json",
		ReceivedAt:  receivedAt,
	}
}

// RunRepositoryTests exercises the full capture.Repository contract
func RunRepositoryTests(t *testing.T, newRepo Factory) {
	ctx := context.Background()

	t.Run("create and get round trip", func(t *testing.T) {
		repo := newRepo(t)

		c := NewCapture("ep-1", "github", base)
		c.SourceVerified = true

		stored, err := repo.Create(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, c.ID, stored.ID)

		got, err := repo.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
		assert.Equal(t, "ep-1", got.EndpointID)
		assert.Equal(t, "POST", got.Method)
		assert.Equal(t, "github", got.Source)
		assert.True(t, got.SourceVerified)
		assert.Equal(t, c.Headers, got.Headers)
		assert.Equal(t, c.QueryParams, got.QueryParams)
		require.NotNil(t, got.Body)
		assert.Equal(t, *c.Body, *got.Body)
		assert.Equal(t, "application/json", got.ContentType)
		assert.Zero(t, got.ReplayCount)
		assert.Nil(t, got.LastReplayStatus)
		assert.Nil(t, got.LastReplayResponse)
		assert.Nil(t, got.LastReplayAt)
		assert.True(t, c.ReceivedAt.Equal(got.ReceivedAt))
	})

	t.Run("null and empty bodies are distinct", func(t *testing.T) {
		repo := newRepo(t)

		withNull := NewCapture("ep-1", "unknown", base)
		withNull.Method = "GET"
		withNull.Body = nil

		empty := ""
		withEmpty := NewCapture("ep-1", "unknown", base)
		withEmpty.Body = &empty

		_, err := repo.Create(ctx, withNull)
		require.NoError(t, err)
		_, err = repo.Create(ctx, withEmpty)
		require.NoError(t, err)

		got, err := repo.Get(ctx, withNull.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Body)

		got, err = repo.Get(ctx, withEmpty.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Body)
		assert.Equal(t, "", *got.Body)
	})

	t.Run("body cut mid-rune and NUL query value are stored verbatim", func(t *testing.T) {
		repo := newRepo(t)

		// "é" is two bytes; keeping one leaves invalid UTF-8 before the marker
		body := strings.Repeat("a", 9) + "é"[:1] + capture.TruncationMarker
		c := NewCapture("ep-1", "unknown", base)
		c.Body = &body
		c.QueryParams = map[string]string{"a": "\x00", "b": "ok"}

		_, err := repo.Create(ctx, c)
		require.NoError(t, err)

		got, err := repo.Get(ctx, c.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Body)
		assert.Equal(t, []byte(body), []byte(*got.Body))
		assert.Equal(t, c.QueryParams, got.QueryParams)
	})

	t.Run("get missing capture", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, capture.ErrNotFound)
	})

	t.Run("update replay sets every field together", func(t *testing.T) {
		repo := newRepo(t)

		c := NewCapture("ep-1", "stripe", base)
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)

		at := base.Add(time.Minute)
		require.NoError(t, repo.UpdateReplay(ctx, c.ID, capture.ReplayOutcome{Status: 201, Response: "created", At: at}))

		got, err := repo.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.ReplayCount)
		require.NotNil(t, got.LastReplayStatus)
		assert.Equal(t, 201, *got.LastReplayStatus)
		require.NotNil(t, got.LastReplayResponse)
		assert.Equal(t, "created", *got.LastReplayResponse)
		require.NotNil(t, got.LastReplayAt)
		assert.True(t, at.Equal(*got.LastReplayAt))

		require.NoError(t, repo.UpdateReplay(ctx, c.ID, capture.ReplayOutcome{Status: 500, Response: "oops", At: at.Add(time.Second)}))

		got, err = repo.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.ReplayCount)
		assert.Equal(t, 500, *got.LastReplayStatus)
		assert.Equal(t, "oops", *got.LastReplayResponse)
	})

	t.Run("update replay truncates the response", func(t *testing.T) {
		repo := newRepo(t)

		c := NewCapture("ep-1", "stripe", base)
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)

		long := strings.Repeat("r", capture.MaxReplayResponseChars*2)
		require.NoError(t, repo.UpdateReplay(ctx, c.ID, capture.ReplayOutcome{Status: 200, Response: long, At: base}))

		got, err := repo.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Len(t, *got.LastReplayResponse, capture.MaxReplayResponseChars)
	})

	t.Run("update replay on missing capture", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.UpdateReplay(ctx, "ghost", capture.ReplayOutcome{Status: 200, At: base})
		assert.ErrorIs(t, err, capture.ErrNotFound)

		_, err = repo.Get(ctx, "ghost")
		assert.ErrorIs(t, err, capture.ErrNotFound)
	})

	t.Run("concurrent replays are all counted", func(t *testing.T) {
		repo := newRepo(t)

		c := NewCapture("ep-1", "slack", base)
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)

		const n = 10
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- repo.UpdateReplay(ctx, c.ID, capture.ReplayOutcome{
					Status:   200 + i,
					Response: fmt.Sprintf("r%d", i),
					At:       base.Add(time.Duration(i) * time.Second),
				})
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := repo.Get(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, n, got.ReplayCount)

		// status and response always come from the same replay
		require.NotNil(t, got.LastReplayStatus)
		assert.Equal(t, fmt.Sprintf("r%d", *got.LastReplayStatus-200), *got.LastReplayResponse)
	})

	t.Run("list newest first with pagination and source filter", func(t *testing.T) {
		repo := newRepo(t)

		var ids []string
		for i := 0; i < 5; i++ {
			src := "github"
			if i%2 == 1 {
				src = "stripe"
			}
			c := NewCapture("ep-list", src, base.Add(time.Duration(i)*time.Minute))
			_, err := repo.Create(ctx, c)
			require.NoError(t, err)
			ids = append(ids, c.ID)
		}
		other := NewCapture("ep-other", "github", base)
		_, err := repo.Create(ctx, other)
		require.NoError(t, err)

		all, err := repo.ListByEndpoint(ctx, "ep-list", capture.ListOptions{Limit: 10})
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, ids[4], all[0].ID)
		assert.Equal(t, ids[0], all[4].ID)

		page, err := repo.ListByEndpoint(ctx, "ep-list", capture.ListOptions{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, ids[3], page[0].ID)
		assert.Equal(t, ids[2], page[1].ID)

		stripe, err := repo.ListByEndpoint(ctx, "ep-list", capture.ListOptions{Limit: 10, Source: "stripe"})
		require.NoError(t, err)
		require.Len(t, stripe, 2)
		assert.Equal(t, ids[3], stripe[0].ID)

		total, err := repo.CountByEndpointID(ctx, "ep-list", "")
		require.NoError(t, err)
		assert.Equal(t, 5, total)

		total, err = repo.CountByEndpointID(ctx, "ep-list", "github")
		require.NoError(t, err)
		assert.Equal(t, 3, total)

		empty, err := repo.ListByEndpoint(ctx, "ep-none", capture.ListOptions{Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("delete received before cutoff", func(t *testing.T) {
		repo := newRepo(t)

		old := NewCapture("ep-ret", "github", base.Add(-48*time.Hour))
		fresh := NewCapture("ep-ret", "github", base)
		for _, c := range []capture.Capture{old, fresh} {
			_, err := repo.Create(ctx, c)
			require.NoError(t, err)
		}

		n, err := repo.DeleteReceivedBefore(ctx, base.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = repo.Get(ctx, old.ID)
		assert.ErrorIs(t, err, capture.ErrNotFound)

		_, err = repo.Get(ctx, fresh.ID)
		require.NoError(t, err)

		list, err := repo.ListByEndpoint(ctx, "ep-ret", capture.ListOptions{Limit: 10})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, fresh.ID, list[0].ID)

		n, err = repo.DeleteReceivedBefore(ctx, base.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("count by endpoint", func(t *testing.T) {
		repo := newRepo(t)

		for _, ep := range []string{"ep-a", "ep-a", "ep-b"} {
			_, err := repo.Create(ctx, NewCapture(ep, "unknown", base))
			require.NoError(t, err)
		}

		counts, err := repo.CountByEndpoint(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts["ep-a"])
		assert.Equal(t, int64(1), counts["ep-b"])
	})
}
