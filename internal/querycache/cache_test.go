package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marcus/notehub/internal/notehub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func pageOf(titles ...string) notehub.Page {
	p := notehub.Page{TotalPages: 1}
	for i, t := range titles {
		p.Notes = append(p.Notes, notehub.Note{ID: string(rune('a' + i)), Title: t, Tag: notehub.TagTodo})
	}
	return p
}

func TestFetch_StoresResult(t *testing.T) {
	c := New(func(ctx context.Context, key Key) (notehub.Page, error) {
		return pageOf(key.Search), nil
	}, WithStaleTime(time.Hour))

	key := Key{Search: "meeting", Page: 1}
	page, err := c.Fetch(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "meeting", page.Notes[0].Title)

	e, ok := c.Peek(key)
	require.True(t, ok)
	assert.False(t, e.Stale)
	assert.Equal(t, page, e.Page)
	assert.Equal(t, 1, c.Len())
}

func TestPeek_Missing(t *testing.T) {
	c := New(func(context.Context, Key) (notehub.Page, error) { return notehub.Page{}, nil })
	_, ok := c.Peek(Key{Page: 1})
	assert.False(t, ok, "a key never fetched must not be reported")
}

func TestPeek_StaleAfterStaleTime(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(func(context.Context, Key) (notehub.Page, error) { return pageOf("x"), nil },
		WithStaleTime(time.Minute))
	c.now = func() time.Time { return now }

	key := Key{Page: 1}
	_, err := c.Fetch(context.Background(), key)
	require.NoError(t, err)

	e, _ := c.Peek(key)
	assert.False(t, e.Stale)

	now = now.Add(2 * time.Minute)
	e, _ = c.Peek(key)
	assert.True(t, e.Stale)
}

func TestPeek_ZeroStaleTimeAlwaysStale(t *testing.T) {
	c := New(func(context.Context, Key) (notehub.Page, error) { return pageOf("x"), nil })
	key := Key{Page: 1}
	_, err := c.Fetch(context.Background(), key)
	require.NoError(t, err)

	e, ok := c.Peek(key)
	require.True(t, ok)
	assert.True(t, e.Stale)
}

func TestInvalidate(t *testing.T) {
	c := New(func(context.Context, Key) (notehub.Page, error) { return pageOf("x"), nil },
		WithStaleTime(time.Hour))
	k1, k2 := Key{Page: 1}, Key{Page: 2}
	for _, k := range []Key{k1, k2} {
		_, err := c.Fetch(context.Background(), k)
		require.NoError(t, err)
	}

	c.Invalidate(k1)
	e1, _ := c.Peek(k1)
	e2, _ := c.Peek(k2)
	assert.True(t, e1.Stale)
	assert.False(t, e2.Stale)

	c.InvalidateAll()
	e2, _ = c.Peek(k2)
	assert.True(t, e2.Stale)

	// A refetch makes the entry fresh again.
	_, err := c.Fetch(context.Background(), k1)
	require.NoError(t, err)
	e1, _ = c.Peek(k1)
	assert.False(t, e1.Stale)
}

func TestInvalidate_DuringFetchLeavesEntryStale(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c := New(func(context.Context, Key) (notehub.Page, error) {
		close(started)
		<-release
		return pageOf("before mutation"), nil
	}, WithStaleTime(time.Hour))

	key := Key{Search: "x", Page: 1}
	done := make(chan error, 1)
	go func() {
		_, err := c.Fetch(context.Background(), key)
		done <- err
	}()

	<-started
	c.Invalidate(key)
	close(release)
	require.NoError(t, <-done)

	e, ok := c.Peek(key)
	require.True(t, ok)
	assert.True(t, e.Stale)
}

func TestFetch_DeduplicatesConcurrentCalls(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := New(func(context.Context, Key) (notehub.Page, error) {
		calls.Add(1)
		<-release
		return pageOf("shared"), nil
	})

	key := Key{Search: "dup", Page: 1}
	var wg sync.WaitGroup
	results := make([]notehub.Page, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := c.Fetch(context.Background(), key)
			assert.NoError(t, err)
			results[i] = p
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, p := range results {
		assert.Equal(t, "shared", p.Notes[0].Title)
	}
}

func TestFetch_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := New(func(context.Context, Key) (notehub.Page, error) {
		if calls.Add(1) < 3 {
			return notehub.Page{}, &notehub.NetworkError{Op: "list notes", Err: errors.New("connection reset")}
		}
		return pageOf("ok"), nil
	}, WithRetry(3, time.Millisecond))

	page, err := c.Fetch(context.Background(), Key{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, "ok", page.Notes[0].Title)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c := New(func(context.Context, Key) (notehub.Page, error) {
		calls.Add(1)
		return notehub.Page{}, &notehub.ServiceError{Op: "list notes", Status: 503, Message: "down"}
	}, WithRetry(2, time.Millisecond))

	_, err := c.Fetch(context.Background(), Key{Page: 1})
	require.Error(t, err)
	assert.True(t, notehub.IsService(err))
	assert.Equal(t, int32(3), calls.Load())

	_, ok := c.Peek(Key{Page: 1})
	assert.False(t, ok, "failed fetches are not cached")
}

func TestFetch_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	c := New(func(context.Context, Key) (notehub.Page, error) {
		calls.Add(1)
		return notehub.Page{}, &notehub.ServiceError{Op: "list notes", Status: 401, Message: "Invalid token"}
	}, WithRetry(3, time.Millisecond))

	_, err := c.Fetch(context.Background(), Key{Page: 1})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_ZeroRetries(t *testing.T) {
	var calls atomic.Int32
	c := New(func(context.Context, Key) (notehub.Page, error) {
		calls.Add(1)
		return notehub.Page{}, &notehub.NetworkError{Op: "list notes", Err: errors.New("refused")}
	}, WithRetry(0, time.Millisecond))

	_, err := c.Fetch(context.Background(), Key{Page: 1})
	require.Error(t, err)
	assert.True(t, notehub.IsNetwork(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(&notehub.NetworkError{Err: errors.New("x")}))
	assert.True(t, retryable(&notehub.ServiceError{Status: 500}))
	assert.True(t, retryable(&notehub.ServiceError{Status: 429}))
	assert.False(t, retryable(&notehub.ServiceError{Status: 404}))
	assert.False(t, retryable(&notehub.ValidationError{}))
	assert.False(t, retryable(&notehub.NetworkError{Err: context.Canceled}))
}
