// Package querycache caches note list pages by query key and tracks which
// response the list view is allowed to show.
package querycache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/marcus/notehub/internal/notehub"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRetries    = 3
	DefaultRetryDelay = time.Second
)

// Key identifies one cacheable result set.
type Key struct {
	Search string
	Page   int
}

func (k Key) String() string {
	return fmt.Sprintf("%q#%d", k.Search, k.Page)
}

// FetchFunc loads the page for key.
type FetchFunc func(ctx context.Context, key Key) (notehub.Page, error)

// Entry is a snapshot of a cached page.
type Entry struct {
	Page      notehub.Page
	FetchedAt time.Time
	Stale     bool
}

type entry struct {
	page        notehub.Page
	fetchedAt   time.Time
	invalidated bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithRetry sets how many times a failed fetch is retried and the initial
// delay, which doubles on every attempt. Zero retries disables retrying.
func WithRetry(retries uint, delay time.Duration) Option {
	return func(c *Cache) {
		c.retries = retries
		c.retryDelay = delay
	}
}

// WithStaleTime sets how long a fetched page counts as fresh. Zero means a
// page is stale as soon as it is stored.
func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) { c.staleTime = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// Cache maps query keys to the latest fetched page. Concurrent fetches of the
// same key share one request. It is safe for concurrent use.
type Cache struct {
	fetch FetchFunc
	group singleflight.Group

	mu      sync.Mutex
	entries map[Key]*entry
	gens    map[Key]uint64
	epoch   uint64

	retries    uint
	retryDelay time.Duration
	staleTime  time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// New creates a cache that loads pages with fetch.
func New(fetch FetchFunc, opts ...Option) *Cache {
	c := &Cache{
		fetch:      fetch,
		entries:    make(map[Key]*entry),
		gens:       make(map[Key]uint64),
		retries:    DefaultRetries,
		retryDelay: DefaultRetryDelay,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch loads key, stores the result and returns it. Callers fetching the same
// key concurrently share the first caller's request, unless the key was
// invalidated after that request started.
func (c *Cache) Fetch(ctx context.Context, key Key) (notehub.Page, error) {
	c.mu.Lock()
	gen, epoch := c.gens[key], c.epoch
	c.mu.Unlock()

	flight := fmt.Sprintf("%s@%d.%d", key, epoch, gen)
	v, err, shared := c.group.Do(flight, func() (any, error) {
		page, err := c.fetchWithRetry(ctx, key)
		if err != nil {
			return notehub.Page{}, err
		}

		c.mu.Lock()
		c.entries[key] = &entry{
			page:      page,
			fetchedAt: c.now(),
			// Invalidated while we were fetching: the result may predate the mutation.
			invalidated: c.gens[key] != gen || c.epoch != epoch,
		}
		c.mu.Unlock()
		return page, nil
	})
	if shared {
		c.logger.Debug("querycache: shared fetch", "key", key.String())
	}
	if err != nil {
		return notehub.Page{}, err
	}
	return v.(notehub.Page), nil
}

func (c *Cache) fetchWithRetry(ctx context.Context, key Key) (notehub.Page, error) {
	var page notehub.Page
	err := retry.Do(
		func() error {
			p, err := c.fetch(ctx, key)
			if err != nil {
				return err
			}
			page = p
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retries+1),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(attempt uint, err error) {
			c.logger.Warn("querycache: fetch failed, retrying",
				slog.String("key", key.String()),
				slog.Uint64("attempt", uint64(attempt+1)),
				slog.Any("err", err),
			)
		}),
	)
	return page, err
}

// retryable skips client errors and cancellation, which will not change on retry.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ve *notehub.ValidationError
	if errors.As(err, &ve) {
		return false
	}
	var se *notehub.ServiceError
	if errors.As(err, &se) {
		return se.Status >= http.StatusInternalServerError || se.Status == http.StatusTooManyRequests
	}
	return true
}

// Peek returns the cached entry for key without fetching.
func (c *Cache) Peek(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Page:      e.page,
		FetchedAt: e.fetchedAt,
		Stale:     e.invalidated || c.now().Sub(e.fetchedAt) >= c.staleTime,
	}, true
}

// Invalidate marks key stale. A fetch already in flight for key will store
// its result as stale too.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[key]++
	if e, ok := c.entries[key]; ok {
		e.invalidated = true
	}
}

// InvalidateAll marks every cached key stale.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	for _, e := range c.entries {
		e.invalidated = true
	}
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
