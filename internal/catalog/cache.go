// Package catalog caches section listings so repeated map renders do not
// refetch the same section. It replaces the module-level cache maps of
// earlier revisions with an explicit service: constructed once per process,
// injected into consumers, with Get/Set/Invalidate and an in-flight dedup
// map guaranteeing at most one fetch per section at a time.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mapnote/shopedit/internal/domain"
)

// Fetcher loads a section's shops from persistence. *service.ShopService
// satisfies it.
type Fetcher interface {
	ListBySection(ctx context.Context, sectionName string) ([]domain.Shop, error)
}

// readAttempts and readDelay define the read-path retry policy: a fixed
// inter-attempt delay, three attempts total, then the failure surfaces and
// the caller falls back to an empty result set.
const (
	readAttempts = 3
	readDelay    = 500 * time.Millisecond
)

// inflight tracks one in-progress fetch. Waiters block on done and then read
// items/err.
type inflight struct {
	done  chan struct{}
	items []domain.Shop
	err   error
}

// Cache is the per-section shop cache.
type Cache struct {
	fetch Fetcher
	log   *slog.Logger
	delay time.Duration

	mu       sync.Mutex
	items    map[string][]domain.Shop
	inflight map[string]*inflight
}

// New constructs an empty Cache reading through fetch.
func New(fetch Fetcher, log *slog.Logger) *Cache {
	return &Cache{
		fetch:    fetch,
		log:      log,
		delay:    readDelay,
		items:    make(map[string][]domain.Shop),
		inflight: make(map[string]*inflight),
	}
}

// Get returns the shops for a section, fetching through the Fetcher on a
// cache miss. Concurrent misses for the same section share a single fetch.
// Fetches are retried up to three times with a fixed delay; after exhaustion
// the error is returned alongside an empty (non-nil) slice so the caller can
// still render.
func (c *Cache) Get(ctx context.Context, sectionName string) ([]domain.Shop, error) {
	c.mu.Lock()
	if items, ok := c.items[sectionName]; ok {
		c.mu.Unlock()
		return append([]domain.Shop(nil), items...), nil
	}
	if call, ok := c.inflight[sectionName]; ok {
		c.mu.Unlock()
		select {
		case <-call.done:
			return append([]domain.Shop(nil), call.items...), call.err
		case <-ctx.Done():
			return []domain.Shop{}, ctx.Err()
		}
	}
	call := &inflight{done: make(chan struct{})}
	c.inflight[sectionName] = call
	c.mu.Unlock()

	call.items, call.err = c.fetchWithRetry(ctx, sectionName)
	close(call.done)

	c.mu.Lock()
	delete(c.inflight, sectionName)
	if call.err == nil {
		c.items[sectionName] = call.items
	}
	c.mu.Unlock()

	return append([]domain.Shop(nil), call.items...), call.err
}

// Set stores a section listing directly (e.g. from a realtime snapshot).
func (c *Cache) Set(sectionName string, items []domain.Shop) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[sectionName] = append([]domain.Shop(nil), items...)
}

// Invalidate drops a section's cached listing. The next Get refetches.
func (c *Cache) Invalidate(sectionName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, sectionName)
}

// fetchWithRetry runs the read-path retry policy. Every fetch error is
// treated as transient.
func (c *Cache) fetchWithRetry(ctx context.Context, sectionName string) ([]domain.Shop, error) {
	var items []domain.Shop

	backoff := retry.WithMaxRetries(readAttempts-1, retry.NewConstant(c.delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		fetched, err := c.fetch.ListBySection(ctx, sectionName)
		if err != nil {
			c.log.Warn("section fetch failed", "section", sectionName, "error", err)
			return retry.RetryableError(err)
		}
		items = fetched
		return nil
	})
	if err != nil {
		return []domain.Shop{}, fmt.Errorf("catalog.Cache.Get: %w", err)
	}
	if items == nil {
		items = []domain.Shop{}
	}
	return items, nil
}
