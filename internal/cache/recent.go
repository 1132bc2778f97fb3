// Package cache implements the bounded recent-activity tier: a
// most-recent-first list of lightweight activity summaries persisted as a
// single serialized blob. It is a non-authoritative projection of the
// durable history and may be dropped or rebuilt at any time.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/echohealth-screening-server/internal/domain"
)

// DefaultCapacity bounds the cache when no capacity is configured.
const DefaultCapacity = 20

// BlobStore persists the serialized entry list under a fixed namespace key.
type BlobStore interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, blob []byte) error
	Delete(ctx context.Context) error
}

// RecentActivityCache is the bounded, most-recent-first cache tier. Order is
// always insertion order; entries are never re-sorted by any other key.
type RecentActivityCache struct {
	store    BlobStore
	capacity int
	log      *logrus.Logger
}

// NewRecentActivityCache creates a cache over the given blob store.
func NewRecentActivityCache(store BlobStore, capacity int, logger *logrus.Logger) *RecentActivityCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RecentActivityCache{
		store:    store,
		capacity: capacity,
		log:      logger,
	}
}

// Prepend inserts an entry at the front, dropping the oldest entries while
// the list exceeds capacity.
func (c *RecentActivityCache) Prepend(ctx context.Context, entry domain.RecentActivity) error {
	entries, err := c.load(ctx)
	if err != nil {
		return err
	}

	entries = append([]domain.RecentActivity{entry}, entries...)
	if len(entries) > c.capacity {
		entries = entries[:c.capacity]
	}

	return c.save(ctx, entries)
}

// List returns the most recent entries, newest first, capped at
// min(limit, capacity). A non-positive limit means the full capacity.
func (c *RecentActivityCache) List(ctx context.Context, limit int) ([]domain.RecentActivity, error) {
	entries, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > c.capacity {
		limit = c.capacity
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

// Clear empties the cache.
func (c *RecentActivityCache) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx); err != nil {
		return fmt.Errorf("clearing recent activity: %w", err)
	}
	return nil
}

func (c *RecentActivityCache) load(ctx context.Context) ([]domain.RecentActivity, error) {
	blob, err := c.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading recent activity: %w", err)
	}
	if len(blob) == 0 {
		return nil, nil
	}

	var entries []domain.RecentActivity
	if err := json.Unmarshal(blob, &entries); err != nil {
		// A corrupted blob is discarded rather than poisoning every later
		// read; the durable store still holds the full history.
		c.log.WithError(err).Warn("Discarding corrupted recent-activity blob")
		return nil, nil
	}

	return entries, nil
}

func (c *RecentActivityCache) save(ctx context.Context, entries []domain.RecentActivity) error {
	blob, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding recent activity: %w", err)
	}
	if err := c.store.Set(ctx, blob); err != nil {
		return fmt.Errorf("writing recent activity: %w", err)
	}
	return nil
}
