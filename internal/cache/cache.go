package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"AssetTracker/internal/model"
)

// Joiner builds an aligned table for a list of assets.
type Joiner interface {
	JoinAssets(ctx context.Context, assets []string, period model.Period) (model.JoinedTable, error)
}

type entry struct {
	bucket int64
	table  model.JoinedTable
}

// Tables memoizes joined tables per (assets, period, time bucket). A bucket
// is TTL wide, so every entry goes stale at the next bucket boundary.
// Concurrent misses for the same key each recompute and the last write wins;
// stored tables are never modified. Failed joins are not cached.
type Tables struct {
	J        Joiner
	TTL      time.Duration
	MaxItems int
	Now      func() time.Time

	mu    sync.RWMutex
	items map[string]entry
}

func (c *Tables) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Key is the memoization key for one request in one bucket.
func Key(assets []string, period model.Period, bucket int64) string {
	var b strings.Builder
	for _, a := range assets {
		b.WriteString(a)
		b.WriteByte(0)
	}
	b.WriteString(string(period))
	b.WriteByte('@')
	b.WriteString(strconv.FormatInt(bucket, 10))
	return b.String()
}

// JoinAssets returns the cached table for the current bucket or joins anew.
func (c *Tables) JoinAssets(ctx context.Context, assets []string, period model.Period) (model.JoinedTable, error) {
	if c.TTL <= 0 {
		return c.J.JoinAssets(ctx, assets, period)
	}
	bucket := c.now().UnixNano() / int64(c.TTL)
	key := Key(assets, period, bucket)

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return e.table, nil
	}

	table, err := c.J.JoinAssets(ctx, assets, period)
	if err != nil {
		return table, err
	}
	c.store(key, bucket, table)
	return table, nil
}

func (c *Tables) store(key string, bucket int64, table model.JoinedTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string]entry)
	}
	// Drop entries from earlier buckets; they can no longer be hit.
	for k, e := range c.items {
		if e.bucket < bucket {
			delete(c.items, k)
		}
	}
	c.items[key] = entry{bucket: bucket, table: table}
	if c.MaxItems > 0 {
		for k := range c.items {
			if len(c.items) <= c.MaxItems {
				break
			}
			if k != key {
				delete(c.items, k)
			}
		}
	}
}

// Len returns the number of live entries.
func (c *Tables) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
