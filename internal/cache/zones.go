// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"time"
)

const navKeyPrefix = "nav:"

// NavCache caches rendered navigation trees per zone.
// Values are the JSON-encoded public trees served by the frontend
// navigation endpoint, invalidated whenever a zone changes.
type NavCache struct {
	cache Cacher
	ttl   time.Duration
}

// NewNavCache creates a navigation cache on top of a backing Cacher.
func NewNavCache(cache Cacher, ttl time.Duration) *NavCache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &NavCache{cache: cache, ttl: ttl}
}

// Get returns the cached tree for a zone, or ErrCacheMiss.
func (c *NavCache) Get(ctx context.Context, zone string) ([]byte, error) {
	return c.cache.Get(ctx, navKeyPrefix+zone)
}

// Set stores the rendered tree for a zone.
func (c *NavCache) Set(ctx context.Context, zone string, data []byte) error {
	return c.cache.Set(ctx, navKeyPrefix+zone, data, c.ttl)
}

// Invalidate drops the cached tree for a single zone.
func (c *NavCache) Invalidate(ctx context.Context, zone string) error {
	return c.cache.Delete(ctx, navKeyPrefix+zone)
}

// InvalidateAll drops every cached zone tree. Prefix deletion is used
// where the backend supports it; otherwise the whole cache is cleared.
func (c *NavCache) InvalidateAll(ctx context.Context) error {
	type prefixDeleter interface {
		DeleteByPrefix(ctx context.Context, prefix string) error
	}
	if pd, ok := c.cache.(prefixDeleter); ok {
		return pd.DeleteByPrefix(ctx, navKeyPrefix)
	}
	return c.cache.Clear(ctx)
}
