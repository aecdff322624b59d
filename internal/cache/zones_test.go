// Copyright (c) 2025-2026 NjCayao
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func TestNavCacheRoundTrip(t *testing.T) {
	backing := NewSimpleMemoryCache(time.Minute)
	defer backing.Close()
	nav := NewNavCache(backing, time.Minute)
	ctx := context.Background()

	if _, err := nav.Get(ctx, "main"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get on empty cache err = %v, want ErrCacheMiss", err)
	}

	tree := []byte(`[{"id":1,"title":"Inicio"}]`)
	if err := nav.Set(ctx, "main", tree); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := nav.Get(ctx, "main")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, tree) {
		t.Errorf("Get = %s, want %s", got, tree)
	}
}

func TestNavCacheInvalidate(t *testing.T) {
	backing := NewSimpleMemoryCache(time.Minute)
	defer backing.Close()
	nav := NewNavCache(backing, time.Minute)
	ctx := context.Background()

	nav.Set(ctx, "main", []byte("a"))
	nav.Set(ctx, "footer", []byte("b"))

	if err := nav.Invalidate(ctx, "main"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := nav.Get(ctx, "main"); !errors.Is(err, ErrCacheMiss) {
		t.Error("main still cached after Invalidate")
	}
	if _, err := nav.Get(ctx, "footer"); err != nil {
		t.Errorf("footer dropped by unrelated Invalidate: %v", err)
	}
}

func TestNavCacheInvalidateAll(t *testing.T) {
	backing := NewSimpleMemoryCache(time.Minute)
	defer backing.Close()
	nav := NewNavCache(backing, time.Minute)
	ctx := context.Background()

	nav.Set(ctx, "main", []byte("a"))
	nav.Set(ctx, "sidebar", []byte("b"))
	// An unrelated key on the shared backing cache survives, since the
	// memory backend supports prefix deletion.
	backing.Set(ctx, "page:1", []byte("c"), 0)

	if err := nav.InvalidateAll(ctx); err != nil {
		t.Fatalf("InvalidateAll: %v", err)
	}

	if _, err := nav.Get(ctx, "main"); !errors.Is(err, ErrCacheMiss) {
		t.Error("main still cached after InvalidateAll")
	}
	if _, err := nav.Get(ctx, "sidebar"); !errors.Is(err, ErrCacheMiss) {
		t.Error("sidebar still cached after InvalidateAll")
	}
	if has, _ := backing.Has(ctx, "page:1"); !has {
		t.Error("unrelated key removed by InvalidateAll")
	}
}
