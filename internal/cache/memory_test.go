package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get(missing) err = %v, want ErrCacheMiss", err)
	}

	if err := c.Set(ctx, "k", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Errorf("Get = %q, want %q", got, "value")
	}
}

func TestMemoryCacheReturnsCopy(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("abc"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	first, _ := c.Get(ctx, "k")
	first[0] = 'X'

	second, _ := c.Get(ctx, "k")
	if !bytes.Equal(second, []byte("abc")) {
		t.Errorf("cached value mutated through returned slice: %q", second)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: 10 * time.Millisecond})
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after expiry err = %v, want ErrCacheMiss", err)
	}
	has, err := c.Has(ctx, "k")
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if has {
		t.Error("Has = true after expiry")
	}
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("k%d", i)
		if err := c.Set(ctx, key, []byte("v"), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	if err := c.Delete(ctx, "k0"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if has, _ := c.Has(ctx, "k0"); has {
		t.Error("k0 still present after Delete")
	}
	if has, _ := c.Has(ctx, "k1"); !has {
		t.Error("k1 removed by unrelated Delete")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if has, _ := c.Has(ctx, "k1"); has {
		t.Error("k1 still present after Clear")
	}
}

func TestMemoryCacheDeleteByPrefix(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "nav:main", []byte("a"), 0)
	c.Set(ctx, "nav:footer", []byte("b"), 0)
	c.Set(ctx, "page:1", []byte("c"), 0)

	if err := c.DeleteByPrefix(ctx, "nav:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}

	if has, _ := c.Has(ctx, "nav:main"); has {
		t.Error("nav:main survived prefix delete")
	}
	if has, _ := c.Has(ctx, "nav:footer"); has {
		t.Error("nav:footer survived prefix delete")
	}
	if has, _ := c.Has(ctx, "page:1"); !has {
		t.Error("page:1 removed by prefix delete")
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close err = %v, want ErrCacheClosed", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close err = %v, want ErrCacheClosed", err)
	}

	// Closing twice is fine
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestMemoryCacheStats(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), 0)
	c.Get(ctx, "k")
	c.Get(ctx, "missing")

	stats := c.Stats()
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Sets = %d, want 1", stats.Sets)
	}
	if stats.Items != 1 {
		t.Errorf("Items = %d, want 1", stats.Items)
	}

	c.ResetStats()
	stats = c.Stats()
	if stats.Hits != 0 || stats.Misses != 0 || stats.Sets != 0 {
		t.Errorf("stats not reset: %+v", stats)
	}
}
