package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"helphive-gateway/internal/state"
	"helphive-gateway/pkg/types"
)

func newTestCache(capacity int) *ResponseCache {
	return NewResponseCache(state.NewManager(state.NewMemoryStore()), capacity)
}

func TestCacheGetPut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestCache(10)

	if _, hit := c.Get(ctx, "text::hello"); hit {
		t.Fatalf("expected miss on empty cache")
	}

	c.Put(ctx, "text::hello", json.RawMessage(`{"title":"Hello"}`))

	got, hit := c.Get(ctx, "text::hello")
	if !hit {
		t.Fatalf("expected hit after Put")
	}
	if string(got) != `{"title":"Hello"}` {
		t.Fatalf("unexpected cached value: %s", got)
	}
}

func TestCacheFIFOEviction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestCache(3)

	for i := 0; i < 3; i++ {
		c.Put(ctx, fmt.Sprintf("k%d", i), json.RawMessage(`{}`))
	}

	// Reading the oldest entry must not promote it.
	if _, hit := c.Get(ctx, "k0"); !hit {
		t.Fatalf("expected k0 present before eviction")
	}

	c.Put(ctx, "k3", json.RawMessage(`{}`))

	if _, hit := c.Get(ctx, "k0"); hit {
		t.Fatalf("k0 should be evicted first despite the recent read")
	}
	for _, k := range []string{"k1", "k2", "k3"} {
		if _, hit := c.Get(ctx, k); !hit {
			t.Fatalf("expected %s to survive", k)
		}
	}
	if n := c.Len(ctx); n != 3 {
		t.Fatalf("expected len 3, got %d", n)
	}
}

func TestCacheOverwriteKeepsSlot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestCache(3)

	c.Put(ctx, "k0", json.RawMessage(`{"v":0}`))
	c.Put(ctx, "k1", json.RawMessage(`{"v":1}`))
	c.Put(ctx, "k2", json.RawMessage(`{"v":2}`))

	// Overwriting k0 keeps it in the oldest slot.
	c.Put(ctx, "k0", json.RawMessage(`{"v":9}`))
	if n := c.Len(ctx); n != 3 {
		t.Fatalf("overwrite must not grow the cache, len=%d", n)
	}

	got, hit := c.Get(ctx, "k0")
	if !hit || string(got) != `{"v":9}` {
		t.Fatalf("overwrite not applied: hit=%v value=%s", hit, got)
	}

	c.Put(ctx, "k3", json.RawMessage(`{}`))
	if _, hit := c.Get(ctx, "k0"); hit {
		t.Fatalf("k0 should still be first out")
	}
}

func TestCacheAtDefaultCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestCache(DefaultCapacity)

	for i := 0; i < DefaultCapacity+1; i++ {
		c.Put(ctx, fmt.Sprintf("k%d", i), json.RawMessage(`{}`))
	}

	if n := c.Len(ctx); n != DefaultCapacity {
		t.Fatalf("expected len %d, got %d", DefaultCapacity, n)
	}
	if _, hit := c.Get(ctx, "k0"); hit {
		t.Fatalf("oldest entry should be gone after overflow")
	}
	if _, hit := c.Get(ctx, fmt.Sprintf("k%d", DefaultCapacity)); !hit {
		t.Fatalf("newest entry missing")
	}
}

func TestRequestKeyVerbatim(t *testing.T) {
	t.Parallel()

	// The raw input is embedded untouched: case and whitespace matter.
	if got := RequestKey(types.KindText, "  Hello "); got != "text::  Hello " {
		t.Fatalf("unexpected key: %q", got)
	}
	if RequestKey(types.KindText, "hello") == RequestKey(types.KindVoice, "hello") {
		t.Fatalf("kinds must produce distinct keys")
	}
}

func TestRankKeySensitivity(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	summaries := []types.TaskSummary{
		{ID: "t1", Title: "Grocery run", Urgency: types.UrgencyMedium, Category: types.CategoryShopping, Distance: "2km", CreatedAt: created},
	}

	k1, err := RankKey(summaries)
	if err != nil {
		t.Fatalf("RankKey: %v", err)
	}
	if len(k1) == 0 || k1[:12] != "prioritize::" {
		t.Fatalf("unexpected prefix: %q", k1)
	}

	summaries[0].Distance = "3km"
	k2, err := RankKey(summaries)
	if err != nil {
		t.Fatalf("RankKey: %v", err)
	}
	if k1 == k2 {
		t.Fatalf("distance drift should change the fingerprint")
	}
}
