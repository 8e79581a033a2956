package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	type payload struct{ V int }
	if err := mc.Set(ctx, "k", &payload{V: 7}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var raw interface{}
	if err := mc.Get(ctx, "k", &raw); err != nil {
		t.Fatalf("get: %v", err)
	}
	got, ok := raw.(*payload)
	if !ok || got.V != 7 {
		t.Fatalf("unexpected value %#v", raw)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var raw interface{}
	if err := mc.Get(context.Background(), "missing", &raw); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheDeleteByPattern(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	for _, key := range []string{"forecast:ACME:baseline:7", "forecast:ACME:learned:7", "forecast:BETA:baseline:7"} {
		if err := mc.Set(ctx, key, 1, time.Minute); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	if err := mc.DeleteByPattern(ctx, "forecast:ACME:*"); err != nil {
		t.Fatalf("delete by pattern: %v", err)
	}

	if ok, _ := mc.Exists(ctx, "forecast:ACME:baseline:7", "forecast:ACME:learned:7"); ok {
		t.Fatalf("ACME keys should be gone")
	}
	if ok, _ := mc.Exists(ctx, "forecast:BETA:baseline:7"); !ok {
		t.Fatalf("BETA key should survive")
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", 1, time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "b", 2, time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "c", 3, time.Minute)

	if ok, _ := mc.Exists(ctx, "a"); ok {
		t.Fatalf("oldest key should have been evicted")
	}
	if ok, _ := mc.Exists(ctx, "b", "c"); !ok {
		t.Fatalf("recent keys should survive")
	}
}
