package infra

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_RoundTripWithinTTL(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 50*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit before ttl, ok=%v err=%v", ok, err)
	}
	if string(b) != "v" {
		t.Fatalf("expected v, got %q", b)
	}
}

func TestMemoryCache_MissAfterTTL(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after ttl")
	}
}

func TestMemoryCache_DeleteRemovesEntry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	_ = c.Delete(ctx, "k")

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestMemoryCache_SweepRemovesExpiredEntries(t *testing.T) {
	c := NewMemoryCache(WithSweepEvery(0))
	ctx := context.Background()

	_ = c.Set(ctx, "old", []byte("v"), 5*time.Millisecond)
	_ = c.Set(ctx, "fresh", []byte("v"), time.Minute)
	time.Sleep(15 * time.Millisecond)

	c.Sweep()

	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after sweep, got %d", c.Len())
	}
	if _, ok, _ := c.Get(ctx, "fresh"); !ok {
		t.Fatalf("fresh entry must survive sweep")
	}
}
