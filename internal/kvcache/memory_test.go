package kvcache

import (
	"context"
	"testing"
	"time"
)

func TestMemorySetGetDelete(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Fatal("expected miss on empty cache")
	}
	if err := c.Set(ctx, "a", "1", 0); err != nil {
		t.Fatal(err)
	}
	v, ok, err := c.Get(ctx, "a")
	if err != nil || !ok || v != "1" {
		t.Fatalf("got (%q, %v, %v)", v, ok, err)
	}
	if c.Size() != 1 {
		t.Errorf("size = %d, want 1", c.Size())
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestMemoryTTLExpires(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	if err := c.Set(ctx, "a", "1", time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Fatal("expected entry to have expired")
	}
}
