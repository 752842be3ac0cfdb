package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory_TTL(t *testing.T) {
	c := NewMemory()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "short", map[string]any{"v": 1}, time.Second)
	_ = c.Set(ctx, "forever", map[string]any{"v": 2}, Forever)

	now = now.Add(time.Second)

	if ok, _ := c.Has(ctx, "short"); ok {
		t.Fatalf("short should have expired")
	}
	if _, err := c.Get(ctx, "short"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	now = now.Add(24 * 365 * time.Hour)
	v, err := c.Get(ctx, "forever")
	if err != nil || v["v"] != 2 {
		t.Fatalf("forever entry lost: %v %v", v, err)
	}
}

func TestMemory_BatchAndClear(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	_ = c.SetMultiple(ctx, map[string]map[string]any{"a": {}, "b": {}, "c": {}}, time.Hour)
	got, _ := c.GetMultiple(ctx, []string{"a", "c", "d"})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}

	_ = c.DeleteMultiple(ctx, []string{"a"})
	if ok, _ := c.Has(ctx, "a"); ok {
		t.Fatalf("a should be gone")
	}

	_ = c.Clear(ctx)
	if ok, _ := c.Has(ctx, "b"); ok {
		t.Fatalf("clear left b behind")
	}
}
