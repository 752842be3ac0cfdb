package cache

import (
	"context"
	"testing"
	"time"
)

func TestDynamo_SetGet(t *testing.T) {
	mock := newSimpleMock()
	c := NewDynamo(mock, "fne-cache")
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	value := map[string]any{"reference": "9606123E25000000019", "balance_sticker": float64(179)}
	if err := c.Set(ctx, "fne:invoice:abc", value, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := c.Get(ctx, "fne:invoice:abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["reference"] != "9606123E25000000019" || got["balance_sticker"] != float64(179) {
		t.Fatalf("unexpected value: %v", got)
	}

	ok, err := c.Has(ctx, "fne:invoice:abc")
	if err != nil || !ok {
		t.Fatalf("expected key present, got %v %v", ok, err)
	}
}

func TestDynamo_ExpiredEntryIsMissing(t *testing.T) {
	mock := newSimpleMock()
	c := NewDynamo(mock, "fne-cache")
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	c.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	if err := c.Set(ctx, "k", map[string]any{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	now = now.Add(2 * time.Minute)

	if _, err := c.Get(ctx, "k"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ok, _ := c.Has(ctx, "k"); ok {
		t.Fatalf("expired key reported present")
	}
}

func TestDynamo_ForeverHasNoTTL(t *testing.T) {
	mock := newSimpleMock()
	c := NewDynamo(mock, "fne-cache")
	ctx := context.Background()

	if err := c.Set(ctx, "k", map[string]any{"a": "b"}, Forever); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := mock.table["k"]["expires_at"]; ok {
		t.Fatalf("forever entries must not carry expires_at")
	}
}

func TestDynamo_Batch(t *testing.T) {
	mock := newSimpleMock()
	mock.unprocessOnce = true
	c := NewDynamo(mock, "fne-cache")
	ctx := context.Background()

	err := c.SetMultiple(ctx, map[string]map[string]any{
		"a": {"reference": "A"},
		"b": {"reference": "B"},
	}, 0)
	if err != nil {
		t.Fatalf("set multiple: %v", err)
	}

	got, err := c.GetMultiple(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("get multiple: %v", err)
	}
	if len(got) != 2 || got["b"]["reference"] != "B" {
		t.Fatalf("unexpected batch result: %v", got)
	}
	if mock.batchCalls != 2 {
		t.Fatalf("expected unprocessed keys to be retried, got %d calls", mock.batchCalls)
	}

	if err := c.DeleteMultiple(ctx, []string{"a"}); err != nil {
		t.Fatalf("delete multiple: %v", err)
	}
	if ok, _ := c.Has(ctx, "a"); ok {
		t.Fatalf("a should be deleted")
	}
}

func TestDynamo_Clear(t *testing.T) {
	mock := newSimpleMock()
	c := NewDynamo(mock, "fne-cache")
	ctx := context.Background()

	for _, k := range []string{"x", "y", "z"} {
		if err := c.Set(ctx, k, map[string]any{}, 0); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(mock.table) != 0 {
		t.Fatalf("expected empty table, got %d items", len(mock.table))
	}
}
