package memory

import (
	"context"
	"testing"
)

func TestKVStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()

	if _, ok, err := store.Get(ctx, "streak"); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "streak", `{"currentStreak":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, _ := store.Get(ctx, "streak")
	if !ok || v != `{"currentStreak":1}` {
		t.Fatalf("unexpected value %q ok=%v", v, ok)
	}

	_ = store.Remove(ctx, "streak")
	if store.Len() != 0 {
		t.Fatalf("expected key removed")
	}
	if err := store.Remove(ctx, "streak"); err != nil {
		t.Fatalf("removing a missing key should succeed: %v", err)
	}
}
