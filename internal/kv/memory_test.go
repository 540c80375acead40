package kv

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get() = %q, %v; want v1", got, err)
	}

	// Set sobreescribe el valor anterior.
	if err := store.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, _ = store.Get(ctx, "k")
	if string(got) != "v2" {
		t.Fatalf("Get() after overwrite = %q, want v2", got)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
	}
	// Delete es idempotente.
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("second Delete() error: %v", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.SetTTL(ctx, "code", []byte("123456"), 5*time.Minute); err != nil {
		t.Fatalf("SetTTL() error: %v", err)
	}

	now = now.Add(4 * time.Minute)
	if _, err := store.Get(ctx, "code"); err != nil {
		t.Fatalf("Get() before expiry error: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, "code"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListByPrefix(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_ = store.Set(ctx, "user_a@example.com", []byte("a"))
	_ = store.Set(ctx, "user_b@example.com", []byte("b"))
	_ = store.Set(ctx, "session_1", []byte("s"))
	_ = store.SetTTL(ctx, "user_gone@example.com", []byte("g"), time.Minute)

	now = now.Add(2 * time.Minute)
	got, err := store.ListByPrefix(ctx, "user_")
	if err != nil {
		t.Fatalf("ListByPrefix() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (expired and foreign keys excluded)", len(got))
	}
	if string(got["user_a@example.com"]) != "a" {
		t.Fatalf("value = %q, want a", got["user_a@example.com"])
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "k", []byte("abc"))
	got, _ := store.Get(ctx, "k")
	got[0] = 'x'

	again, _ := store.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("stored value mutated through returned slice: %q", again)
	}
}
