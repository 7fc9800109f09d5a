package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if got, err := store.Get(ctx, "missing"); err != nil || got != nil {
		t.Fatalf("expected nil for missing session, got %+v err=%v", got, err)
	}

	state := New("call-1", "+13105550100")
	state.SetSlot("name", "Maria")
	if err := store.Put(ctx, state); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "call-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Slot("name") != "Maria" {
		t.Fatalf("unexpected state: %+v", got)
	}

	ids, err := store.ActiveCallIDs(ctx)
	if err != nil || len(ids) != 1 || ids[0] != "call-1" {
		t.Fatalf("unexpected active ids: %v err=%v", ids, err)
	}

	if err := store.Delete(ctx, "call-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := store.Get(ctx, "call-1"); got != nil {
		t.Fatal("expected session gone after delete")
	}
	// Deleting an absent session is not an error.
	if err := store.Delete(ctx, "call-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestMemoryStore_RejectsEmptyCallID(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Put(context.Background(), New("", "")); err == nil {
		t.Fatal("expected error for empty call id")
	}
}

func TestMemoryStore_SweepStale(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Put(ctx, New("old", "")); err != nil {
		t.Fatalf("put: %v", err)
	}
	store.sessions["old"].touched = time.Now().Add(-time.Hour)
	if err := store.Put(ctx, New("fresh", "")); err != nil {
		t.Fatalf("put: %v", err)
	}

	if removed := store.SweepStale(30 * time.Minute); removed != 1 {
		t.Fatalf("expected 1 swept, got %d", removed)
	}
	if got, _ := store.Get(ctx, "old"); got != nil {
		t.Fatal("expected stale session removed")
	}
	if got, _ := store.Get(ctx, "fresh"); got == nil {
		t.Fatal("expected fresh session kept")
	}
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+mr.Addr(), time.Minute)
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if got, err := store.Get(ctx, "missing"); err != nil || got != nil {
		t.Fatalf("expected nil for missing session, got %+v err=%v", got, err)
	}

	state := New("call-9", "+13105550100")
	state.SetSlot("event_date", "2026-09-04")
	state.AddMessage("user", "hello")
	if err := store.Put(ctx, state); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "call-9")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Slot("event_date") != "2026-09-04" || len(got.Messages) != 1 {
		t.Fatalf("unexpected state after round trip: %+v", got)
	}

	ids, err := store.ActiveCallIDs(ctx)
	if err != nil || len(ids) != 1 || ids[0] != "call-9" {
		t.Fatalf("unexpected active ids: %v err=%v", ids, err)
	}

	if err := store.Delete(ctx, "call-9"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := store.Get(ctx, "call-9"); got != nil {
		t.Fatal("expected session gone after delete")
	}
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+mr.Addr(), time.Minute)
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Put(ctx, New("call-ttl", "")); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if got, _ := store.Get(ctx, "call-ttl"); got != nil {
		t.Fatal("expected session expired after TTL")
	}
}
