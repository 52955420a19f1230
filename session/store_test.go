package session

import (
	"context"
	"errors"
	"testing"
)

// Shared behavior contract exercised against the in-memory backend. The file
// and Redis backends run the same assertions in their own test files.

func TestMemorySaveReplacesPriorRecord(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, &Session{Email: "old@b.com", Role: "admin", Token: "T1"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save(ctx, &Session{Email: "new@b.com", Token: "T2"}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Email != "new@b.com" || got.Token != "T2" || got.Role != "" {
		t.Fatalf("save did not fully replace record: %+v", got)
	}
}

func TestMemoryReadAbsent(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Read(context.Background()); !errors.Is(err, ErrAbsent) {
		t.Fatalf("want ErrAbsent, got %v", err)
	}
}

func TestMemoryClearIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, &Session{Email: "a@b.com", Token: "T"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("first clear: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if _, err := store.Read(ctx); !errors.Is(err, ErrAbsent) {
		t.Fatalf("read after clear: want ErrAbsent, got %v", err)
	}
}

func TestMemoryMalformedRecord(t *testing.T) {
	store := NewMemoryStore()
	store.SetRaw([]byte("{not json"))

	if _, err := store.Read(context.Background()); !errors.Is(err, ErrMalformed) {
		t.Fatalf("want ErrMalformed, got %v", err)
	}
}

func TestMemoryReadReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, &Session{Email: "a@b.com", Token: "T"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	first, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	first.Token = "tampered"

	second, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if second.Token != "T" {
		t.Fatalf("stored record mutated through returned pointer")
	}
}
