package session

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStoreTest(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return NewRedisStore(rdb, "accred", ""), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newRedisStoreTest(t)
	ctx := context.Background()

	if err := store.Save(ctx, &Session{Email: "a@b.com", Role: "user", Token: "T"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Fixed-key layout is a compatibility surface.
	if !mr.Exists("accred:accred_user") {
		t.Fatalf("expected record under accred:accred_user")
	}

	got, err := store.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Email != "a@b.com" || got.Token != "T" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestRedisStoreAbsentAndClearIdempotent(t *testing.T) {
	store, _ := newRedisStoreTest(t)
	ctx := context.Background()

	if _, err := store.Read(ctx); !errors.Is(err, ErrAbsent) {
		t.Fatalf("want ErrAbsent, got %v", err)
	}

	if err := store.Save(ctx, &Session{Email: "a@b.com"}); err != nil {
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

func TestRedisStoreMalformedRecord(t *testing.T) {
	store, mr := newRedisStoreTest(t)

	mr.Set("accred:accred_user", "{broken")

	if _, err := store.Read(context.Background()); !errors.Is(err, ErrMalformed) {
		t.Fatalf("want ErrMalformed, got %v", err)
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	store, mr := newRedisStoreTest(t)
	mr.Close()

	if err := store.Save(context.Background(), &Session{Email: "a@b.com"}); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
	if _, err := store.Read(context.Background()); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("read: want ErrStoreUnavailable, got %v", err)
	}
}
