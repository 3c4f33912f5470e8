package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedisStore struct {
	values map[string]string
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: map[string]string{}}
}

func (f *fakeRedisStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) Get(ctx context.Context, key string) (string, error) {
	value, exists := f.values[key]
	if !exists {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeRedisStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockAcquireRelease(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "tf:lock:cron", time.Minute)
	if err != nil {
		t.Fatalf("construct lock: %v", err)
	}
	ctx := context.Background()

	ok, err := lock.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected acquire to succeed, ok=%v err=%v", ok, err)
	}

	second, err := NewRedisLock(store, "tf:lock:cron", time.Minute)
	if err != nil {
		t.Fatalf("construct lock: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || ok {
		t.Fatalf("expected second acquire to fail, ok=%v err=%v", ok, err)
	}

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected acquire after release, ok=%v err=%v", ok, err)
	}
}

func TestRedisLockReleaseOnlyOwnLock(t *testing.T) {
	store := newFakeRedisStore()
	ctx := context.Background()

	first, _ := NewRedisLock(store, "tf:lock:cron", time.Minute)
	if ok, _ := first.Acquire(ctx); !ok {
		t.Fatal("expected acquire")
	}

	// Simulate TTL expiry and takeover by another worker.
	store.values["tf:lock:cron"] = "someone-else"

	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["tf:lock:cron"] != "someone-else" {
		t.Fatal("expected foreign lock left intact")
	}
}

func TestRedisLockReleaseWithoutAcquireIsNoop(t *testing.T) {
	store := newFakeRedisStore()
	lock, _ := NewRedisLock(store, "tf:lock:cron", time.Minute)
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("release: %v", err)
	}
}
