package redis

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "foo", "bar", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "foo")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if val != "bar" {
		t.Fatalf("expected bar, got %s", val)
	}
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "dashboard:revenue:unit-1", "{}", time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := cache.Set(ctx, "dashboard:dre:unit-1", "{}", time.Minute); err != nil {
		t.Fatal(err)
	}

	if err := cache.Delete(ctx, "dashboard:revenue:unit-1", "dashboard:dre:unit-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, "dashboard:revenue:unit-1"); err != redislib.Nil {
		t.Fatalf("expected key gone, got err=%v", err)
	}

	// Deleting nothing is a no-op.
	if err := cache.Delete(ctx); err != nil {
		t.Fatalf("empty delete failed: %v", err)
	}
}
