package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	srv := miniredis.RunT(t)
	return NewRedis(srv.Addr(), "", 0)
}

func TestRedisSetGet(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "render:abc.jsx", []byte("<html>"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	val, ok, err := c.Get(ctx, "render:abc.jsx")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !ok {
		t.Fatalf("expected hit")
	}
	if string(val) != "<html>" {
		t.Fatalf("unexpected value: %q", val)
	}
}

func TestRedisGetMiss(t *testing.T) {
	c := newTestRedis(t)

	_, ok, err := c.Get(context.Background(), "render:missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}

func TestRedisDelete(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "render:abc.jsx", []byte("<html>"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Delete(ctx, "render:abc.jsx"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	_, ok, err := c.Get(ctx, "render:abc.jsx")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Fatalf("expected miss after delete")
	}
}
