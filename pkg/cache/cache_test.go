package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alsulaimanm93/minifixwood/pkg/cache"
	kvc "github.com/alsulaimanm93/minifixwood/pkg/internal/storage/kv"
)

// signedURL 模拟访问代理缓存的预签名结果.
type signedURL struct {
	URL       string `json:"url"`
	ObjectKey string `json:"object_key"`
	ExpiresIn int    `json:"expires_in"`
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()

	store, err := kvc.NewKVStore(context.Background(), kvc.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("memory kv: %v", err)
	}

	return cache.NewCache(store)
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	want := signedURL{
		URL:       "https://s3.local/minifixwood/files/f1/tok/report.pdf?sig=abc",
		ObjectKey: "files/f1/tok/report.pdf",
		ExpiresIn: 900,
	}

	if err := cache.Set(ctx, c, "presign:get:1", want, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := cache.Get[signedURL](ctx, c, "presign:get:1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheMiss(t *testing.T) {
	c := newTestCache(t)

	if _, err := cache.Get[signedURL](context.Background(), c, "nope"); err == nil {
		t.Error("expected error on cache miss")
	}
}

func TestCacheGetOrSet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	mint := func() (string, error) {
		calls++

		return "https://s3.local/signed", nil
	}

	first, err := cache.GetOrSet(ctx, c, "k", mint, time.Minute)
	if err != nil {
		t.Fatalf("first: %v", err)
	}

	second, err := cache.GetOrSet(ctx, c, "k", mint, time.Minute)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if first != second {
		t.Errorf("values differ: %q vs %q", first, second)
	}

	if calls != 1 {
		t.Errorf("getter calls = %d, want 1", calls)
	}
}

func TestCacheGetOrSetGetterError(t *testing.T) {
	c := newTestCache(t)

	wantErr := errors.New("mint failed")

	_, err := cache.GetOrSet(context.Background(), c, "k", func() (string, error) {
		return "", wantErr
	}, time.Minute)
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestCacheDeleteAndExists(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, c, "k", "v", 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	exists, err := c.Exists(ctx, "k")
	if err != nil || !exists {
		t.Fatalf("exists = %v, %v", exists, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	exists, err = c.Exists(ctx, "k")
	if err != nil || exists {
		t.Fatalf("after delete exists = %v, %v", exists, err)
	}
}
