package kv

import (
	"context"
	"testing"
	"time"
)

// TestMemoryKVBasic 验证内存实现的基本读写删.
func TestMemoryKVBasic(t *testing.T) {
	ctx := context.Background()

	store, err := NewKVStore(ctx, KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("create memory kv: %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, "k1", []byte("v1"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if string(got) != "v1" {
		t.Fatalf("got %q, want %q", got, "v1")
	}

	exists, err := store.Exists(ctx, "k1")
	if err != nil || !exists {
		t.Fatalf("exists = %v, err = %v", exists, err)
	}

	if err := store.Delete(ctx, "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := store.Get(ctx, "k1"); err == nil {
		t.Fatal("expected error after delete")
	}
}

// TestMemoryKVTTLExpiry 验证过期键在读取时惰性删除.
func TestMemoryKVTTLExpiry(t *testing.T) {
	ctx := context.Background()

	store, err := NewKVStore(ctx, KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("create memory kv: %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, "short", []byte("gone soon"), time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	// 未过期可读
	if _, err := store.Get(ctx, "short"); err != nil {
		t.Fatalf("get before expiry: %v", err)
	}

	// TTL 包装器按秒判定过期
	time.Sleep(1100 * time.Millisecond)

	if _, err := store.Get(ctx, "short"); err == nil {
		t.Fatal("expected key to be expired")
	}

	exists, err := store.Exists(ctx, "short")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}

	if exists {
		t.Fatal("expired key should not exist")
	}
}

// TestTTLEnvelopeRoundTrip 验证包装器编码解码与无TTL直通.
func TestTTLEnvelopeRoundTrip(t *testing.T) {
	raw := []byte("plain value")

	// ttl=0 不包装
	out, wrapped, err := encodeWithTTL(raw, 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if wrapped {
		t.Fatal("ttl=0 should not wrap")
	}

	val, expired, w, err := decodeWithTTL(out, time.Now())
	if err != nil || expired || w {
		t.Fatalf("decode passthrough: val=%q expired=%v wrapped=%v err=%v", val, expired, w, err)
	}

	// ttl>0 包装且未过期时还原原值
	out, wrapped, err = encodeWithTTL(raw, time.Minute)
	if err != nil {
		t.Fatalf("encode with ttl: %v", err)
	}

	if !wrapped {
		t.Fatal("ttl>0 should wrap")
	}

	val, expired, w, err = decodeWithTTL(out, time.Now())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if expired || !w || string(val) != string(raw) {
		t.Fatalf("decode mismatch: val=%q expired=%v wrapped=%v", val, expired, w)
	}

	// 过了到期时间应判定过期
	_, expired, _, err = decodeWithTTL(out, time.Now().Add(2*time.Minute))
	if err != nil {
		t.Fatalf("decode future: %v", err)
	}

	if !expired {
		t.Fatal("expected expired")
	}
}

func BenchmarkMemoryKV(b *testing.B) {
	ctx := context.Background()

	store, err := NewKVStore(ctx, KVTypeMemory, nil)
	if err != nil {
		b.Fatalf("create memory kv: %v", err)
	}
	defer store.Close()

	payload := make([]byte, 1024)

	b.ReportAllocs()

	for i := 0; b.Loop(); i++ {
		key := "bench-memory"
		if err := store.Set(ctx, key, payload, 0); err != nil {
			b.Fatalf("set failed: %v", err)
		}

		if _, err := store.Get(ctx, key); err != nil {
			b.Fatalf("get failed: %v", err)
		}

		if err := store.Delete(ctx, key); err != nil {
			b.Fatalf("delete failed: %v", err)
		}
	}
}
