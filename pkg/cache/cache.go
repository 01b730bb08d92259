// Package cache 提供基于键值存储的泛型缓存.
//
// 在 KVStore 的字节接口之上提供类型安全的读写，值用 sonic 做 JSON
// 序列化，TTL 语义由底层存储（redis/nats/memory）统一保证.
//
// 典型用法是访问代理的预签名 URL 缓存：
//
//	c := cache.NewCache(kvStore)
//	url, err := cache.GetOrSet(ctx, c, key, mintPresignedURL, ttl)
//
// 缓存未命中不是错误；写入失败时 GetOrSet 仍返回新取的值，缓存
// 层的故障不应该阻塞业务.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/alsulaimanm93/minifixwood/pkg/internal/storage/kv"
)

// Cache 基于 KV 存储的缓存实例.
type Cache struct {
	kvStore kv.KVStore
}

// NewCache 创建缓存实例.
func NewCache(kvStore kv.KVStore) *Cache {
	return &Cache{kvStore: kvStore}
}

// Get 读取并反序列化缓存值.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var zero T

	data, err := c.kvStore.Get(ctx, key)
	if err != nil {
		return zero, err
	}

	var value T
	if err := sonic.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return value, nil
}

// Set 序列化并写入缓存值，ttl 为 0 表示不过期.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.kvStore.Set(ctx, key, data, ttl)
}

// GetOrSet 读缓存，未命中时调用 getter 并回填.
// 回填失败不算错误，新值照常返回.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, getter func() (T, error), ttl time.Duration) (T, error) {
	var zero T

	if value, err := Get[T](ctx, c, key); err == nil {
		return value, nil
	}

	value, err := getter()
	if err != nil {
		return zero, err
	}

	if setErr := Set(ctx, c, key, value, ttl); setErr != nil {
		return value, nil
	}

	return value, nil
}

// Delete 删除缓存键.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.kvStore.Delete(ctx, key)
}

// Exists 检查缓存键是否存在.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.kvStore.Exists(ctx, key)
}

// Clear 逐键清空缓存，仅在底层存储支持 Keys 时可用.
func (c *Cache) Clear(ctx context.Context) error {
	keys, err := c.kvStore.Keys(ctx, "*")
	if err != nil {
		return err
	}

	for _, key := range keys {
		if delErr := c.kvStore.Delete(ctx, key); delErr != nil {
			return delErr
		}
	}

	return nil
}
