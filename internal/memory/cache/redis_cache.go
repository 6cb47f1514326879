package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisTable 是 Store 的 Redis 实现，用于希望缓存跨进程重启存活的部署。
// 语义与内存实现一致：读取时惰性检查条目自身的过期时刻。
// 缓存操作尽力而为，Redis 错误一律按未命中处理。
type RedisTable[T any] struct {
	client   *redis.Client
	prefix   string
	expireAt func(item T) *time.Time
	now      func() time.Time
}

// NewRedisTable 创建一个以 prefix 作为键名空间的 Redis 缓存表。
func NewRedisTable[T any](client *redis.Client, prefix string, expireAt func(item T) *time.Time, now func() time.Time) *RedisTable[T] {
	if now == nil {
		now = time.Now
	}
	return &RedisTable[T]{
		client:   client,
		prefix:   prefix,
		expireAt: expireAt,
		now:      now,
	}
}

func (c *RedisTable[T]) key(key string) string {
	return c.prefix + ":" + key
}

// Get 根据键获取一个值，过期条目被删除并按未命中处理。
func (c *RedisTable[T]) Get(key string) (T, bool) {
	var zero T
	ctx := context.Background()

	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return zero, false
	}

	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		c.client.Del(ctx, c.key(key))
		return zero, false
	}

	if exp := c.expireAt(item); exp != nil && !exp.After(c.now()) {
		c.client.Del(ctx, c.key(key))
		return zero, false
	}
	return item, true
}

// Put 向缓存中写入一个键值对。
func (c *RedisTable[T]) Put(key string, item T) {
	data, err := json.Marshal(item)
	if err != nil {
		return
	}
	c.client.Set(context.Background(), c.key(key), data, 0)
}

// Delete 从缓存中移除一个键。
func (c *RedisTable[T]) Delete(key string) {
	c.client.Del(context.Background(), c.key(key))
}

// Clear 清空本表名空间下的所有键。
func (c *RedisTable[T]) Clear() {
	ctx := context.Background()
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
}

// Len 返回本表名空间下的键数量。
func (c *RedisTable[T]) Len() int {
	ctx := context.Background()
	var n int
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	return n
}
