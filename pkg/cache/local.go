package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultLocalCapacity 本地缓存默认容量(条)
const DefaultLocalCapacity = 1000

// LocalBackend 进程内缓存
// 容量满时淘汰最久未使用的条目;读取不会延长TTL
type LocalBackend struct {
	cache    *ttlcache.Cache[string, []byte]
	capacity uint64
}

// NewLocalBackend 创建本地缓存并启动过期清理goroutine,不再使用时调用Close
func NewLocalBackend(capacity uint64) *LocalBackend {
	if capacity == 0 {
		capacity = DefaultLocalCapacity
	}
	c := ttlcache.New[string, []byte](
		ttlcache.WithCapacity[string, []byte](capacity),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go c.Start()
	return &LocalBackend{cache: c, capacity: capacity}
}

func (l *LocalBackend) Name() string { return "local" }

func (l *LocalBackend) Get(_ context.Context, key string) ([]byte, time.Duration, bool, error) {
	item := l.cache.Get(key)
	if item == nil || item.IsExpired() {
		return nil, 0, false, nil
	}

	remaining := time.Until(item.ExpiresAt())
	if remaining < 0 {
		remaining = 0
	}
	return item.Value(), remaining, true, nil
}

func (l *LocalBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	l.cache.Set(key, value, ttl)
	return nil
}

func (l *LocalBackend) Ping(context.Context) error { return nil }

// Len 当前条目数
func (l *LocalBackend) Len() int {
	return l.cache.Len()
}

// Capacity 最大条目数
func (l *LocalBackend) Capacity() uint64 {
	return l.capacity
}

// Evictions 因容量不足被淘汰的条目数
func (l *LocalBackend) Evictions() uint64 {
	return l.cache.Metrics().Evictions
}

// Close 停止过期清理goroutine
func (l *LocalBackend) Close() {
	l.cache.Stop()
}
