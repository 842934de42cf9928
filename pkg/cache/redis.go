package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/vibeshelf/pkg/circuitbreaker"
)

// RedisBackend Redis后端
// 每次调用都有独立超时,并经过熔断器;redis.Nil(key不存在)不计为失败
type RedisBackend struct {
	client  *redis.Client
	timeout time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewRedisBackend 创建Redis后端
func NewRedisBackend(client *redis.Client, timeout time.Duration, breaker *circuitbreaker.CircuitBreaker) *RedisBackend {
	if breaker == nil {
		cfg := circuitbreaker.DefaultConfig()
		cfg.IsSuccessful = func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		}
		breaker = circuitbreaker.NewCircuitBreaker("cache-redis", cfg)
	}
	return &RedisBackend{client: client, timeout: timeout, breaker: breaker}
}

func (r *RedisBackend) Name() string { return "redis" }

// Breaker 熔断器(健康检查和指标使用)
func (r *RedisBackend) Breaker() *circuitbreaker.CircuitBreaker { return r.breaker }

// PoolStats 连接池统计(指标接口使用)
func (r *RedisBackend) PoolStats() *redis.PoolStats { return r.client.PoolStats() }

func (r *RedisBackend) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Get 通过pipeline同时取值和剩余TTL
func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, time.Duration, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		getCmd *redis.StringCmd
		ttlCmd *redis.DurationCmd
	)
	err := r.breaker.Execute(func() error {
		_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			getCmd = pipe.Get(ctx, key)
			ttlCmd = pipe.PTTL(ctx, key)
			return nil
		})
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}

	value, err := getCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}

	// PTTL: -1表示没有过期时间,-2表示key不存在
	remaining := ttlCmd.Val()
	if remaining < 0 {
		remaining = 0
	}
	return value, remaining, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.breaker.Execute(func() error {
		return r.client.Set(ctx, key, value, ttl).Err()
	})
}

func (r *RedisBackend) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.client.Ping(ctx).Err()
}
