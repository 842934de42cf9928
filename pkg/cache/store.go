package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/xiebiao/vibeshelf/pkg/circuitbreaker"
	"github.com/xiebiao/vibeshelf/pkg/logger"
	"github.com/xiebiao/vibeshelf/pkg/metrics"
)

// DefaultTTL 未配置区域的TTL
const DefaultTTL = 10 * time.Minute

// DefaultRegionTTLs 默认区域TTL
func DefaultRegionTTLs() map[string]time.Duration {
	return map[string]time.Duration{
		"books:page":        5 * time.Minute,
		"books:search":      30 * time.Minute,
		"books:popular":     2 * time.Hour,
		"books:count":       time.Hour,
		"books:genre":       15 * time.Minute,
		"books:suggestions": 60 * time.Minute,
	}
}

// Options 缓存配置
type Options struct {
	KeyPrefix        string
	DefaultTTL       time.Duration
	Regions          map[string]time.Duration // 覆盖DefaultRegionTTLs中的同名区域
	LocalCapacity    uint64
	OperationTimeout time.Duration
}

// Store 带区域TTL的缓存
type Store struct {
	backend    Backend
	prefix     string
	defaultTTL time.Duration
	regions    map[string]time.Duration
}

// NewStore 选择后端并创建Store
// client为nil或Ping失败时使用本地缓存;选定后整个进程生命周期不再切换
func NewStore(ctx context.Context, client *redis.Client, opts Options) *Store {
	var backend Backend
	if client != nil {
		rb := NewRedisBackend(client, opts.OperationTimeout, nil)
		rb.Breaker().SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("cache circuit breaker state changed")
			metrics.InitMetrics()
			metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		})

		if err := rb.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, using in-process cache")
			metrics.InitMetrics()
			metrics.IncCounter(metrics.CacheFallbacksTotal)
		} else {
			backend = rb
		}
	}
	if backend == nil {
		backend = NewLocalBackend(opts.LocalCapacity)
	}

	log.Info().Str("backend", backend.Name()).Msg("catalog cache backend selected")
	return NewStoreWithBackend(backend, opts)
}

// NewStoreWithBackend 使用指定后端创建Store
func NewStoreWithBackend(backend Backend, opts Options) *Store {
	regions := DefaultRegionTTLs()
	for region, ttl := range opts.Regions {
		if ttl > 0 {
			regions[region] = ttl
		}
	}

	defaultTTL := opts.DefaultTTL
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}

	return &Store{
		backend:    backend,
		prefix:     opts.KeyPrefix,
		defaultTTL: defaultTTL,
		regions:    regions,
	}
}

// Backend 当前后端
func (s *Store) Backend() Backend {
	return s.backend
}

// TTL 区域的TTL,未配置时返回默认值
func (s *Store) TTL(region string) time.Duration {
	if ttl, ok := s.regions[region]; ok {
		return ttl
	}
	return s.defaultTTL
}

// Regions 全部已配置区域的TTL(副本)
func (s *Store) Regions() map[string]time.Duration {
	out := make(map[string]time.Duration, len(s.regions))
	for k, v := range s.regions {
		out[k] = v
	}
	return out
}

func (s *Store) fullKey(region, key string) string {
	if s.prefix == "" {
		return region + ":" + key
	}
	return s.prefix + ":" + region + ":" + key
}

// Get 读取并反序列化到dest
// 后端故障、数据损坏都按未命中处理(记日志和指标),不返回错误
func (s *Store) Get(ctx context.Context, region, key string, dest interface{}) (Lookup, error) {
	metrics.InitMetrics()
	backend := s.backend.Name()

	raw, remaining, found, err := s.backend.Get(ctx, s.fullKey(region, key))
	if err != nil {
		metrics.RecordCache(backend, region, metrics.ResultError)
		logger.FromContext(ctx).Warn().Err(err).Str("backend", backend).Str("region", region).Msg("cache get failed")
		return Lookup{}, nil
	}
	if !found {
		metrics.RecordCache(backend, region, metrics.ResultMiss)
		return Lookup{}, nil
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		metrics.RecordCache(backend, region, metrics.ResultError)
		logger.FromContext(ctx).Warn().Err(err).Str("region", region).Str("key", key).Msg("cache entry undecodable, treating as miss")
		return Lookup{}, nil
	}

	metrics.RecordCache(backend, region, metrics.ResultHit)

	age := time.Duration(0)
	if remaining > 0 {
		age = s.TTL(region) - remaining
		if age < 0 {
			age = 0
		}
	}
	return Lookup{Cached: true, Age: age}, nil
}

// Put 序列化并写入,TTL按区域取
// value为nil(包括nil指针、nil切片、nil map)时不写入,未命中不会被缓存成负结果
func (s *Store) Put(ctx context.Context, region, key string, value interface{}) error {
	if isNil(value) {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("缓存序列化失败: %w", err)
	}

	metrics.InitMetrics()
	if err := s.backend.Set(ctx, s.fullKey(region, key), raw, s.TTL(region)); err != nil {
		metrics.RecordCache(s.backend.Name(), region, metrics.ResultError)
		logger.FromContext(ctx).Warn().Err(err).Str("backend", s.backend.Name()).Str("region", region).Msg("cache set failed")
		return nil
	}
	metrics.RecordCache(s.backend.Name(), region, metrics.ResultSet)
	return nil
}

// SetRaw 写入原始字节并指定TTL(不走区域TTL)
func (s *Store) SetRaw(ctx context.Context, region, key string, value []byte, ttl time.Duration) error {
	return s.backend.Set(ctx, s.fullKey(region, key), value, ttl)
}

// Exists 条目是否存在
// 与Get相同,后端故障按不存在处理(记日志和指标)
func (s *Store) Exists(ctx context.Context, region, key string) bool {
	metrics.InitMetrics()
	backend := s.backend.Name()

	_, _, found, err := s.backend.Get(ctx, s.fullKey(region, key))
	if err != nil {
		metrics.RecordCache(backend, region, metrics.ResultError)
		logger.FromContext(ctx).Warn().Err(err).Str("backend", backend).Str("region", region).Msg("cache exists check failed")
		return false
	}
	if found {
		metrics.RecordCache(backend, region, metrics.ResultHit)
	} else {
		metrics.RecordCache(backend, region, metrics.ResultMiss)
	}
	return found
}

// Ping 检查后端
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
