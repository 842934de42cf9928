package handler

import (
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xiebiao/vibeshelf/pkg/cache"
	"github.com/xiebiao/vibeshelf/pkg/metrics"
	"github.com/xiebiao/vibeshelf/pkg/response"
)

const cacheStrategy = "redis-primary-local-fallback"

// MetricsHandler 运行指标
// /metrics 和 /metrics/cache 返回JSON汇总，/metrics/prometheus 给Prometheus抓取
type MetricsHandler struct {
	store     *cache.Store
	startedAt time.Time
}

// NewMetricsHandler 创建指标处理器
func NewMetricsHandler(store *cache.Store) *MetricsHandler {
	metrics.InitMetrics()
	return &MetricsHandler{store: store, startedAt: time.Now()}
}

// MetricsResponse /metrics响应
type MetricsResponse struct {
	Timestamp   string          `json:"timestamp"`
	Cache       CacheInfo       `json:"cache"`
	System      SystemInfo      `json:"system"`
	Application ApplicationInfo `json:"application"`
	HTTP        HTTPInfo        `json:"http"`
}

// CacheInfo 缓存后端与命中统计
type CacheInfo struct {
	CacheNames  []string          `json:"cacheNames"`
	TotalCaches int               `json:"totalCaches"`
	RegionTTLs  map[string]string `json:"regionTtls"`
	Hits        float64           `json:"hits"`
	Misses      float64           `json:"misses"`
	Errors      float64           `json:"errors"`
	Fallbacks   float64           `json:"fallbacks"`
	Redis       *RedisInfo        `json:"redis,omitempty"`
	Fallback    *FallbackInfo     `json:"fallback,omitempty"`
}

// RedisInfo 使用Redis时的信息
type RedisInfo struct {
	Connected bool        `json:"connected"`
	Type      string      `json:"type"`
	Breaker   BreakerInfo `json:"circuitBreaker"`
	Pool      PoolInfo    `json:"pool"`
}

// BreakerInfo 熔断器状态和当前窗口的统计
type BreakerInfo struct {
	State               string  `json:"state"`
	Requests            uint32  `json:"requests"`
	Failures            uint32  `json:"failures"`
	ConsecutiveFailures uint32  `json:"consecutiveFailures"`
	FailureRate         float64 `json:"failureRate"`
}

// PoolInfo Redis连接池统计
type PoolInfo struct {
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
	Timeouts   uint32 `json:"timeouts"`
}

// FallbackInfo 使用进程内缓存时的信息
type FallbackInfo struct {
	Type      string `json:"type"`
	Status    string `json:"status"`
	Entries   int    `json:"entries"`
	Capacity  uint64 `json:"capacity"`
	Evictions uint64 `json:"evictions"`
}

// SystemInfo 运行时信息
type SystemInfo struct {
	Processors int         `json:"processors"`
	Goroutines int         `json:"goroutines"`
	GoVersion  string      `json:"goVersion"`
	Memory     MemoryStats `json:"memory"`
}

// ApplicationInfo 应用信息
type ApplicationInfo struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	CacheStrategy string `json:"cacheStrategy"`
	Uptime        string `json:"uptime"`
}

// HTTPInfo 请求统计
type HTTPInfo struct {
	RequestsTotal      float64 `json:"requestsTotal"`
	RequestsInProgress float64 `json:"requestsInProgress"`
}

// Metrics 应用指标汇总
// @Summary      指标汇总
// @Tags         运维
// @Produce      json
// @Success      200 {object} MetricsResponse
// @Router       /api/metrics [get]
func (h *MetricsHandler) Metrics(c *gin.Context) {
	response.Success(c, MetricsResponse{
		Timestamp: time.Now().Format(time.RFC3339),
		Cache:     h.cacheInfo(c),
		System: SystemInfo{
			Processors: runtime.NumCPU(),
			Goroutines: runtime.NumGoroutine(),
			GoVersion:  runtime.Version(),
			Memory:     readMemoryStats(),
		},
		Application: ApplicationInfo{
			Name:          applicationName,
			Version:       applicationVersion,
			CacheStrategy: cacheStrategy,
			Uptime:        time.Since(h.startedAt).Truncate(time.Second).String(),
		},
		HTTP: HTTPInfo{
			RequestsTotal:      metrics.SumCounterVec(metrics.HTTPRequestsTotal, nil),
			RequestsInProgress: metrics.GaugeValue(metrics.HTTPRequestsInProgress),
		},
	})
}

// CacheMetrics 缓存指标
// @Summary      缓存指标
// @Tags         运维
// @Produce      json
// @Success      200 {object} CacheInfo
// @Router       /api/metrics/cache [get]
func (h *MetricsHandler) CacheMetrics(c *gin.Context) {
	response.Success(c, h.cacheInfo(c))
}

// Prometheus Prometheus抓取端点
// @Summary      Prometheus指标
// @Tags         运维
// @Produce      plain
// @Success      200 {string} string
// @Router       /api/metrics/prometheus [get]
func (h *MetricsHandler) Prometheus() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func (h *MetricsHandler) cacheInfo(c *gin.Context) CacheInfo {
	regions := h.store.Regions()
	names := make([]string, 0, len(regions))
	ttls := make(map[string]string, len(regions))
	for name, ttl := range regions {
		names = append(names, name)
		ttls[name] = ttl.String()
	}
	sort.Strings(names)

	backend := h.store.Backend()
	info := CacheInfo{
		CacheNames:  names,
		TotalCaches: len(names),
		RegionTTLs:  ttls,
		Hits:        metrics.SumCounterVec(metrics.CacheOperationsTotal, map[string]string{"result": metrics.ResultHit}),
		Misses:      metrics.SumCounterVec(metrics.CacheOperationsTotal, map[string]string{"result": metrics.ResultMiss}),
		Errors:      metrics.SumCounterVec(metrics.CacheOperationsTotal, map[string]string{"result": metrics.ResultError}),
		Fallbacks:   metrics.CounterValue(metrics.CacheFallbacksTotal),
	}

	switch b := backend.(type) {
	case *cache.RedisBackend:
		counts := b.Breaker().Counts()
		pool := b.PoolStats()
		info.Redis = &RedisInfo{
			Connected: b.Ping(c.Request.Context()) == nil,
			Type:      b.Name(),
			Breaker: BreakerInfo{
				State:               b.Breaker().State().String(),
				Requests:            counts.Requests,
				Failures:            counts.TotalFailures,
				ConsecutiveFailures: counts.ConsecutiveFailures,
				FailureRate:         counts.FailureRate(),
			},
			Pool: PoolInfo{
				TotalConns: pool.TotalConns,
				IdleConns:  pool.IdleConns,
				Timeouts:   pool.Timeouts,
			},
		}
	case *cache.LocalBackend:
		info.Fallback = &FallbackInfo{
			Type:      "ttlcache",
			Status:    "ACTIVE",
			Entries:   b.Len(),
			Capacity:  b.Capacity(),
			Evictions: b.Evictions(),
		}
	}
	return info
}
