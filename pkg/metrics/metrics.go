// Package metrics 基于Prometheus的指标收集
//
// 指标分组：
//   - HTTP：请求数、耗时、进行中请求数
//   - 缓存：按后端/区域统计命中、未命中、错误，以及降级次数
//   - 熔断器：状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
//   - 认证：注册、登录、验证码等事件
//   - 消息队列：发布、消费、处理耗时
//
// /metrics/prometheus 端点通过promhttp暴露全部指标，
// /metrics 的JSON汇总通过CounterValue/GaugeValue读取当前值。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

var initOnce sync.Once

// 缓存操作结果标签
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
	ResultSet   = "set"
)

var (
	// ========== HTTP指标 ==========

	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// ========== 缓存指标 ==========

	// CacheOperationsTotal 标签：backend（redis/local）、region、result（hit/miss/error/set）
	CacheOperationsTotal *prometheus.CounterVec

	// CacheFallbacksTotal 远程缓存失败后改用本地缓存的次数
	CacheFallbacksTotal prometheus.Counter

	// ========== 熔断器指标 ==========

	CircuitBreakerState *prometheus.GaugeVec

	// ========== 业务指标 ==========

	// AuthEventsTotal 标签：event（signup/login/verify/forgot/reset）、result（success/failure）
	AuthEventsTotal *prometheus.CounterVec

	// BookViewsTotal 详情页浏览次数（异步递增view_count）
	BookViewsTotal prometheus.Counter

	// ========== 消息队列指标 ==========

	MessagesPublishedTotal    *prometheus.CounterVec
	MessagesConsumedTotal     *prometheus.CounterVec
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 注册全部指标（可重复调用）
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "缓存操作总数",
		},
		[]string{"backend", "region", "result"},
	)

	CacheFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_fallbacks_total",
			Help: "远程缓存不可用时降级到本地缓存的次数",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "认证事件总数",
		},
		[]string{"event", "result"},
	)

	BookViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "book_views_total",
			Help: "图书详情浏览次数",
		},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10},
		},
	)
}

// ========== 辅助函数 ==========

func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	gauge.With(labels).Set(value)
}

func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}

// RecordCache 记录一次缓存操作
func RecordCache(backend, region, result string) {
	InitMetrics()
	CacheOperationsTotal.With(prometheus.Labels{
		"backend": backend,
		"region":  region,
		"result":  result,
	}).Inc()
}

// RecordAuth 记录一次认证事件
func RecordAuth(event string, ok bool) {
	InitMetrics()
	result := "success"
	if !ok {
		result = "failure"
	}
	AuthEventsTotal.With(prometheus.Labels{"event": event, "result": result}).Inc()
}

// ========== 读取当前值（JSON汇总使用） ==========

// CounterValue 读取Counter当前值
func CounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil || m.Counter == nil {
		return 0
	}
	return m.Counter.GetValue()
}

// GaugeValue 读取Gauge当前值
func GaugeValue(g prometheus.Gauge) float64 {
	m := &dto.Metric{}
	if err := g.Write(m); err != nil || m.Gauge == nil {
		return 0
	}
	return m.Gauge.GetValue()
}

// SumCounterVec 按标签过滤后对CounterVec求和
// match为空时对全部序列求和
func SumCounterVec(vec *prometheus.CounterVec, match map[string]string) float64 {
	ch := make(chan prometheus.Metric, 64)
	go func() {
		vec.Collect(ch)
		close(ch)
	}()

	var sum float64
	for metric := range ch {
		m := &dto.Metric{}
		if err := metric.Write(m); err != nil || m.Counter == nil {
			continue
		}
		if labelsMatch(m.GetLabel(), match) {
			sum += m.Counter.GetValue()
		}
	}
	return sum
}

func labelsMatch(pairs []*dto.LabelPair, match map[string]string) bool {
	for name, want := range match {
		found := false
		for _, p := range pairs {
			if p.GetName() == name && p.GetValue() == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
