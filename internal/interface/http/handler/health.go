package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xiebiao/vibeshelf/internal/infrastructure/config"
	"github.com/xiebiao/vibeshelf/pkg/cache"
	"github.com/xiebiao/vibeshelf/pkg/logger"
)

const (
	applicationName    = "vibeshelf-backend"
	applicationVersion = "1.0.0"

	statusUp           = "UP"
	statusDown         = "DOWN"
	statusNotAvailable = "NOT_AVAILABLE"

	healthCheckTimeout = 3 * time.Second
)

// HealthHandler 健康检查
// 设计说明：
// 1. 数据库不可用时整体DOWN并返回503，负载均衡据此摘除实例
// 2. Redis不可用不影响整体状态，缓存已降级到进程内ttlcache
// 3. 每个依赖都带上探测耗时，方便排查慢依赖
type HealthHandler struct {
	db     *gorm.DB
	store  *cache.Store
	driver string
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(db *gorm.DB, store *cache.Store, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: db, store: store, driver: cfg.Database.Driver}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status      string           `json:"status"`
	Timestamp   string           `json:"timestamp"`
	Application string           `json:"application"`
	Version     string           `json:"version"`
	Database    DependencyStatus `json:"database"`
	Redis       DependencyStatus `json:"redis"`
	Memory      MemoryStats      `json:"memory"`
}

// DependencyStatus 单个依赖的状态
type DependencyStatus struct {
	Status       string `json:"status"`
	ResponseTime string `json:"responseTime,omitempty"`
	Driver       string `json:"driver,omitempty"`
	Type         string `json:"type,omitempty"`
	Note         string `json:"note,omitempty"`
	Error        string `json:"error,omitempty"`
}

// MemoryStats Go运行时内存概况
type MemoryStats struct {
	Max             string `json:"max"`
	Total           string `json:"total"`
	Used            string `json:"used"`
	Free            string `json:"free"`
	UsagePercentage string `json:"usagePercentage"`
}

// Health 健康检查
// @Summary      健康检查
// @Description  检查数据库、缓存后端和内存；数据库不可用时返回503
// @Tags         运维
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /api/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:      statusUp,
		Timestamp:   time.Now().Format(time.RFC3339),
		Application: applicationName,
		Version:     applicationVersion,
		Database:    h.checkDatabase(ctx),
		Redis:       h.checkCache(ctx),
		Memory:      readMemoryStats(),
	}

	status := http.StatusOK
	if resp.Database.Status != statusUp {
		resp.Status = statusDown
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) DependencyStatus {
	start := time.Now()
	result := DependencyStatus{Status: statusUp, Driver: h.driver}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	result.ResponseTime = elapsedMillis(start)
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("database health check failed")
		result.Status = statusDown
		result.Error = err.Error()
	}
	return result
}

func (h *HealthHandler) checkCache(ctx context.Context) DependencyStatus {
	backend := h.store.Backend()
	if _, ok := backend.(*cache.RedisBackend); !ok {
		return DependencyStatus{
			Status: statusNotAvailable,
			Type:   backend.Name(),
			Note:   "Redis not available, using in-process cache fallback",
		}
	}

	start := time.Now()
	result := DependencyStatus{Status: statusUp, Type: backend.Name()}
	err := backend.Ping(ctx)
	result.ResponseTime = elapsedMillis(start)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("redis health check failed")
		result.Status = statusDown
		result.Error = err.Error()
	}
	return result
}

// readMemoryStats max取GOMEMLIMIT（未设置时为系统分配总量）
func readMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	total := m.Sys
	used := m.HeapAlloc
	max := total
	if limit := debug.SetMemoryLimit(-1); limit > 0 && uint64(limit) < 1<<62 {
		max = uint64(limit)
	}

	usage := 0.0
	if max > 0 {
		usage = float64(used) / float64(max) * 100
	}

	return MemoryStats{
		Max:             formatMB(max),
		Total:           formatMB(total),
		Used:            formatMB(used),
		Free:            formatMB(total - used),
		UsagePercentage: fmt.Sprintf("%.2f%%", usage),
	}
}

func formatMB(bytes uint64) string {
	return fmt.Sprintf("%d MB", bytes/1024/1024)
}

func elapsedMillis(start time.Time) string {
	return fmt.Sprintf("%dms", time.Since(start).Milliseconds())
}
