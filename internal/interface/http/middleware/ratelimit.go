package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"

	"github.com/xiebiao/vibeshelf/internal/infrastructure/config"
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
	"github.com/xiebiao/vibeshelf/pkg/response"
)

const defaultLimiterIdleTTL = 10 * time.Minute

// RateLimiter 按客户端IP的令牌桶限流
// 每个IP一个rate.Limiter，存放在ttlcache中；闲置超过IdleTTL的桶自动回收
type RateLimiter struct {
	limiters *ttlcache.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewRateLimiter 创建限流器；调用方负责在退出时调用Stop
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	idle := cfg.IdleTTL
	if idle <= 0 {
		idle = defaultLimiterIdleTTL
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	limiters := ttlcache.New[string, *rate.Limiter](
		ttlcache.WithTTL[string, *rate.Limiter](idle),
	)
	go limiters.Start()

	return &RateLimiter{
		limiters: limiters,
		limit:    rate.Limit(cfg.RPS),
		burst:    burst,
	}
}

// Stop 停止过期清理协程
func (rl *RateLimiter) Stop() {
	rl.limiters.Stop()
}

// limiterFor 取出客户端的令牌桶，访问会刷新闲置计时
func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	if item := rl.limiters.Get(key); item != nil {
		return item.Value()
	}
	item, _ := rl.limiters.GetOrSet(key, rate.NewLimiter(rl.limit, rl.burst))
	return item.Value()
}

// Middleware 超出速率返回429
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			response.AbortWithError(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
