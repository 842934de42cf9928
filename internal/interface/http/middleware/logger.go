package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xiebiao/vibeshelf/pkg/logger"
	"github.com/xiebiao/vibeshelf/pkg/tracing"
)

const (
	// HeaderRequestID 请求ID头，客户端传入时沿用
	HeaderRequestID = "X-Request-ID"

	slowRequestThreshold = 3 * time.Second
)

// RequestLogger 请求日志中间件
// 1. 生成（或沿用）请求ID，写入响应头X-Request-ID
// 2. 把带request_id/trace_id/span_id的Logger放进请求context，后续logger.FromContext都会带上这些字段
// 3. 请求结束后输出一条结构化访问日志，慢请求用warn级别
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 请求ID
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		// 2. 请求级Logger
		ctx := c.Request.Context()
		fields := logger.FromContext(ctx).With().Str("request_id", requestID)
		if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
			fields = fields.Str("trace_id", traceID).Str("span_id", tracing.ExtractSpanID(ctx))
		}
		reqLogger := fields.Logger()
		c.Request = c.Request.WithContext(logger.WithContext(ctx, reqLogger))

		start := time.Now()
		c.Next()

		// 3. 访问日志
		latency := time.Since(start)
		status := c.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = reqLogger.Error()
		case latency > slowRequestThreshold:
			event = reqLogger.Warn().Bool("slow", true)
		default:
			event = reqLogger.Info()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Int("size", c.Writer.Size()).
			Msg("request")
	}
}
