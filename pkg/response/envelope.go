package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// 数据来源（meta.source）
const (
	SourceDatabase = "database"
	SourceCache    = "cache"
	SourceError    = "error"
)

// Envelope v2接口统一响应结构
// {data, pagination, meta, error}
type Envelope struct {
	Data       interface{} `json:"data"`
	Pagination interface{} `json:"pagination,omitempty"`
	Meta       Meta        `json:"meta"`
	Error      string      `json:"error,omitempty"`
}

// Meta 响应元信息
// CacheAge单位为秒，ProcessingTime单位为毫秒
type Meta struct {
	Cached         bool   `json:"cached"`
	CacheAge       int64  `json:"cacheAge"`
	Source         string `json:"source"`
	ProcessingTime int64  `json:"processingTime"`
}

// NewMeta 根据缓存命中情况构造Meta
func NewMeta(cached bool, age time.Duration, start time.Time) Meta {
	source := SourceDatabase
	if cached {
		source = SourceCache
	}
	return Meta{
		Cached:         cached,
		CacheAge:       int64(age.Seconds()),
		Source:         source,
		ProcessingTime: time.Since(start).Milliseconds(),
	}
}

// EnvelopeOK 输出成功的v2响应
func EnvelopeOK(c *gin.Context, data interface{}, pagination interface{}, meta Meta) {
	c.JSON(http.StatusOK, Envelope{
		Data:       data,
		Pagination: pagination,
		Meta:       meta,
	})
}

// EnvelopeError 输出失败的v2响应（data为null，source=error）
func EnvelopeError(c *gin.Context, status int, message string, start time.Time) {
	c.JSON(status, Envelope{
		Data: nil,
		Meta: Meta{
			Source:         SourceError,
			ProcessingTime: time.Since(start).Milliseconds(),
		},
		Error: message,
	})
}
