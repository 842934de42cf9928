// Package cache 两级缓存:Redis为主,进程内ttlcache兜底
//
// 设计说明:
// 1. 后端在启动时选择一次(NewStore):Redis可达用Redis,否则用容量受限的本地缓存,运行期不再切换
// 2. 按区域(region)配置TTL,key = 前缀:region:业务key
// 3. 缓存故障永远不让请求失败:读失败按未命中处理,写失败只记日志
// 4. Get直接返回命中信息(Lookup),不通过请求级共享状态传递
package cache

import (
	"context"
	"time"
)

// Backend 缓存后端
type Backend interface {
	// Name 后端名称(redis | local),用于日志和指标
	Name() string

	// Get 读取原始值;found=false表示未命中,remaining为剩余TTL(未知时为0)
	Get(ctx context.Context, key string) (value []byte, remaining time.Duration, found bool, err error)

	// Set 写入并设置TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Ping 检查后端是否可用
	Ping(ctx context.Context) error
}

// Lookup 一次缓存读取的结果
type Lookup struct {
	Cached bool          // 是否命中
	Age    time.Duration // 命中条目已存在的时间(TTL - 剩余TTL)
}
