package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/xiebiao/vibeshelf/pkg/cache"
	"github.com/xiebiao/vibeshelf/pkg/logger"
)

const regionBlacklist = "auth:blacklist"

// SessionStore 登出Token黑名单
// 设计说明：
// 1. 每个实例都在独立的ttlcache中记录本实例吊销的Token，不设容量上限，条目按Token剩余有效期过期
// 2. 缓存后端是Redis时同时写入cache.Store，其他实例也能看到
// 3. 查询Redis失败按未吊销处理（cache.Store已记日志和指标），不影响已登录用户
// 4. Key为sha256(token)，缓存中不存放明文Token
type SessionStore struct {
	store  *cache.Store
	shared bool
	local  *ttlcache.Cache[string, struct{}]
}

// NewSessionStore 创建黑名单存储，不再使用时调用Close
func NewSessionStore(store *cache.Store) *SessionStore {
	_, shared := store.Backend().(*cache.RedisBackend)

	local := ttlcache.New[string, struct{}](
		ttlcache.WithDisableTouchOnHit[string, struct{}](),
	)
	go local.Start()

	return &SessionStore{store: store, shared: shared, local: local}
}

// Close 停止过期清理协程
func (s *SessionStore) Close() {
	s.local.Stop()
}

// AddToBlacklist 将Token加入黑名单，ttl取Token剩余有效期
// 写Redis失败只记日志，本实例的记录仍然生效
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	key := tokenKey(token)
	s.local.Set(key, struct{}{}, ttl)

	if !s.shared {
		return
	}
	if err := s.store.SetRaw(ctx, regionBlacklist, key, []byte("revoked"), ttl); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("write token blacklist to redis failed")
	}
}

// IsInBlacklist 检查Token是否已吊销
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) bool {
	key := tokenKey(token)
	if item := s.local.Get(key); item != nil && !item.IsExpired() {
		return true
	}
	if !s.shared {
		return false
	}
	return s.store.Exists(ctx, regionBlacklist, key)
}

// tokenKey 不直接用Token做key，避免在缓存中存放明文Token
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
