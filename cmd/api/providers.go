package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/xiebiao/vibeshelf/internal/domain/book"
	"github.com/xiebiao/vibeshelf/internal/domain/user"
	"github.com/xiebiao/vibeshelf/internal/infrastructure/config"
	"github.com/xiebiao/vibeshelf/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/vibeshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/vibeshelf/internal/interface/http/middleware"
	"github.com/xiebiao/vibeshelf/pkg/cache"
	"github.com/xiebiao/vibeshelf/pkg/jwt"
)

// App 组装完成的应用
type App struct {
	Config *config.Config
	Engine *gin.Engine
}

func newApp(cfg *config.Config, engine *gin.Engine) *App {
	return &App{Config: cfg, Engine: engine}
}

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 构造函数参数需要从Config中提取，或者需要返回cleanup时，在这里包一层

// provideDB 创建数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedisClient redis.enabled=false时返回nil
func provideRedisClient(cfg *config.Config) (*goredis.Client, func()) {
	client := redis.NewClient(cfg)
	if client == nil {
		return nil, func() {}
	}
	return client, func() { _ = client.Close() }
}

// provideCacheStore 启动时Ping一次Redis决定缓存后端
func provideCacheStore(cfg *config.Config, client *goredis.Client) (*cache.Store, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout+time.Second)
	defer cancel()

	store := cache.NewStore(ctx, client, cache.Options{
		KeyPrefix:        cfg.Cache.KeyPrefix,
		DefaultTTL:       cfg.Cache.DefaultTTL,
		Regions:          cfg.Cache.Regions,
		LocalCapacity:    cfg.Cache.LocalCapacity,
		OperationTimeout: cfg.Cache.OperationTimeout,
	})

	cleanup := func() {
		if local, ok := store.Backend().(*cache.LocalBackend); ok {
			local.Close()
		}
	}
	return store, cleanup
}

// provideJWTManager 密钥和有效期来自配置（默认365天）
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expire, cfg.JWT.Issuer)
}

func provideUserOptions(cfg *config.Config) user.Options {
	return user.Options{TestEmail: cfg.Auth.TestEmail}
}

func provideGenreNormalizer(cfg *config.Config) *book.GenreNormalizer {
	return book.NewGenreNormalizer(cfg.Genres.Aliases)
}

// provideSessionStore Token黑名单，cleanup停止本地过期清理
func provideSessionStore(store *cache.Store) (*redis.SessionStore, func()) {
	sessions := redis.NewSessionStore(store)
	return sessions, sessions.Close
}

// provideRateLimiter 即使未启用也创建，是否挂载由路由根据配置决定
func provideRateLimiter(cfg *config.Config) (*middleware.RateLimiter, func()) {
	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	return limiter, limiter.Stop
}
