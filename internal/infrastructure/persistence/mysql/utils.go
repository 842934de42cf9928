package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/vibeshelf/internal/infrastructure/config"
)

// QueryTimeout 单次查询超时
type QueryTimeout time.Duration

// NewQueryTimeout 从配置读取查询超时
func NewQueryTimeout(cfg *config.Config) QueryTimeout {
	return QueryTimeout(cfg.Database.QueryTimeout)
}

// withTimeout 为查询加超时，timeout<=0时不限制
func (t QueryTimeout) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, time.Duration(t))
}

type txKey struct{}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// isDuplicateError 判断是否为唯一索引冲突错误
// 开启TranslateError后各方言都返回gorm.ErrDuplicatedKey；
// 错误信息匹配兜底未开启翻译的连接:
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - PostgreSQL 23505: duplicate key value violates unique constraint
// - SQLite: UNIQUE constraint failed
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// likeEscaper 转义LIKE通配符，配合ESCAPE '!'使用
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern 生成小写的子串匹配模式
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
