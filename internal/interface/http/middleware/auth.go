package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/vibeshelf/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
	"github.com/xiebiao/vibeshelf/pkg/jwt"
	"github.com/xiebiao/vibeshelf/pkg/logger"
	"github.com/xiebiao/vibeshelf/pkg/response"
)

// Context中保存认证信息的key
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextToken  = "token"
)

var errTokenRevoked = apperrors.New(apperrors.ErrCodeInvalidToken, "Token has been revoked, please login again")

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Authorization: Bearer <token>提取Token
// 2. 检查Token黑名单（登出后的Token）
// 3. 验证签名和过期时间
// 4. 将用户ID、邮箱注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	users.Use(authMiddleware.RequireAuth())
//	users.GET("/profile", userHandler.GetProfile)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 提取Token
		tokenString, ok := bearerToken(c)
		if !ok {
			response.AbortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		// 2. 验证Token
		claims, err := m.authenticate(c, tokenString)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		// 3. 注入用户信息
		setIdentity(c, claims, tokenString)
		c.Next()
	}
}

// OptionalAuth 可选登录
// Token缺失或无效时按匿名用户继续，是否拒绝由Handler决定（如提交书评）
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := m.authenticate(c, tokenString)
		if err == nil {
			setIdentity(c, claims, tokenString)
		} else {
			logger.FromContext(c.Request.Context()).Debug().Err(err).Msg("optional auth ignored token")
		}
		c.Next()
	}
}

// authenticate 黑名单 → 签名/过期
// 黑名单查询失败时按未吊销处理，缓存故障不影响已登录用户
func (m *AuthMiddleware) authenticate(c *gin.Context, tokenString string) (*jwt.Claims, error) {
	if m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString) {
		return nil, errTokenRevoked
	}
	return m.jwtManager.ParseToken(tokenString)
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func setIdentity(c *gin.Context, claims *jwt.Claims, tokenString string) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email())
	c.Set(ContextToken, tokenString)
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get(ContextUserID); exists {
		if uid, ok := userID.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetEmail 当前登录用户邮箱，未登录返回空字符串
func GetEmail(c *gin.Context) string {
	return c.GetString(ContextEmail)
}

// GetToken 当前请求携带的已验证Token（登出使用）
func GetToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}
