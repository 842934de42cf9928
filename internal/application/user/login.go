package user

import (
	"context"
	"time"

	"github.com/xiebiao/vibeshelf/internal/domain/user"
	"github.com/xiebiao/vibeshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/vibeshelf/pkg/jwt"
	"github.com/xiebiao/vibeshelf/pkg/logger"
)

const loginSuccessMessage = "✅ Login successful!"

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证邮箱、验证状态、密码（领域服务）
// 2. 签发一个365天有效的JWT，服务端不保存会话
type LoginUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager) *LoginUseCase {
	return &LoginUseCase{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码（调用领域服务）
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 签发Token
	token, err := uc.jwtManager.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	// 3. 返回登录响应
	loginTime := time.Now()
	logger.FromContext(ctx).Info().Uint("user_id", u.ID).Msg("user logged in")
	// 客户端从不同字段读取Token，这里同时填充token/accessToken/access_token/user.token
	return &LoginResponse{
		Success:          true,
		Message:          loginSuccessMessage,
		Token:            token.Value,
		AccessToken:      token.Value,
		AccessTokenSnake: token.Value,
		User: UserInfo{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Verified:  u.Verified,
			LoginTime: loginTime.Format(time.RFC3339),
			Token:     token.Value,
		},
		ExpiresIn: token.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, sessionStore: sessionStore}
}

// Execute 执行登出
// Token加入黑名单直到它自然过期，之后不需要再保留
func (uc *LogoutUseCase) Execute(ctx context.Context, accessToken string) error {
	// 1. 解析Token（已经过认证中间件，这里只取过期时间和用户ID）
	claims, err := uc.jwtManager.ParseToken(accessToken)
	if err != nil {
		return err
	}

	// 2. 将Token加入黑名单
	uc.sessionStore.AddToBlacklist(ctx, accessToken, time.Until(claims.ExpiresAt.Time))
	logger.FromContext(ctx).Info().Uint("user_id", claims.UserID).Msg("user logged out")
	return nil
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	Token            string   `json:"token"`
	AccessToken      string   `json:"accessToken"`
	AccessTokenSnake string   `json:"access_token"`
	User             UserInfo `json:"user"`
	ExpiresIn        int64    `json:"expiresIn"` // 秒
}

// UserInfo 用户信息
type UserInfo struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Verified  bool   `json:"verified"`
	LoginTime string `json:"loginTime"`
	Token     string `json:"token"`
}
