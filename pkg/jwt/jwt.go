package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
)

// Manager JWT管理器
// 设计说明：
// 1. 单Token机制：登录成功签发一个HS256 Token，默认有效期365天
// 2. sub = 用户邮箱（身份标识），userId作为自定义claim
// 3. 密钥由配置注入（jwt.secret / VIBESHELF_JWT_SECRET），不在代码中出现
type Manager struct {
	secret []byte
	expire time.Duration
	issuer string
	now    func() time.Time
}

// NewManager 创建JWT管理器
func NewManager(secret string, expire time.Duration, issuer string) *Manager {
	return &Manager{
		secret: []byte(secret),
		expire: expire,
		issuer: issuer,
		now:    time.Now,
	}
}

// Claims 自定义JWT Claims
// 学习要点：
// 1. 嵌入jwt.RegisteredClaims获取标准字段（sub、exp、iat）
// 2. UserID序列化为userId，与前端约定保持一致
type Claims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// Email 从sub中取出邮箱
func (c *Claims) Email() string {
	return c.Subject
}

// Token 签发结果
type Token struct {
	Value     string
	ExpiresAt time.Time
	ExpiresIn int64 // 秒
}

// Expire Token有效期
func (m *Manager) Expire() time.Duration {
	return m.expire
}

// GenerateToken 签发Token
func (m *Manager) GenerateToken(userID uint, email string) (*Token, error) {
	now := m.now()
	expiresAt := now.Add(m.expire)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to issue token")
	}

	return &Token{
		Value:     signed,
		ExpiresAt: expiresAt,
		ExpiresIn: int64(m.expire.Seconds()),
	}, nil
}

// ParseToken 解析并验证Token
// 学习要点：
// 1. 验证签名算法，拒绝alg=none及非HMAC算法
// 2. 验证过期时间（exp）
// 3. sub为空视为无效Token
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
