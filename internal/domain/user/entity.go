package user

import (
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 状态流转：注册后未验证（持有OTP）→ 验证OTP后Verified；重置密码时再次签发OTP，成功后清除
// 2. 密码已加密存储（bcrypt），任何响应都不返回Password和OTP
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string  // bcrypt哈希值
	Verified  bool
	OTP       *string // 当前有效的一次性验证码，nil表示没有
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建待验证用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword, otp string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		OTP:       &otp,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MatchOTP OTP精确匹配；没有待验证的OTP时总是false
func (u *User) MatchOTP(otp string) bool {
	return u.OTP != nil && *u.OTP == otp
}

// IssueOTP 签发新的OTP（覆盖旧值）
func (u *User) IssueOTP(otp string) {
	u.OTP = &otp
	u.UpdatedAt = time.Now()
}

// MarkVerified 标记为已验证并清除OTP
func (u *User) MarkVerified() {
	u.Verified = true
	u.OTP = nil
	u.UpdatedAt = time.Now()
}

// ResetPassword 更新密码哈希并清除OTP
func (u *User) ResetPassword(hashedPassword string) {
	u.Password = hashedPassword
	u.OTP = nil
	u.UpdatedAt = time.Now()
}

// UpdateUsername 更新用户名（资料中唯一允许修改的字段）
func (u *User) UpdateUsername(username string) {
	u.Username = username
	u.UpdatedAt = time.Now()
}

// DisplayName 展示名：用户名为空时使用邮箱
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
