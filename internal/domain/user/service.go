package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
	"github.com/xiebiao/vibeshelf/pkg/logger"
	"github.com/xiebiao/vibeshelf/pkg/metrics"
	"github.com/xiebiao/vibeshelf/pkg/tracing"
)

const tracerName = "auth"

// 邮件模板
const (
	signupSubject = "Your VibeShelf OTP Code"
	signupBody    = "Hello %s,\n\nYour OTP is: %s"
	resetSubject  = "Password Reset - VibeShelf"
	resetBody     = "Hello %s,\n\nYour password reset OTP is: %s\n\nIf you didn't request this, please ignore this email."
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含注册、OTP验证、登录校验、密码重置等业务逻辑
// 2. Service依赖Repository/Mailer接口，不依赖具体实现（依赖倒置）
// 3. Service不签发Token，Token由应用层的LoginUseCase负责
type Service interface {
	// Signup 注册并发送OTP邮件；邮件发送失败只记日志，不回滚用户
	Signup(ctx context.Context, username, email, password string) (*User, error)

	// VerifyOTP 验证注册OTP，成功后用户变为已验证
	VerifyOTP(ctx context.Context, email, otp string) error

	// Login 校验邮箱、验证状态、密码
	Login(ctx context.Context, email, password string) (*User, error)

	// ForgotPassword 签发重置密码OTP并发送邮件
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword 校验OTP后更新密码
	ResetPassword(ctx context.Context, email, otp, newPassword string) error

	// VerifyTestUser 开发环境下手动标记用户已验证
	VerifyTestUser(ctx context.Context, email string) (*User, error)

	// Profile 查询资料
	Profile(ctx context.Context, email string) (*User, error)

	// UpdateProfile 修改用户名，username为nil时不修改
	UpdateProfile(ctx context.Context, email string, username *string) (*User, error)

	// FindByEmail 按邮箱查找（评论等模块解析当前用户）
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// Options 服务配置
type Options struct {
	TestEmail  string // 注册时自动验证的测试邮箱，空表示不启用
	BcryptCost int
}

type service struct {
	repo   Repository
	tx     Transactor
	mailer Mailer
	opts   Options
	newOTP func() (string, error)
}

// NewService 创建用户服务
func NewService(repo Repository, tx Transactor, mailer Mailer, opts Options) Service {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &service{
		repo:   repo,
		tx:     tx,
		mailer: mailer,
		opts:   opts,
		newOTP: GenerateOTP,
	}
}

// GenerateOTP 生成6位数字OTP（不足6位左侧补0）
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Signup 用户注册
// 业务规则：
// 1. 参数校验（邮箱格式、用户名、密码长度）
// 2. 密码bcrypt加密
// 3. 生成OTP，持久化为未验证用户；邮箱唯一性由数据库UNIQUE索引保证
// 4. 测试邮箱直接标记为已验证
// 5. 发送OTP邮件，失败只记日志
func (s *service) Signup(ctx context.Context, username, email, password string) (u *User, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "user.Signup")
	defer func() {
		tracing.EndSpan(span, err)
		metrics.RecordAuth("signup", err == nil)
	}()

	email = normalizeEmail(email)
	username = strings.TrimSpace(username)

	// 1. 参数校验
	if err := validateSignup(username, email, password); err != nil {
		return nil, err
	}

	// 2. 密码加密
	hashed, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	// 3. 创建用户
	otp, err := s.newOTP()
	if err != nil {
		return nil, apperrors.Wrap(err, "生成OTP失败")
	}
	u = NewUser(username, email, hashed, otp)

	autoVerified := s.opts.TestEmail != "" && strings.EqualFold(email, s.opts.TestEmail)
	if autoVerified {
		u.MarkVerified()
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, apperrors.ErrEmailDuplicate) {
			return nil, ErrEmailRegistered
		}
		return nil, err
	}

	// 4. 发送OTP邮件
	if autoVerified {
		logger.FromContext(ctx).Info().Str("email", email).Msg("test account auto-verified on signup")
		return u, nil
	}
	s.send(ctx, email, signupSubject, fmt.Sprintf(signupBody, u.DisplayName(), otp))

	return u, nil
}

// VerifyOTP 验证注册OTP
// 读取、比较、更新在同一事务中完成
func (s *service) VerifyOTP(ctx context.Context, email, otp string) (err error) {
	defer func() { metrics.RecordAuth("verify_otp", err == nil) }()

	email = normalizeEmail(email)
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		u, err := s.repo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return ErrInvalidOTP
			}
			return err
		}
		if !u.MatchOTP(strings.TrimSpace(otp)) {
			return ErrInvalidOTP
		}

		u.MarkVerified()
		return s.repo.Update(ctx, u)
	})
}

// Login 用户登录
// 业务规则（按顺序检查）：
// 1. 邮箱必须存在（ErrUserNotFound）
// 2. 必须已验证（ErrEmailNotVerified）
// 3. 密码必须正确（ErrInvalidPassword）
func (s *service) Login(ctx context.Context, email, password string) (u *User, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "user.Login")
	defer func() {
		tracing.EndSpan(span, err)
		metrics.RecordAuth("login", err == nil)
	}()

	// 1. 根据邮箱查找用户
	u, err = s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err // Repository已转换为ErrUserNotFound
	}

	// 2. 验证状态
	if !u.Verified {
		return nil, apperrors.ErrEmailNotVerified
	}

	// 3. 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}

	return u, nil
}

// ForgotPassword 签发重置密码OTP
func (s *service) ForgotPassword(ctx context.Context, email string) (err error) {
	defer func() { metrics.RecordAuth("forgot_password", err == nil) }()

	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	otp, err := s.newOTP()
	if err != nil {
		return apperrors.Wrap(err, "生成OTP失败")
	}
	u.IssueOTP(otp)
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	s.send(ctx, u.Email, resetSubject, fmt.Sprintf(resetBody, u.DisplayName(), otp))
	return nil
}

// ResetPassword 校验OTP并更新密码
// 用户不存在和OTP错误返回同一个错误，不暴露邮箱是否注册
func (s *service) ResetPassword(ctx context.Context, email, otp, newPassword string) (err error) {
	defer func() { metrics.RecordAuth("reset_password", err == nil) }()

	if err := validation.Validate(newPassword, passwordRules...); err != nil {
		return apperrors.New(apperrors.ErrCodeInvalidParams, "newPassword: "+err.Error())
	}

	hashed, err := s.hash(newPassword)
	if err != nil {
		return err
	}

	email = normalizeEmail(email)
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		u, err := s.repo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return ErrInvalidResetOTP
			}
			return err
		}
		if !u.MatchOTP(strings.TrimSpace(otp)) {
			return ErrInvalidResetOTP
		}

		u.ResetPassword(hashed)
		return s.repo.Update(ctx, u)
	})
}

// VerifyTestUser 手动验证用户（仅开发环境开放路由）
func (s *service) VerifyTestUser(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	u.MarkVerified()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Profile 查询资料
func (s *service) Profile(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, normalizeEmail(email))
}

// UpdateProfile 修改资料，邮箱和密码不能通过此接口修改
func (s *service) UpdateProfile(ctx context.Context, email string, username *string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if username == nil {
		return u, nil
	}

	name := strings.TrimSpace(*username)
	if err := validation.Validate(name, usernameRules...); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "username: "+err.Error())
	}

	u.UpdateUsername(name)
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmail 按邮箱查找
func (s *service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, normalizeEmail(email))
}

func (s *service) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hashed), nil
}

// send 发送邮件，失败只记日志（至少一次、非事务）
func (s *service) send(ctx context.Context, to, subject, body string) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendMail(ctx, to, subject, body); err != nil {
		logger.FromContext(ctx).Error().Err(err).Str("email", to).Str("subject", subject).Msg("send otp mail failed")
	}
}

// =========================================
// 辅助函数：业务规则校验
// =========================================

var (
	usernameRules = []validation.Rule{validation.Required, validation.RuneLength(1, 50)}
	// bcrypt只使用前72字节
	passwordRules = []validation.Rule{validation.Required, validation.Length(6, 72)}
)

func validateSignup(username, email, password string) error {
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.EmailFormat, validation.Length(3, 100)),
		"username": validation.Validate(username, usernameRules...),
		"password": validation.Validate(password, passwordRules...),
	}.Filter()
	if err != nil {
		return apperrors.New(apperrors.ErrCodeInvalidParams, err.Error())
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
