package user

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
)

type memRepo struct {
	mu     sync.Mutex
	users  map[string]*User
	nextID uint
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*User{}}
}

func (r *memRepo) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return apperrors.ErrEmailDuplicate
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

type noTx struct{}

func (noTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendMail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return m.err
}

func (m *recordingMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func newTestService() (*service, *memRepo, *recordingMailer) {
	repo := newMemRepo()
	mailer := &recordingMailer{}
	svc := NewService(repo, noTx{}, mailer, Options{TestEmail: "test@test.com", BcryptCost: bcrypt.MinCost}).(*service)
	svc.newOTP = func() (string, error) { return "004217", nil }
	return svc, repo, mailer
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		if len(otp) != 6 || strings.Trim(otp, "0123456789") != "" {
			t.Errorf("OTP应为6位数字, 实际为 %q", otp)
		}
	}
}

func TestService_SignupVerifyLogin(t *testing.T) {
	svc, repo, mailer := newTestService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, "reader", " Reader@Example.com ", "secret123")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "reader@example.com", u.Email, "邮箱应规整为小写")
	assert.False(t, u.Verified)

	stored, _ := repo.FindByEmail(ctx, "reader@example.com")
	assert.NotEqual(t, "secret123", stored.Password, "密码不能明文存储")
	require.NotNil(t, stored.OTP)

	mail := mailer.last()
	assert.Equal(t, "reader@example.com", mail.to)
	assert.Equal(t, "Your VibeShelf OTP Code", mail.subject)
	assert.Equal(t, "Hello reader,\n\nYour OTP is: 004217", mail.body)

	t.Run("验证前登录失败", func(t *testing.T) {
		_, err := svc.Login(ctx, "reader@example.com", "secret123")
		assert.ErrorIs(t, err, apperrors.ErrEmailNotVerified)
	})

	t.Run("错误的OTP", func(t *testing.T) {
		err := svc.VerifyOTP(ctx, "reader@example.com", "999999")
		assert.ErrorIs(t, err, ErrInvalidOTP)
	})

	t.Run("正确的OTP", func(t *testing.T) {
		require.NoError(t, svc.VerifyOTP(ctx, "reader@example.com", "004217"))
		stored, _ := repo.FindByEmail(ctx, "reader@example.com")
		assert.True(t, stored.Verified)
		assert.Nil(t, stored.OTP, "验证后应清除OTP")

		err := svc.VerifyOTP(ctx, "reader@example.com", "004217")
		assert.ErrorIs(t, err, ErrInvalidOTP, "OTP只能使用一次")
	})

	t.Run("登录", func(t *testing.T) {
		u, err := svc.Login(ctx, "reader@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "reader", u.Username)

		_, err = svc.Login(ctx, "reader@example.com", "wrong-password")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

		_, err = svc.Login(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestService_SignupValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name                      string
		username, email, password string
	}{
		{"邮箱格式错误", "reader", "not-an-email", "secret123"},
		{"用户名为空", " ", "a@example.com", "secret123"},
		{"密码过短", "reader", "a@example.com", "123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.username, tt.email, tt.password)
			appErr := apperrors.GetAppError(err)
			assert.Equal(t, apperrors.ErrCodeInvalidParams, appErr.Code)
		})
	}
}

func TestService_SignupDuplicateAndMailFailure(t *testing.T) {
	svc, repo, mailer := newTestService()
	ctx := context.Background()

	mailer.err = errors.New("smtp down")
	_, err := svc.Signup(ctx, "reader", "reader@example.com", "secret123")
	require.NoError(t, err, "邮件发送失败不应导致注册失败")

	_, err = repo.FindByEmail(ctx, "reader@example.com")
	require.NoError(t, err, "邮件发送失败不应回滚用户")

	_, err = svc.Signup(ctx, "other", "READER@example.com", "secret123")
	assert.ErrorIs(t, err, ErrEmailRegistered)
	assert.Equal(t, 409, apperrors.HTTPStatus(apperrors.GetAppError(err).Code))
}

func TestService_TestEmailAutoVerified(t *testing.T) {
	svc, _, mailer := newTestService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, "tester", "test@test.com", "secret123")
	require.NoError(t, err)
	assert.True(t, u.Verified)
	assert.Nil(t, u.OTP)
	assert.Empty(t, mailer.sent, "自动验证的测试账号不发送OTP邮件")

	_, err = svc.Login(ctx, "test@test.com", "secret123")
	assert.NoError(t, err)
}

func TestService_PasswordReset(t *testing.T) {
	svc, _, mailer := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "reader", "reader@example.com", "secret123")
	require.NoError(t, err)
	require.NoError(t, svc.VerifyOTP(ctx, "reader@example.com", "004217"))

	t.Run("用户不存在", func(t *testing.T) {
		err := svc.ForgotPassword(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	svc.newOTP = func() (string, error) { return "123456", nil }
	require.NoError(t, svc.ForgotPassword(ctx, "reader@example.com"))
	mail := mailer.last()
	assert.Equal(t, "Password Reset - VibeShelf", mail.subject)
	assert.Contains(t, mail.body, "Your password reset OTP is: 123456")

	t.Run("OTP错误", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "reader@example.com", "000000", "newsecret")
		assert.ErrorIs(t, err, ErrInvalidResetOTP)
	})

	t.Run("邮箱不存在", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "nobody@example.com", "123456", "newsecret")
		assert.ErrorIs(t, err, ErrInvalidResetOTP)
	})

	t.Run("重置成功", func(t *testing.T) {
		require.NoError(t, svc.ResetPassword(ctx, "reader@example.com", "123456", "newsecret"))

		_, err := svc.Login(ctx, "reader@example.com", "secret123")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword, "旧密码应失效")

		_, err = svc.Login(ctx, "reader@example.com", "newsecret")
		assert.NoError(t, err)

		err = svc.ResetPassword(ctx, "reader@example.com", "123456", "another1")
		assert.ErrorIs(t, err, ErrInvalidResetOTP, "OTP重置后应被清除")
	})
}

func TestService_Profile(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "reader", "reader@example.com", "secret123")
	require.NoError(t, err)

	u, err := svc.UpdateProfile(ctx, "reader@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "reader", u.Username, "username为nil时不修改")

	name := "  night owl "
	u, err = svc.UpdateProfile(ctx, "reader@example.com", &name)
	require.NoError(t, err)
	assert.Equal(t, "night owl", u.Username)

	u, err = svc.Profile(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, "night owl", u.Username)
	assert.Equal(t, "reader@example.com", u.Email, "邮箱不可修改")

	empty := ""
	_, err = svc.UpdateProfile(ctx, "reader@example.com", &empty)
	assert.Error(t, err)
}

func TestService_VerifyTestUser(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.VerifyTestUser(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = svc.Signup(ctx, "reader", "reader@example.com", "secret123")
	require.NoError(t, err)

	u, err := svc.VerifyTestUser(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.True(t, u.Verified)
	assert.Nil(t, u.OTP)
}

func TestUser_DisplayName(t *testing.T) {
	u := &User{Email: "a@example.com"}
	assert.Equal(t, "a@example.com", u.DisplayName())
	u.Username = "alice"
	assert.Equal(t, "alice", u.DisplayName())
}
