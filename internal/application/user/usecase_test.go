package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/vibeshelf/internal/domain/user"
	"github.com/xiebiao/vibeshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/vibeshelf/pkg/cache"
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
	"github.com/xiebiao/vibeshelf/pkg/jwt"
)

// mockUserService 用户领域服务的Mock
type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Signup(ctx context.Context, username, email, password string) (*user.User, error) {
	args := m.Called(ctx, username, email, password)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) VerifyOTP(ctx context.Context, email, otp string) error {
	return m.Called(ctx, email, otp).Error(0)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*user.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockUserService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return m.Called(ctx, email, otp, newPassword).Error(0)
}

func (m *mockUserService) VerifyTestUser(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) Profile(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, email string, username *string) (*user.User, error) {
	args := m.Called(ctx, email, username)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func newSessionStore(t *testing.T) *redis.SessionStore {
	t.Helper()
	local := cache.NewLocalBackend(100)
	t.Cleanup(local.Close)
	s := redis.NewSessionStore(cache.NewStoreWithBackend(local, cache.Options{}))
	t.Cleanup(s.Close)
	return s
}

func TestLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	svc := new(mockUserService)
	manager := jwt.NewManager("unit-test-secret", 365*24*time.Hour, "vibeshelf")
	sessions := newSessionStore(t)

	alice := &user.User{ID: 3, Username: "alice", Email: "alice@example.com", Verified: true}
	svc.On("Login", mock.Anything, "alice@example.com", "secret1").Return(alice, nil)
	svc.On("Login", mock.Anything, "alice@example.com", "wrong").Return(nil, apperrors.ErrInvalidPassword)

	login := NewLoginUseCase(svc, manager)
	logout := NewLogoutUseCase(manager, sessions)

	t.Run("密码错误", func(t *testing.T) {
		_, err := login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	res, err := login.Execute(ctx, LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	t.Run("登录响应", func(t *testing.T) {
		assert.True(t, res.Success)
		assert.Equal(t, "✅ Login successful!", res.Message)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, res.Token, res.AccessToken)
		assert.Equal(t, res.Token, res.AccessTokenSnake)
		assert.Equal(t, res.Token, res.User.Token)
		assert.Equal(t, int64(365*24*3600), res.ExpiresIn)
		assert.Equal(t, uint(3), res.User.ID)
		assert.True(t, res.User.Verified)
		_, err := time.Parse(time.RFC3339, res.User.LoginTime)
		assert.NoError(t, err)
	})

	t.Run("登出后Token进入黑名单", func(t *testing.T) {
		require.NoError(t, logout.Execute(ctx, res.Token))

		assert.True(t, sessions.IsInBlacklist(ctx, res.Token))
	})

	t.Run("登出无效Token", func(t *testing.T) {
		err := logout.Execute(ctx, "not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	svc.AssertExpectations(t)
}

func TestRegisterUseCase(t *testing.T) {
	ctx := context.Background()
	svc := new(mockUserService)
	uc := NewRegisterUseCase(svc)

	svc.On("Signup", mock.Anything, "bob", "bob@example.com", "secret1").Return(&user.User{ID: 1, Email: "bob@example.com"}, nil)
	svc.On("Signup", mock.Anything, "bob", "dup@example.com", "secret1").Return(nil, user.ErrEmailRegistered)
	svc.On("VerifyOTP", mock.Anything, "bob@example.com", "123456").Return(nil)
	svc.On("VerifyOTP", mock.Anything, "bob@example.com", "000000").Return(user.ErrInvalidOTP)
	svc.On("VerifyTestUser", mock.Anything, "bob@example.com").Return(&user.User{ID: 1, Email: "bob@example.com", Verified: true}, nil)

	res, err := uc.Signup(ctx, SignupRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Signup successful! Please check your email for OTP.", res.Message)

	_, err = uc.Signup(ctx, SignupRequest{Username: "bob", Email: "dup@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, user.ErrEmailRegistered)
	assert.Equal(t, 409, apperrors.HTTPStatus(apperrors.GetAppError(err).Code))

	res, err = uc.VerifyOTP(ctx, "bob@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "✅ OTP verified successfully! You can now login.", res.Message)

	_, err = uc.VerifyOTP(ctx, "bob@example.com", "000000")
	assert.ErrorIs(t, err, user.ErrInvalidOTP)

	res, err = uc.VerifyTestUser(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "✅ User bob@example.com has been manually verified for testing!", res.Message)

	svc.AssertExpectations(t)
}

func TestPasswordResetUseCase(t *testing.T) {
	ctx := context.Background()
	svc := new(mockUserService)
	uc := NewPasswordResetUseCase(svc)

	svc.On("ForgotPassword", mock.Anything, "bob@example.com").Return(nil)
	svc.On("ForgotPassword", mock.Anything, "ghost@example.com").Return(apperrors.ErrUserNotFound)
	svc.On("ResetPassword", mock.Anything, "bob@example.com", "654321", "newpass").Return(nil)

	res, err := uc.Forgot(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Password reset OTP sent to your email.", res.Message)

	_, err = uc.Forgot(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, user.ErrResetUserNotFound)
	assert.Equal(t, "User not found with this email.", apperrors.GetAppError(err).Message)

	res, err = uc.Reset(ctx, "bob@example.com", "654321", "newpass")
	require.NoError(t, err)
	assert.Equal(t, "✅ Password reset successful!", res.Message)

	svc.AssertExpectations(t)
}

func TestProfileUseCase(t *testing.T) {
	ctx := context.Background()
	svc := new(mockUserService)
	uc := NewProfileUseCase(svc)

	alice := &user.User{ID: 3, Username: "alice", Email: "alice@example.com", Verified: true}
	renamed := "alice2"
	svc.On("Profile", mock.Anything, "alice@example.com").Return(alice, nil)
	svc.On("UpdateProfile", mock.Anything, "alice@example.com", &renamed).
		Return(&user.User{ID: 3, Username: renamed, Email: "alice@example.com"}, nil)

	p, err := uc.Get(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, &ProfileResponse{ID: 3, Username: "alice", Email: "alice@example.com", Verified: true}, p)

	res, err := uc.Update(ctx, "alice@example.com", &renamed)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Profile updated successfully!", res.Message)
	assert.Equal(t, "alice2", res.User.Username)

	svc.AssertExpectations(t)
	t.Logf("✓ 资料查询与更新")
}
