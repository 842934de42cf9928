package user

import (
	"context"
	"errors"

	"github.com/xiebiao/vibeshelf/internal/domain/user"
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
)

const (
	resetOTPSentMessage  = "Password reset OTP sent to your email."
	passwordResetMessage = "✅ Password reset successful!"
)

// PasswordResetUseCase 找回密码用例
// 流程：forgot-password签发OTP并发送邮件 → reset-password校验OTP后更新密码
type PasswordResetUseCase struct {
	userService user.Service
}

// NewPasswordResetUseCase 创建找回密码用例
func NewPasswordResetUseCase(userService user.Service) *PasswordResetUseCase {
	return &PasswordResetUseCase{userService: userService}
}

// Forgot 签发重置OTP
// 邮箱未注册时返回带提示文案的ErrUserNotFound
func (uc *PasswordResetUseCase) Forgot(ctx context.Context, email string) (*MessageResponse, error) {
	if err := uc.userService.ForgotPassword(ctx, email); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, user.ErrResetUserNotFound
		}
		return nil, err
	}
	return &MessageResponse{Success: true, Message: resetOTPSentMessage}, nil
}

// Reset 校验OTP并更新密码
func (uc *PasswordResetUseCase) Reset(ctx context.Context, email, otp, newPassword string) (*MessageResponse, error) {
	if err := uc.userService.ResetPassword(ctx, email, otp, newPassword); err != nil {
		return nil, err
	}
	return &MessageResponse{Success: true, Message: passwordResetMessage}, nil
}
