package user

import (
	"context"
	"fmt"

	"github.com/xiebiao/vibeshelf/internal/domain/user"
)

const (
	signupSuccessMessage    = "Signup successful! Please check your email for OTP."
	otpVerifiedMessage      = "✅ OTP verified successfully! You can now login."
	testUserVerifiedMessage = "✅ User %s has been manually verified for testing!"
)

// RegisterUseCase 注册与邮箱验证用例
// 设计说明：
// 1. Application层负责用例编排，业务规则在领域服务中
// 2. 注册后用户处于待验证状态，OTP通过邮件发送
// 3. 返回给客户端的提示文案在这一层统一定义
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
	}
}

// Signup 注册并发送OTP
func (uc *RegisterUseCase) Signup(ctx context.Context, req SignupRequest) (*MessageResponse, error) {
	if _, err := uc.userService.Signup(ctx, req.Username, req.Email, req.Password); err != nil {
		return nil, err
	}
	return &MessageResponse{Success: true, Message: signupSuccessMessage}, nil
}

// VerifyOTP 校验注册OTP
func (uc *RegisterUseCase) VerifyOTP(ctx context.Context, email, otp string) (*MessageResponse, error) {
	if err := uc.userService.VerifyOTP(ctx, email, otp); err != nil {
		return nil, err
	}
	return &MessageResponse{Success: true, Message: otpVerifiedMessage}, nil
}

// VerifyTestUser 开发环境手动验证用户
func (uc *RegisterUseCase) VerifyTestUser(ctx context.Context, email string) (*MessageResponse, error) {
	u, err := uc.userService.VerifyTestUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return &MessageResponse{Success: true, Message: fmt.Sprintf(testUserVerifiedMessage, u.Email)}, nil
}

// =========================================
// 应用层DTO
// =========================================

// SignupRequest 注册请求
type SignupRequest struct {
	Username string
	Email    string
	Password string
}

// MessageResponse 只带提示信息的响应
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
