package user

import (
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
)

// 用户领域错误定义
// 登录相关的三个错误直接使用pkg/errors中的ErrUserNotFound、ErrEmailNotVerified、ErrInvalidPassword，
// 它们的Message就是返回给前端的errorCode
var (
	// ErrInvalidOTP 注册验证时OTP不匹配
	ErrInvalidOTP = apperrors.New(apperrors.ErrCodeInvalidOTP, "❌ Invalid or expired OTP.")

	// ErrInvalidResetOTP 重置密码时邮箱或OTP不匹配
	ErrInvalidResetOTP = apperrors.New(apperrors.ErrCodeInvalidOTP, "❌ Invalid OTP or email.")

	// ErrEmailRegistered 注册邮箱已存在
	ErrEmailRegistered = apperrors.ErrEmailDuplicate.WithMessage("Email already registered!")

	// ErrResetUserNotFound 找回密码时邮箱未注册
	ErrResetUserNotFound = apperrors.ErrUserNotFound.WithMessage("User not found with this email.")
)
