package dto

// SignupRequest 注册请求
// 格式规则(邮箱、长度)由领域服务校验,这里只做绑定
type SignupRequest struct {
	Username string `json:"username" example:"reader"`
	Email    string `json:"email" example:"reader@example.com"`
	Password string `json:"password" example:"secret123"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"reader@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// VerifyOTPRequest 注册验证;兼容query参数、表单和JSON
type VerifyOTPRequest struct {
	Email string `form:"email" json:"email" binding:"required" example:"reader@example.com"`
	OTP   string `form:"otp" json:"otp" binding:"required" example:"042517"`
}

// EmailRequest 只带邮箱的请求(forgot-password / verify-test-user)
type EmailRequest struct {
	Email string `form:"email" json:"email" binding:"required" example:"reader@example.com"`
}

// ResetPasswordRequest 重置密码
type ResetPasswordRequest struct {
	Email       string `form:"email" json:"email" binding:"required" example:"reader@example.com"`
	OTP         string `form:"otp" json:"otp" binding:"required" example:"042517"`
	NewPassword string `form:"newPassword" json:"newPassword" binding:"required" example:"newsecret123"`
}

// UpdateProfileRequest 修改资料,只有username可修改,其它字段忽略
type UpdateProfileRequest struct {
	Username *string `json:"username" example:"reader2"`
}

// LoginErrorResponse 登录失败响应
// errorCode: USER_NOT_FOUND | EMAIL_NOT_VERIFIED | INVALID_PASSWORD
type LoginErrorResponse struct {
	Success   bool   `json:"success" example:"false"`
	Message   string `json:"message" example:"❌ Invalid password."`
	ErrorCode string `json:"errorCode" example:"INVALID_PASSWORD"`
	Error     string `json:"error" example:"❌ Invalid password."`
}
