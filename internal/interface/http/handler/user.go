package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/vibeshelf/internal/application/user"
	"github.com/xiebiao/vibeshelf/internal/interface/http/dto"
	"github.com/xiebiao/vibeshelf/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
	"github.com/xiebiao/vibeshelf/pkg/response"
)

const (
	signupFailedPrefix = "Signup failed: "
	logoutMessage      = "✅ Logged out successfully!"
)

// loginFailures 登录失败的三种情况：errorCode取AppError.Message，message是给用户看的提示
var loginFailures = []struct {
	err     *apperrors.AppError
	message string
}{
	{apperrors.ErrUserNotFound, "❌ User not found."},
	{apperrors.ErrEmailNotVerified, "❌ Please verify your email before login."},
	{apperrors.ErrInvalidPassword, "❌ Invalid password."},
}

// UserHandler 用户HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. verify-otp、forgot-password、reset-password兼容query参数、表单和JSON三种传参方式
// 3. 需要登录的接口从认证中间件写入的Context读取邮箱，不再解析Token
type UserHandler struct {
	registerUseCase *appuser.RegisterUseCase
	loginUseCase    *appuser.LoginUseCase
	logoutUseCase   *appuser.LogoutUseCase
	passwordUseCase *appuser.PasswordResetUseCase
	profileUseCase  *appuser.ProfileUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	passwordUseCase *appuser.PasswordResetUseCase,
	profileUseCase *appuser.ProfileUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
		passwordUseCase: passwordUseCase,
		profileUseCase:  profileUseCase,
	}
}

// Signup 用户注册
// @Summary      用户注册
// @Description  创建未验证账号并发送OTP邮件
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.SignupRequest true "注册信息"
// @Success      200 {object} appuser.MessageResponse
// @Failure      400 {object} response.ErrorBody "参数错误"
// @Failure      409 {object} response.ErrorBody "邮箱已注册"
// @Router       /api/users/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	// 1. 绑定参数
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorBody{
			Error: signupFailedPrefix + err.Error(),
			Code:  apperrors.ErrCodeBindError,
		})
		return
	}

	// 2. 调用应用层用例
	result, err := h.registerUseCase.Signup(c.Request.Context(), appuser.SignupRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// 状态码沿用业务错误（409邮箱已注册、400参数错误），提示加上统一前缀
		appErr := apperrors.GetAppError(err)
		if apperrors.HTTPStatus(appErr.Code) >= http.StatusInternalServerError {
			response.Error(c, err)
			return
		}
		c.JSON(apperrors.HTTPStatus(appErr.Code), response.ErrorBody{
			Error: signupFailedPrefix + appErr.Message,
			Code:  appErr.Code,
		})
		return
	}

	response.Success(c, result)
}

// VerifyOTP 验证注册OTP
// @Summary      验证OTP
// @Tags         用户
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        email query string true "邮箱"
// @Param        otp query string true "OTP"
// @Success      200 {object} appuser.MessageResponse
// @Failure      400 {object} response.ErrorBody "❌ Invalid or expired OTP."
// @Router       /api/users/verify-otp [post]
func (h *UserHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if !bindFlexible(c, &req) {
		return
	}

	result, err := h.registerUseCase.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  校验邮箱、验证状态和密码，返回有效期365天的JWT
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} appuser.LoginResponse
// @Failure      401 {object} dto.LoginErrorResponse "INVALID_PASSWORD"
// @Failure      403 {object} dto.LoginErrorResponse "EMAIL_NOT_VERIFIED"
// @Failure      404 {object} dto.LoginErrorResponse "USER_NOT_FOUND"
// @Router       /api/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	result, ok := h.login(c)
	if !ok {
		return
	}
	response.Success(c, result)
}

// LoginSimple 登录并只返回Token字符串
// @Summary      登录（只返回Token）
// @Tags         用户
// @Accept       json
// @Produce      plain
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {string} string "JWT"
// @Failure      401 {object} dto.LoginErrorResponse
// @Router       /api/users/login-simple [post]
func (h *UserHandler) LoginSimple(c *gin.Context) {
	result, ok := h.login(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, result.Token)
}

// login 两个登录接口共用：失败时已写入响应，返回false
func (h *UserHandler) login(c *gin.Context) (*appuser.LoginResponse, bool) {
	// 1. 绑定参数
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessage("Invalid parameters: "+err.Error()))
		return nil, false
	}

	// 2. 调用登录用例
	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// 3. 登录失败（用户不存在/未验证/密码错误）使用专用的响应结构
		for _, f := range loginFailures {
			if errors.Is(err, f.err) {
				c.JSON(apperrors.HTTPStatus(f.err.Code), dto.LoginErrorResponse{
					Success:   false,
					Message:   f.message,
					ErrorCode: f.err.Message,
					Error:     f.message,
				})
				return nil, false
			}
		}
		response.Error(c, err)
		return nil, false
	}

	return result, true
}

// ForgotPassword 找回密码
// @Summary      发送重置密码OTP
// @Tags         用户
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        email query string true "邮箱"
// @Success      200 {object} appuser.MessageResponse
// @Failure      404 {object} response.ErrorBody "User not found with this email."
// @Router       /api/users/forgot-password [post]
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req dto.EmailRequest
	if !bindFlexible(c, &req) {
		return
	}

	result, err := h.passwordUseCase.Forgot(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ResetPassword 重置密码
// @Summary      使用OTP重置密码
// @Tags         用户
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        email query string true "邮箱"
// @Param        otp query string true "OTP"
// @Param        newPassword query string true "新密码"
// @Success      200 {object} appuser.MessageResponse
// @Failure      400 {object} response.ErrorBody "❌ Invalid OTP or email."
// @Router       /api/users/reset-password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindFlexible(c, &req) {
		return
	}

	result, err := h.passwordUseCase.Reset(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// VerifyTestUser 开发环境手动验证用户
// @Summary      手动验证用户（仅开发环境）
// @Tags         用户
// @Produce      json
// @Param        email query string true "邮箱"
// @Success      200 {object} appuser.MessageResponse
// @Failure      404 {object} response.ErrorBody
// @Router       /api/users/verify-test-user [post]
func (h *UserHandler) VerifyTestUser(c *gin.Context) {
	var req dto.EmailRequest
	if !bindFlexible(c, &req) {
		return
	}

	result, err := h.registerUseCase.VerifyTestUser(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logout 登出
// @Summary      登出
// @Description  当前Token加入黑名单直到自然过期
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} appuser.MessageResponse
// @Failure      401 {object} response.ErrorBody
// @Router       /api/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.logoutUseCase.Execute(c.Request.Context(), middleware.GetToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, appuser.MessageResponse{Success: true, Message: logoutMessage})
}

// GetProfile 查询资料
// @Summary      个人资料
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} appuser.ProfileResponse
// @Failure      401 {object} response.ErrorBody
// @Router       /api/users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	result, err := h.profileUseCase.Get(c.Request.Context(), middleware.GetEmail(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateProfile 修改资料
// @Summary      修改资料
// @Description  只能修改username，邮箱和密码字段会被忽略
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "资料"
// @Success      200 {object} appuser.UpdateProfileResponse
// @Failure      400 {object} response.ErrorBody
// @Failure      401 {object} response.ErrorBody
// @Router       /api/users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessage("Invalid parameters: "+err.Error()))
		return
	}

	result, err := h.profileUseCase.Update(c.Request.Context(), middleware.GetEmail(c), req.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// bindFlexible 按Content-Type选择JSON或表单绑定；表单绑定同时读取URL query参数
func bindFlexible(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessage("Invalid parameters: "+err.Error()))
		return false
	}
	return true
}
