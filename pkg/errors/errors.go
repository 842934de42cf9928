package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code是业务错误码，HTTP状态码由Code所属的区间推导（见HTTPStatus）
// 2. Message是返回给客户端的提示信息
// 3. Err是内部错误，只写日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，包装后的哨兵错误仍然可以被errors.Is识别
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（数据库、缓存、网络），对外只暴露message
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WithMessage 复制错误并替换对外提示（错误码不变）
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{Code: e.Code, Message: message, Err: e.Err}
}

// =========================================
// 错误码定义
// =========================================
// 规范：前三位与HTTP状态码一致，后两位区分具体原因
// - 400xx: 参数错误
// - 401xx: 未认证
// - 403xx: 无权限 / 账号状态不允许
// - 404xx: 资源不存在
// - 409xx: 资源冲突
// - 429xx: 限流
// - 5xxxx: 服务端错误

const (
	// 参数错误（40000-40099）
	ErrCodeInvalidParams = 40000 // 参数错误(通用)
	ErrCodeBindError     = 40001 // 参数绑定失败
	ErrCodeInvalidOTP    = 40002 // 验证码错误
	ErrCodeTooManyItems  = 40003 // 批量请求数量超限
	ErrCodeInvalidSort   = 40004 // 排序字段非法

	// 认证错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误

	// 权限错误（40300-40399）
	ErrCodeForbidden        = 40300 // 无权限
	ErrCodeEmailNotVerified = 40301 // 邮箱未验证

	// 资源错误（40400-40499）
	ErrCodeNotFound     = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound = 40401 // 用户不存在
	ErrCodeBookNotFound = 40402 // 图书不存在

	// 冲突（40900-40999）
	ErrCodeConflict       = 40900 // 资源冲突(通用)
	ErrCodeEmailDuplicate = 40901 // 邮箱已存在

	// 限流（42900-42999）
	ErrCodeTooManyRequests = 42900

	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeCacheError    = 50002 // 缓存错误
	ErrCodeMailError     = 50003 // 邮件发送失败
)

// =========================================
// 预定义错误
// =========================================

var (
	ErrInternal      = New(ErrCodeInternal, "Internal server error")
	ErrDatabaseError = New(ErrCodeDatabaseError, "Database error")

	ErrUnauthorized    = New(ErrCodeUnauthorized, "Authentication required")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "Invalid token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token expired")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "INVALID_PASSWORD")
	ErrForbidden       = New(ErrCodeForbidden, "Forbidden")

	ErrUserNotFound     = New(ErrCodeUserNotFound, "USER_NOT_FOUND")
	ErrEmailNotVerified = New(ErrCodeEmailNotVerified, "EMAIL_NOT_VERIFIED")
	ErrEmailDuplicate   = New(ErrCodeEmailDuplicate, "Email already registered")

	ErrInvalidParams   = New(ErrCodeInvalidParams, "Invalid parameters")
	ErrBindError       = New(ErrCodeBindError, "Malformed request body")
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "Too many requests")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "Internal server error")
}

// HTTPStatus 业务错误码 → HTTP状态码
// 40404 → 404，50001 → 500；无法识别的区间一律500
func HTTPStatus(code int) int {
	status := code / 100
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound, http.StatusConflict, http.StatusTooManyRequests:
		return status
	}
	if status >= 400 && status < 500 {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
