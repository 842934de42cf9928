package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
	"github.com/xiebiao/vibeshelf/pkg/logger"
)

// ErrorBody 失败响应结构
// 设计说明：
// 1. HTTP状态码表达错误类别（400/401/403/404/409/500）
// 2. error是用户可读的提示信息，code是业务错误码，方便客户端细分
type ErrorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// Success 成功响应（200，直接输出业务数据）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功（201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	if err := uc.Execute(ctx, req); err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := apperrors.HTTPStatus(appErr.Code)

	// 内部错误只进日志，不返回给客户端
	if appErr.Err != nil || status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error().
			Err(appErr.Err).
			Int("code", appErr.Code).
			Str("path", c.FullPath()).
			Msg(appErr.Message)
	}

	c.JSON(status, ErrorBody{
		Error: appErr.Message,
		Code:  appErr.Code,
	})
}

// ErrorWithFallback 客户端错误（4xx）原样返回；服务端错误记日志，对外只返回message
// 用于同一类接口统一失败提示，内部包装信息不出现在响应中
func ErrorWithFallback(c *gin.Context, err error, message string) {
	appErr := apperrors.GetAppError(err)
	if apperrors.HTTPStatus(appErr.Code) < http.StatusInternalServerError {
		Error(c, appErr)
		return
	}

	logger.FromContext(c.Request.Context()).Error().
		Err(err).
		Int("code", appErr.Code).
		Str("path", c.FullPath()).
		Msg(message)

	c.JSON(http.StatusInternalServerError, ErrorBody{
		Error: message,
		Code:  appErr.Code,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(apperrors.HTTPStatus(code), ErrorBody{
		Error: message,
		Code:  code,
	})
}

// AbortWithError 中间件使用：写错误响应并终止后续Handler
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
