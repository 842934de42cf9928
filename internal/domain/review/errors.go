package review

import (
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
)

var (
	// ErrAuthRequired 未登录提交书评
	ErrAuthRequired = apperrors.ErrUnauthorized.WithMessage("Authentication required to submit reviews")

	// ErrAuthorNotFound Token有效但用户已不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeUnauthorized, "User not found")

	// ErrBookIDRequired 缺少bookId
	ErrBookIDRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "bookId is required")
)
