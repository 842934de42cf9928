package book

import (
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
)

// MaxBulkIDs 批量查询一次最多允许的ID数量
const MaxBulkIDs = 100

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "Book not found")

	// ErrTooManyIDs 批量查询ID数量超限
	ErrTooManyIDs = apperrors.New(apperrors.ErrCodeTooManyItems, "Maximum 100 books can be requested at once")

	// ErrInvalidSort 排序字段不在白名单内
	ErrInvalidSort = apperrors.New(apperrors.ErrCodeInvalidSort, "Invalid sort field")
)
