package book

import (
	"strconv"
	"strings"
)

// Pagination 分页信息
// Cursor是下一页的偏移量(十进制字符串),只在HasNext为true时设置;
// 它是位置标记而不是稳定键,数据变化后可能跳过或重复记录
type Pagination struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int64  `json:"totalPages"`
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
	Cursor     string `json:"cursor,omitempty"`
}

// NewPagination 根据结果窗口计算分页信息
func NewPagination(page, limit int, offset, total int64) Pagination {
	p := Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasNext: offset+int64(limit) < total,
		HasPrev: offset > 0,
	}
	if limit > 0 {
		p.TotalPages = (total + int64(limit) - 1) / int64(limit)
	}
	if p.HasNext {
		p.Cursor = strconv.FormatInt(offset+int64(limit), 10)
	}
	return p
}

// ParseCursor 游标转回偏移量,空值或非法值返回false
func ParseCursor(cursor string) (int64, bool) {
	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return 0, false
	}
	offset, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil || offset < 0 {
		return 0, false
	}
	return offset, true
}
