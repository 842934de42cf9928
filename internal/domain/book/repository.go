package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 所有方法只读,规范表不通过API修改
type Repository interface {
	// Find 按Query分页查询,同时返回满足条件的总数
	Find(ctx context.Context, q Query) ([]Book, int64, error)

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查找,不存在的ID直接忽略
	FindByIDs(ctx context.Context, ids []uint) ([]Book, error)

	// FindTop 按ID排序取前limit本(desc=true为倒序)
	FindTop(ctx context.Context, limit int, desc bool) ([]Book, error)

	// Count 图书总数
	Count(ctx context.Context) (int64, error)
}

// ViewRecorder 浏览次数记录
// 规范表没有view_count列,当前实现只计数到指标;接口保留给表结构扩展后使用
type ViewRecorder interface {
	RecordView(ctx context.Context, id uint) error
}
