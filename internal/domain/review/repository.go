package review

import "context"

// Repository 书评仓储接口
type Repository interface {
	// Create 保存书评，回填ID和CreatedAt
	Create(ctx context.Context, r *Review) error

	// ListByBook 某本书的全部书评，按创建时间倒序
	ListByBook(ctx context.Context, bookID uint) ([]Review, error)
}

// Author 书评作者
type Author struct {
	ID       uint
	Username string
	Email    string
}

// AuthorResolver 按登录邮箱解析作者（由用户模块提供）
type AuthorResolver interface {
	ResolveAuthor(ctx context.Context, email string) (*Author, error)
}
