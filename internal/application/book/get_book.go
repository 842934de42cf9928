package book

import (
	"context"

	"github.com/xiebiao/vibeshelf/internal/domain/book"
	"github.com/xiebiao/vibeshelf/pkg/cache"
)

// GetBookUseCase 图书详情用例(v1与v2共用)
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// BookDetail v1详情
type BookDetail struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Genre       string `json:"genre"`
}

// GetBookResponse 详情结果
type GetBookResponse struct {
	Book     BookDetail
	Detailed book.Detailed // v2使用的详情投影
	Lookup   cache.Lookup
}

// Execute 查询详情;不存在返回book.ErrBookNotFound
// 浏览次数由领域服务异步记录,不影响本次响应
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*GetBookResponse, error) {
	b, lookup, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	return &GetBookResponse{
		Book: BookDetail{
			ID:          b.ID,
			Title:       b.Title,
			Author:      b.Author,
			Description: b.Description,
			ImageURL:    b.ImageURL,
			Genre:       b.Genre,
		},
		Detailed: b.Detailed(),
		Lookup:   lookup,
	}, nil
}
