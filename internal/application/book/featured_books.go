package book

import (
	"context"

	"github.com/xiebiao/vibeshelf/internal/domain/book"
	"github.com/xiebiao/vibeshelf/pkg/cache"
)

// ListResponse v2不分页的列表结果
type ListResponse struct {
	Data   []book.Detailed
	Lookup cache.Lookup
}

// FeaturedBooksUseCase 热门/最新图书用例
// 规范表没有评分和时间列,热门按ID正序、最新按ID倒序,顺序不具备业务含义
type FeaturedBooksUseCase struct {
	bookService book.Service
}

// NewFeaturedBooksUseCase 创建热门/最新图书用例
func NewFeaturedBooksUseCase(bookService book.Service) *FeaturedBooksUseCase {
	return &FeaturedBooksUseCase{bookService: bookService}
}

// Popular 热门图书
func (uc *FeaturedBooksUseCase) Popular(ctx context.Context, limit int) (*ListResponse, error) {
	books, lookup, err := uc.bookService.PopularBooks(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Data: book.DetailedList(books), Lookup: lookup}, nil
}

// Recent 最新图书
func (uc *FeaturedBooksUseCase) Recent(ctx context.Context, limit int) (*ListResponse, error) {
	books, lookup, err := uc.bookService.RecentBooks(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Data: book.DetailedList(books), Lookup: lookup}, nil
}

// BulkBooksUseCase 按ID批量查询用例
type BulkBooksUseCase struct {
	bookService book.Service
}

// NewBulkBooksUseCase 创建批量查询用例
func NewBulkBooksUseCase(bookService book.Service) *BulkBooksUseCase {
	return &BulkBooksUseCase{bookService: bookService}
}

// Execute 超过100个ID返回book.ErrTooManyIDs,不存在的ID直接忽略
func (uc *BulkBooksUseCase) Execute(ctx context.Context, ids []uint) (*ListResponse, error) {
	books, lookup, err := uc.bookService.BulkBooks(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Data: book.DetailedList(books), Lookup: lookup}, nil
}
