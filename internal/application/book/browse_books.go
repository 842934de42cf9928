package book

import (
	"context"
	"strings"

	"github.com/xiebiao/vibeshelf/internal/domain/book"
	"github.com/xiebiao/vibeshelf/pkg/cache"
)

// BrowseBooksUseCase v2分页查询用例(列表、搜索、按类型)
// 设计说明:
// 1. v2页码从0开始,原样回显;领域层页码从1开始,这里做+1转换
// 2. 游标(cursor)有效时优先于page
// 3. 列表按fields选择投影,搜索和按类型查询固定返回detailed投影
type BrowseBooksUseCase struct {
	bookService book.Service
}

// NewBrowseBooksUseCase 创建v2分页查询用例
func NewBrowseBooksUseCase(bookService book.Service) *BrowseBooksUseCase {
	return &BrowseBooksUseCase{bookService: bookService}
}

// BrowseRequest v2分页请求(limit已由HTTP层按接口限制好范围)
type BrowseRequest struct {
	Page      int // 从0开始
	Limit     int
	Cursor    string
	Fields    book.Fields
	Sort      string
	Order     string
	Genre     string
	Query     string
	MinRating *float64 // 规范表没有评分列,接受但不生效
	MinYear   *int     // 同上
	MaxYear   *int     // 同上
}

// PageResponse v2分页结果
type PageResponse struct {
	Data       interface{}
	Pagination book.Pagination
	Lookup     cache.Lookup
}

func (r BrowseRequest) listParams() book.ListParams {
	return book.ListParams{
		Page:   r.Page + 1,
		Limit:  r.Limit,
		Cursor: r.Cursor,
		Genre:  r.Genre,
		Search: r.Query,
		Sort:   r.Sort,
		Order:  r.Order,
	}
}

// List 列表(/api/v2/books)
func (uc *BrowseBooksUseCase) List(ctx context.Context, req BrowseRequest) (*PageResponse, error) {
	res, err := uc.bookService.ListBooks(ctx, req.listParams())
	if err != nil {
		return nil, err
	}
	return newPageResponse(req.Page, res, book.Project(res.Page.Books, req.Fields)), nil
}

// Search 搜索(/api/v2/books/search),关键字为空时等同列表
func (uc *BrowseBooksUseCase) Search(ctx context.Context, req BrowseRequest) (*PageResponse, error) {
	res, err := uc.bookService.SearchBooks(ctx, book.SearchParams{
		ListParams: req.listParams(),
		MinRating:  req.MinRating,
	})
	if err != nil {
		return nil, err
	}
	return newPageResponse(req.Page, res, book.DetailedList(res.Page.Books)), nil
}

// ByGenre 按类型(/api/v2/books/genre/{genre}),规范表上始终为空页
func (uc *BrowseBooksUseCase) ByGenre(ctx context.Context, genre string, page, limit int) (*PageResponse, error) {
	res, err := uc.bookService.BooksByGenre(ctx, strings.TrimSpace(genre), page+1, limit)
	if err != nil {
		return nil, err
	}
	return newPageResponse(page, res, book.DetailedList(res.Page.Books)), nil
}

// newPageResponse page为客户端传入的页码,原样回显
func newPageResponse(page int, res *book.ListResult, data interface{}) *PageResponse {
	return &PageResponse{
		Data:       data,
		Pagination: book.NewPagination(page, res.Query.Limit, res.Query.Offset, res.Page.Total),
		Lookup:     res.Lookup,
	}
}
