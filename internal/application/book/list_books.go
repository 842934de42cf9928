package book

import (
	"context"

	"github.com/xiebiao/vibeshelf/internal/domain/book"
)

// ListBooksUseCase v1图书列表/搜索用例
// 设计说明:
// 1. 对应 /api/books 和 /api/books/search,两者响应结构相同
// 2. 关键字为空时领域服务退化为列表查询
// 3. 列表项只含id/title/author/imageUrl(不含description,减少传输量)
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page  int    // 页码(从1开始)
	Limit int    // 每页数量
	Genre string // 原始genre参数
	Query string // 标题或作者关键字,为空时等同列表
}

// BookListItem 列表项(不含description)
type BookListItem struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	ImageURL string `json:"imageUrl"`
}

// ListBooksResponse v1列表响应
type ListBooksResponse struct {
	Books      []BookListItem `json:"books"`
	Total      int64          `json:"total"`
	TotalPages int64          `json:"totalPages"`
	HasMore    bool           `json:"hasMore"`
}

// Execute 执行列表查询用例
// 学习要点:
// 1. 参数默认值与范围限制统一由book.NewQuery处理(page<1按1,limit限制在[1,100])
// 2. 调用领域服务查询(先查缓存)
// 3. hasMore与totalPages由Pagination计算,与v2接口保持一致
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. 调用领域服务
	res, err := uc.bookService.SearchBooks(ctx, book.SearchParams{
		ListParams: book.ListParams{
			Page:   req.Page,
			Limit:  req.Limit,
			Genre:  req.Genre,
			Search: req.Query,
		},
	})
	if err != nil {
		return nil, err
	}

	// 2. 转换为列表项
	list := make([]BookListItem, len(res.Page.Books))
	for i, b := range res.Page.Books {
		list[i] = BookListItem{
			ID:       b.ID,
			Title:    b.Title,
			Author:   b.Author,
			ImageURL: b.ImageURL,
		}
	}

	// 3. 分页信息
	p := book.NewPagination(res.Query.Page, res.Query.Limit, res.Query.Offset, res.Page.Total)

	return &ListBooksResponse{
		Books:      list,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasMore:    p.HasNext,
	}, nil
}
