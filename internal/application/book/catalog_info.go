package book

import (
	"context"
	"strings"

	"github.com/xiebiao/vibeshelf/internal/domain/book"
	"github.com/xiebiao/vibeshelf/pkg/cache"
)

// CatalogInfoUseCase 目录概况用例:总数、搜索建议、类型列表
type CatalogInfoUseCase struct {
	bookService book.Service
	genres      *book.GenreNormalizer
}

// NewCatalogInfoUseCase 创建目录概况用例
func NewCatalogInfoUseCase(bookService book.Service, genres *book.GenreNormalizer) *CatalogInfoUseCase {
	return &CatalogInfoUseCase{bookService: bookService, genres: genres}
}

// CountResponse 总数结果
type CountResponse struct {
	Total  int64
	Lookup cache.Lookup
}

// Count 图书总数
func (uc *CatalogInfoUseCase) Count(ctx context.Context) (*CountResponse, error) {
	total, lookup, err := uc.bookService.TotalCount(ctx)
	if err != nil {
		return nil, err
	}
	return &CountResponse{Total: total, Lookup: lookup}, nil
}

// SuggestionsResponse 搜索建议结果
type SuggestionsResponse struct {
	Data   *book.Suggestions
	Lookup cache.Lookup
}

// Suggestions 搜索建议,kind为空时按title处理
func (uc *CatalogInfoUseCase) Suggestions(ctx context.Context, prefix, kind string, limit int) (*SuggestionsResponse, error) {
	if kind == "" {
		kind = "title"
	}
	s, lookup, err := uc.bookService.Suggestions(ctx, strings.TrimSpace(prefix), kind, limit)
	if err != nil {
		return nil, err
	}
	return &SuggestionsResponse{Data: s, Lookup: lookup}, nil
}

// GenresResponse 类型列表
type GenresResponse struct {
	Genres []string `json:"genres"`
	Total  int      `json:"total"`
}

// Genres 全部规范类型名(按字母排序)
func (uc *CatalogInfoUseCase) Genres() *GenresResponse {
	names := uc.genres.Canonical()
	return &GenresResponse{Genres: names, Total: len(names)}
}

// GenreBooksResponse /api/genres/{genre}的响应结构
type GenreBooksResponse struct {
	Genre         string           `json:"genre"`
	Books         []book.Essential `json:"books"`
	TotalReturned int              `json:"totalReturned"`
	Total         int64            `json:"total"`
	TotalPages    int64            `json:"totalPages"`
	HasMore       bool             `json:"hasMore"`
}

// GenreBooks 按类型名查询(先规整为规范名)
// 规范表上不支持专用的类型查询,结果始终为空页;按类型过滤请使用列表接口的genre参数
func (uc *CatalogInfoUseCase) GenreBooks(ctx context.Context, genre string, page, limit int) (*GenreBooksResponse, error) {
	name := uc.genres.Normalize(genre)

	res, err := uc.bookService.BooksByGenre(ctx, name, page, limit)
	if err != nil {
		return nil, err
	}

	books := book.Project(res.Page.Books, book.FieldsEssential).([]book.Essential)
	p := book.NewPagination(res.Query.Page, res.Query.Limit, res.Query.Offset, res.Page.Total)
	return &GenreBooksResponse{
		Genre:         name,
		Books:         books,
		TotalReturned: len(books),
		Total:         p.Total,
		TotalPages:    p.TotalPages,
		HasMore:       p.HasNext,
	}, nil
}
