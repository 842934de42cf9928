package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/vibeshelf/internal/application/book"
	"github.com/xiebiao/vibeshelf/internal/domain/book"
	"github.com/xiebiao/vibeshelf/internal/interface/http/dto"
	"github.com/xiebiao/vibeshelf/pkg/cache"
	"github.com/xiebiao/vibeshelf/pkg/logger"
	"github.com/xiebiao/vibeshelf/pkg/response"
)

// 各接口的limit范围
const (
	maxListLimit        = 100
	maxSearchLimit      = 50
	maxFeaturedLimit    = 50
	maxSuggestionsLimit = 20

	// countCacheAge 总数接口的meta.cacheAge固定为缓存区域TTL（秒）
	countCacheAge = 3600
)

// 失败时的提示信息
const (
	msgFetchBooks       = "Failed to fetch books"
	msgFetchBook        = "Failed to fetch book"
	msgSearchFailed     = "Search failed"
	msgFetchPopular     = "Failed to fetch popular books"
	msgFetchRecent      = "Failed to fetch recent books"
	msgFetchByGenre     = "Failed to fetch books by genre"
	msgBulkFailed       = "Bulk fetch failed"
	msgFetchSuggestions = "Failed to fetch suggestions"
	msgFetchCount       = "Failed to fetch books count"
)

// BookV2Handler v2图书HTTP处理器
// 设计说明：
// 1. 所有响应使用统一信封 {data, pagination, meta, error}
// 2. meta.cached/cacheAge来自领域服务返回的cache.Lookup，source为cache或database
// 3. limit超出范围时收敛到接口允许的区间，不报错
// 4. 失败时data为null、source为error，error是各接口固定的提示信息
type BookV2Handler struct {
	browseUseCase   *appbook.BrowseBooksUseCase
	getBookUseCase  *appbook.GetBookUseCase
	featuredUseCase *appbook.FeaturedBooksUseCase
	bulkUseCase     *appbook.BulkBooksUseCase
	catalogUseCase  *appbook.CatalogInfoUseCase
}

// NewBookV2Handler 创建v2图书处理器
func NewBookV2Handler(
	browseUseCase *appbook.BrowseBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	featuredUseCase *appbook.FeaturedBooksUseCase,
	bulkUseCase *appbook.BulkBooksUseCase,
	catalogUseCase *appbook.CatalogInfoUseCase,
) *BookV2Handler {
	return &BookV2Handler{
		browseUseCase:   browseUseCase,
		getBookUseCase:  getBookUseCase,
		featuredUseCase: featuredUseCase,
		bulkUseCase:     bulkUseCase,
		catalogUseCase:  catalogUseCase,
	}
}

// ListBooks v2分页列表
// @Summary      图书列表（v2）
// @Description  页码从0开始；cursor为上一页返回的pagination.cursor，有效时优先于page；fields选择投影
// @Tags         图书v2
// @Produce      json
// @Param        query query dto.V2ListQuery false "分页、投影、排序、过滤"
// @Success      200 {object} response.Envelope{data=[]book.Essential,pagination=book.Pagination}
// @Failure      500 {object} response.Envelope
// @Router       /api/v2/books [get]
func (h *BookV2Handler) ListBooks(c *gin.Context) {
	start := time.Now()

	var q dto.V2ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.EnvelopeError(c, http.StatusBadRequest, "Invalid parameters: "+err.Error(), start)
		return
	}

	result, err := h.browseUseCase.List(c.Request.Context(), appbook.BrowseRequest{
		Page:      clampPage(q.Page),
		Limit:     clamp(q.Limit, 1, maxListLimit),
		Cursor:    q.Cursor,
		Fields:    book.ParseFields(q.Fields),
		Sort:      q.Sort,
		Order:     q.Order,
		Genre:     q.Genre,
		MinRating: q.MinRating,
		MinYear:   q.MinYear,
		MaxYear:   q.MaxYear,
	})
	if err != nil {
		envelopeFailure(c, err, msgFetchBooks, start)
		return
	}

	response.EnvelopeOK(c, result.Data, result.Pagination, lookupMeta(result.Lookup, start))
}

// GetBook v2详情
// @Summary      图书详情（v2）
// @Description  返回detailed投影；浏览次数异步记录
// @Tags         图书v2
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Envelope{data=book.Detailed}
// @Failure      404 {object} response.Envelope
// @Failure      500 {object} response.Envelope
// @Router       /api/v2/books/{id} [get]
func (h *BookV2Handler) GetBook(c *gin.Context) {
	start := time.Now()

	id, ok := parseBookID(c.Param("id"))
	if !ok {
		response.EnvelopeError(c, http.StatusBadRequest, errInvalidBookID.Message, start)
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		envelopeFailure(c, err, msgFetchBook, start)
		return
	}

	response.EnvelopeOK(c, result.Detailed, nil, lookupMeta(result.Lookup, start))
}

// SearchBooks v2搜索
// @Summary      搜索图书（v2）
// @Description  标题或作者包含关键字；minRating接受但当前数据没有评分列，不生效
// @Tags         图书v2
// @Produce      json
// @Param        query query dto.V2SearchQuery false "关键字、分页、过滤"
// @Success      200 {object} response.Envelope{data=[]book.Detailed,pagination=book.Pagination}
// @Failure      500 {object} response.Envelope
// @Router       /api/v2/books/search [get]
func (h *BookV2Handler) SearchBooks(c *gin.Context) {
	start := time.Now()

	var q dto.V2SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.EnvelopeError(c, http.StatusBadRequest, "Invalid parameters: "+err.Error(), start)
		return
	}

	result, err := h.browseUseCase.Search(c.Request.Context(), appbook.BrowseRequest{
		Page:      clampPage(q.Page),
		Limit:     clamp(q.Limit, 1, maxSearchLimit),
		Genre:     q.Genre,
		Query:     q.Q,
		MinRating: q.MinRating,
	})
	if err != nil {
		envelopeFailure(c, err, msgSearchFailed, start)
		return
	}

	response.EnvelopeOK(c, result.Data, result.Pagination, lookupMeta(result.Lookup, start))
}

// PopularBooks 热门图书
// @Summary      热门图书（v2）
// @Tags         图书v2
// @Produce      json
// @Param        limit query int false "数量（1-50，默认20）"
// @Success      200 {object} response.Envelope{data=[]book.Detailed}
// @Failure      500 {object} response.Envelope
// @Router       /api/v2/books/popular [get]
func (h *BookV2Handler) PopularBooks(c *gin.Context) {
	h.featured(c, h.featuredUseCase.Popular, msgFetchPopular)
}

// RecentBooks 最新图书
// @Summary      最新图书（v2）
// @Tags         图书v2
// @Produce      json
// @Param        limit query int false "数量（1-50，默认20）"
// @Success      200 {object} response.Envelope{data=[]book.Detailed}
// @Failure      500 {object} response.Envelope
// @Router       /api/v2/books/recent [get]
func (h *BookV2Handler) RecentBooks(c *gin.Context) {
	h.featured(c, h.featuredUseCase.Recent, msgFetchRecent)
}

func (h *BookV2Handler) featured(c *gin.Context, fetch func(ctx context.Context, limit int) (*appbook.ListResponse, error), failure string) {
	start := time.Now()

	var q dto.LimitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.EnvelopeError(c, http.StatusBadRequest, "Invalid parameters: "+err.Error(), start)
		return
	}

	result, err := fetch(c.Request.Context(), clamp(q.Limit, 1, maxFeaturedLimit))
	if err != nil {
		envelopeFailure(c, err, failure, start)
		return
	}

	response.EnvelopeOK(c, result.Data, nil, lookupMeta(result.Lookup, start))
}

// BooksByGenre 按类型浏览
// @Summary      按类型浏览（v2）
// @Description  当前数据没有独立的类型表，始终返回空页；按类型过滤请使用列表接口的genre参数
// @Tags         图书v2
// @Produce      json
// @Param        genre path string true "类型"
// @Param        query query dto.V2PageQuery false "分页"
// @Success      200 {object} response.Envelope{data=[]book.Detailed,pagination=book.Pagination}
// @Failure      500 {object} response.Envelope
// @Router       /api/v2/books/genre/{genre} [get]
func (h *BookV2Handler) BooksByGenre(c *gin.Context) {
	start := time.Now()

	var q dto.V2PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.EnvelopeError(c, http.StatusBadRequest, "Invalid parameters: "+err.Error(), start)
		return
	}

	result, err := h.browseUseCase.ByGenre(c.Request.Context(), c.Param("genre"), clampPage(q.Page), clamp(q.Limit, 1, maxListLimit))
	if err != nil {
		envelopeFailure(c, err, msgFetchByGenre, start)
		return
	}

	response.EnvelopeOK(c, result.Data, result.Pagination, lookupMeta(result.Lookup, start))
}

// BulkBooks 按ID批量查询
// @Summary      批量查询（v2）
// @Description  最多100个ID，不存在的ID直接忽略
// @Tags         图书v2
// @Accept       json
// @Produce      json
// @Param        request body dto.BulkBooksRequest true "图书ID列表"
// @Success      200 {object} response.Envelope{data=[]book.Detailed}
// @Failure      400 {object} response.Envelope "Maximum 100 books can be requested at once"
// @Failure      500 {object} response.Envelope
// @Router       /api/v2/books/bulk [post]
func (h *BookV2Handler) BulkBooks(c *gin.Context) {
	start := time.Now()

	var req dto.BulkBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.EnvelopeError(c, http.StatusBadRequest, "Invalid parameters: "+err.Error(), start)
		return
	}

	result, err := h.bulkUseCase.Execute(c.Request.Context(), req.BookIDs)
	if err != nil {
		envelopeFailure(c, err, msgBulkFailed, start)
		return
	}

	response.EnvelopeOK(c, result.Data, nil, lookupMeta(result.Lookup, start))
}

// Suggestions 搜索建议
// @Summary      搜索建议（v2）
// @Description  当前实现返回空的titles/authors
// @Tags         图书v2
// @Produce      json
// @Param        query query dto.SuggestionsQuery false "前缀、类型、数量"
// @Success      200 {object} response.Envelope{data=book.Suggestions}
// @Failure      500 {object} response.Envelope
// @Router       /api/v2/books/suggestions [get]
func (h *BookV2Handler) Suggestions(c *gin.Context) {
	start := time.Now()

	var q dto.SuggestionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.EnvelopeError(c, http.StatusBadRequest, "Invalid parameters: "+err.Error(), start)
		return
	}

	result, err := h.catalogUseCase.Suggestions(c.Request.Context(), q.Q, q.Type, clamp(q.Limit, 1, maxSuggestionsLimit))
	if err != nil {
		envelopeFailure(c, err, msgFetchSuggestions, start)
		return
	}

	response.EnvelopeOK(c, result.Data, nil, lookupMeta(result.Lookup, start))
}

// CountBooks 图书总数
// @Summary      图书总数（v2）
// @Tags         图书v2
// @Produce      json
// @Success      200 {object} response.Envelope{data=int64}
// @Failure      500 {object} response.Envelope
// @Router       /api/v2/books/count [get]
func (h *BookV2Handler) CountBooks(c *gin.Context) {
	start := time.Now()

	result, err := h.catalogUseCase.Count(c.Request.Context())
	if err != nil {
		envelopeFailure(c, err, msgFetchCount, start)
		return
	}

	meta := lookupMeta(result.Lookup, start)
	meta.CacheAge = countCacheAge
	response.EnvelopeOK(c, result.Total, nil, meta)
}

// =========================================
// 辅助函数
// =========================================

// envelopeFailure 已知的业务错误按对应状态码返回，其余记录日志后返回500和接口固定的提示
func envelopeFailure(c *gin.Context, err error, message string, start time.Time) {
	switch {
	case errors.Is(err, book.ErrBookNotFound):
		response.EnvelopeError(c, http.StatusNotFound, book.ErrBookNotFound.Message, start)
	case errors.Is(err, book.ErrTooManyIDs):
		response.EnvelopeError(c, http.StatusBadRequest, book.ErrTooManyIDs.Message, start)
	default:
		logger.FromContext(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(message)
		response.EnvelopeError(c, http.StatusInternalServerError, message, start)
	}
}

func lookupMeta(l cache.Lookup, start time.Time) response.Meta {
	return response.NewMeta(l.Cached, l.Age, start)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampPage(page int) int {
	if page < 0 {
		return 0
	}
	return page
}
