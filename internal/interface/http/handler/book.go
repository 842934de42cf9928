package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/vibeshelf/internal/application/book"
	"github.com/xiebiao/vibeshelf/internal/domain/book"
	"github.com/xiebiao/vibeshelf/internal/interface/http/dto"
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
	"github.com/xiebiao/vibeshelf/pkg/response"
)

var errInvalidBookID = apperrors.New(apperrors.ErrCodeInvalidParams, "Invalid book id")

// BookHandler v1图书HTTP处理器
// 设计说明：
// 1. v1接口直接输出业务结构（不使用v2的data/meta信封），保持已有前端的兼容
// 2. 列表项只含id/title/author/imageUrl，详情多出description和genre
// 3. 所有查询都经过领域服务的缓存
// 4. 存储故障只返回接口级提示（与v2相同的文案），内部错误写日志
type BookHandler struct {
	listBooksUseCase *appbook.ListBooksUseCase
	getBookUseCase   *appbook.GetBookUseCase
	catalogUseCase   *appbook.CatalogInfoUseCase
}

// NewBookHandler 创建v1图书处理器
func NewBookHandler(
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	catalogUseCase *appbook.CatalogInfoUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase: listBooksUseCase,
		getBookUseCase:   getBookUseCase,
		catalogUseCase:   catalogUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页浏览图书，可按genre过滤（多个类型用逗号/斜杠/分号/竖线分隔，匹配任意一个）
// @Tags         图书v1
// @Produce      json
// @Param        query query dto.ListBooksQuery false "分页与过滤"
// @Success      200 {object} appbook.ListBooksResponse
// @Failure      500 {object} response.ErrorBody
// @Router       /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	// 1. 绑定参数
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessage("Invalid parameters: "+err.Error()))
		return
	}

	// 2. 调用应用层用例
	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:  q.Page,
		Limit: q.Limit,
		Genre: q.Genre,
	})
	if err != nil {
		response.ErrorWithFallback(c, err, msgFetchBooks)
		return
	}

	response.Success(c, result)
}

// SearchBooks 按标题或作者搜索
// @Summary      搜索图书
// @Description  标题或作者包含关键字（不区分大小写），关键字为空时等同列表
// @Tags         图书v1
// @Produce      json
// @Param        query query dto.SearchBooksQuery false "关键字、分页与过滤"
// @Success      200 {object} appbook.ListBooksResponse
// @Failure      500 {object} response.ErrorBody
// @Router       /api/books/search [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	var q dto.SearchBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessage("Invalid parameters: "+err.Error()))
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:  q.Page,
		Limit: q.Limit,
		Genre: q.Genre,
		Query: q.Q,
	})
	if err != nil {
		response.ErrorWithFallback(c, err, msgSearchFailed)
		return
	}

	response.Success(c, result)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书v1
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} dto.BookDetailResponse
// @Failure      404 {object} response.ErrorBody "Book not found"
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseBookID(c.Param("id"))
	if !ok {
		response.Error(c, errInvalidBookID)
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": book.ErrBookNotFound.Message})
			return
		}
		response.ErrorWithFallback(c, err, msgFetchBook)
		return
	}

	response.Success(c, dto.BookDetailResponse{Book: result.Book})
}

// CountBooks 图书总数
// @Summary      图书总数
// @Tags         图书v1
// @Produce      json
// @Success      200 {object} dto.CountResponse
// @Router       /api/books/count [get]
func (h *BookHandler) CountBooks(c *gin.Context) {
	result, err := h.catalogUseCase.Count(c.Request.Context())
	if err != nil {
		response.ErrorWithFallback(c, err, msgFetchCount)
		return
	}
	response.Success(c, dto.CountResponse{TotalBooks: result.Total})
}

// parseBookID 只接受正整数
func parseBookID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
