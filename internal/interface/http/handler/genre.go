package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/vibeshelf/internal/application/book"
	"github.com/xiebiao/vibeshelf/internal/interface/http/dto"
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
	"github.com/xiebiao/vibeshelf/pkg/response"
)

// GenreHandler 类型HTTP处理器
type GenreHandler struct {
	catalogUseCase *appbook.CatalogInfoUseCase
}

// NewGenreHandler 创建类型处理器
func NewGenreHandler(catalogUseCase *appbook.CatalogInfoUseCase) *GenreHandler {
	return &GenreHandler{catalogUseCase: catalogUseCase}
}

// ListGenres 全部规范类型名
// @Summary      类型列表
// @Tags         类型
// @Produce      json
// @Success      200 {object} appbook.GenresResponse
// @Router       /api/genres [get]
func (h *GenreHandler) ListGenres(c *gin.Context) {
	response.Success(c, h.catalogUseCase.Genres())
}

// GenreBooks 按类型名查询
// @Summary      按类型查询
// @Description  类型名先规整为规范名（sci-fi → Science Fiction）；当前始终返回空列表
// @Tags         类型
// @Produce      json
// @Param        genre path string true "类型名或别名"
// @Param        query query dto.GenrePageQuery false "分页"
// @Success      200 {object} appbook.GenreBooksResponse
// @Router       /api/genres/{genre} [get]
func (h *GenreHandler) GenreBooks(c *gin.Context) {
	var q dto.GenrePageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessage("Invalid parameters: "+err.Error()))
		return
	}

	result, err := h.catalogUseCase.GenreBooks(c.Request.Context(), c.Param("genre"), q.Page, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
