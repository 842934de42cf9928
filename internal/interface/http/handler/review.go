package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/vibeshelf/internal/application/review"
	"github.com/xiebiao/vibeshelf/internal/interface/http/dto"
	"github.com/xiebiao/vibeshelf/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
	"github.com/xiebiao/vibeshelf/pkg/response"
)

// ReviewHandler 书评HTTP处理器
type ReviewHandler struct {
	listReviewsUseCase  *appreview.ListReviewsUseCase
	submitReviewUseCase *appreview.SubmitReviewUseCase
}

// NewReviewHandler 创建书评处理器
func NewReviewHandler(
	listReviewsUseCase *appreview.ListReviewsUseCase,
	submitReviewUseCase *appreview.SubmitReviewUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		listReviewsUseCase:  listReviewsUseCase,
		submitReviewUseCase: submitReviewUseCase,
	}
}

// ListReviews 某本书的书评
// @Summary      书评列表
// @Description  最新在前，不分页
// @Tags         书评
// @Produce      json
// @Param        bookId path int true "图书ID"
// @Success      200 {array} appreview.ReviewDTO
// @Failure      400 {object} response.ErrorBody
// @Router       /api/reviews/{bookId} [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("bookId"), 10, 64)
	if err != nil {
		response.Error(c, apperrors.New(apperrors.ErrCodeInvalidParams, "Invalid bookId"))
		return
	}

	reviews, err := h.listReviewsUseCase.Execute(c.Request.Context(), uint(bookID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reviews)
}

// SubmitReview 提交书评
// @Summary      提交书评
// @Description  作者取自登录用户；请求体中的用户信息忽略
// @Tags         书评
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SubmitReviewRequest true "书评"
// @Success      201 {object} appreview.ReviewDTO
// @Failure      400 {object} response.ErrorBody "bookId is required"
// @Failure      401 {object} response.ErrorBody "Authentication required to submit reviews"
// @Router       /api/reviews [post]
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	// 1. 当前用户由OptionalAuth写入，未登录时为空，由领域服务返回401
	email := middleware.GetEmail(c)

	// 2. 绑定参数（请求体为空时按缺少bookId处理）
	var req dto.SubmitReviewRequest
	if email != "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperrors.ErrBindError.WithMessage("Invalid parameters: "+err.Error()))
			return
		}
	}

	// 3. 调用用例
	result, err := h.submitReviewUseCase.Execute(c.Request.Context(), appreview.SubmitReviewRequest{
		UserEmail:  email,
		BookID:     req.BookID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
