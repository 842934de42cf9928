package review

import (
	"context"
	"time"

	"github.com/xiebiao/vibeshelf/internal/domain/review"
)

// ReviewDTO 书评响应结构
type ReviewDTO struct {
	ID         uint      `json:"id"`
	BookID     uint      `json:"bookId"`
	UserID     uint      `json:"userId"`
	AuthorName string    `json:"authorName"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"reviewText"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toDTO(r *review.Review) ReviewDTO {
	return ReviewDTO{
		ID:         r.ID,
		BookID:     r.BookID,
		UserID:     r.UserID,
		AuthorName: r.AuthorName,
		Rating:     r.Rating,
		ReviewText: r.ReviewText,
		CreatedAt:  r.CreatedAt,
	}
}

// ListReviewsUseCase 查询书评用例
type ListReviewsUseCase struct {
	reviewService review.Service
}

// NewListReviewsUseCase 创建查询书评用例
func NewListReviewsUseCase(reviewService review.Service) *ListReviewsUseCase {
	return &ListReviewsUseCase{reviewService: reviewService}
}

// Execute 某本书的全部书评，最新在前；没有书评时返回空数组
func (uc *ListReviewsUseCase) Execute(ctx context.Context, bookID uint) ([]ReviewDTO, error) {
	reviews, err := uc.reviewService.ListReviews(ctx, bookID)
	if err != nil {
		return nil, err
	}

	out := make([]ReviewDTO, 0, len(reviews))
	for i := range reviews {
		out = append(out, toDTO(&reviews[i]))
	}
	return out, nil
}

// SubmitReviewUseCase 提交书评用例
// 作者由认证中间件写入的邮箱解析，请求体里的用户信息一律忽略
type SubmitReviewUseCase struct {
	reviewService review.Service
}

// NewSubmitReviewUseCase 创建提交书评用例
func NewSubmitReviewUseCase(reviewService review.Service) *SubmitReviewUseCase {
	return &SubmitReviewUseCase{reviewService: reviewService}
}

// SubmitReviewRequest 提交书评请求
type SubmitReviewRequest struct {
	UserEmail  string
	BookID     uint
	Rating     int
	ReviewText string
}

// Execute 提交书评
func (uc *SubmitReviewUseCase) Execute(ctx context.Context, req SubmitReviewRequest) (*ReviewDTO, error) {
	r, err := uc.reviewService.SubmitReview(ctx, req.UserEmail, req.BookID, req.Rating, req.ReviewText)
	if err != nil {
		return nil, err
	}
	dto := toDTO(r)
	return &dto, nil
}
