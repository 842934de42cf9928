package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/vibeshelf/internal/domain/review"
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
)

// reviewRepository 书评仓储实现
type reviewRepository struct {
	db      *gorm.DB
	timeout QueryTimeout
}

// NewReviewRepository 创建书评仓储
func NewReviewRepository(db *gorm.DB, timeout QueryTimeout) review.Repository {
	return &reviewRepository{db: db, timeout: timeout}
}

func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	ctx, cancel := r.timeout.withTimeout(ctx)
	defer cancel()

	model := &ReviewModel{
		BookID:     rv.BookID,
		UserID:     rv.UserID,
		AuthorName: rv.AuthorName,
		Rating:     rv.Rating,
		ReviewText: rv.ReviewText,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "保存书评失败")
	}

	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	return nil
}

// ListByBook 按创建时间倒序，时间相同按ID倒序
func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]review.Review, error) {
	ctx, cancel := r.timeout.withTimeout(ctx)
	defer cancel()

	var models []ReviewModel
	err := getDB(ctx, r.db).
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询书评失败")
	}

	reviews := make([]review.Review, len(models))
	for i, m := range models {
		reviews[i] = review.Review{
			ID:         m.ID,
			BookID:     m.BookID,
			UserID:     m.UserID,
			AuthorName: m.AuthorName,
			Rating:     m.Rating,
			ReviewText: m.ReviewText,
			CreatedAt:  m.CreatedAt,
		}
	}
	return reviews, nil
}
