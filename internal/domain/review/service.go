package review

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
)

// Service 书评领域服务
type Service interface {
	// ListReviews 某本书的全部书评（最新在前，不分页）
	ListReviews(ctx context.Context, bookID uint) ([]Review, error)

	// SubmitReview 提交书评；userEmail为空返回ErrAuthRequired，bookID为0返回ErrBookIDRequired
	SubmitReview(ctx context.Context, userEmail string, bookID uint, rating int, text string) (*Review, error)
}

type service struct {
	repo    Repository
	authors AuthorResolver
}

// NewService 创建书评服务
func NewService(repo Repository, authors AuthorResolver) Service {
	return &service{repo: repo, authors: authors}
}

func (s *service) ListReviews(ctx context.Context, bookID uint) ([]Review, error) {
	reviews, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}

// SubmitReview 提交书评
// 检查顺序：身份 → 用户存在 → bookId
func (s *service) SubmitReview(ctx context.Context, userEmail string, bookID uint, rating int, text string) (*Review, error) {
	// 1. 身份
	if strings.TrimSpace(userEmail) == "" {
		return nil, ErrAuthRequired
	}
	author, err := s.authors.ResolveAuthor(ctx, userEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}

	// 2. 参数
	if bookID == 0 {
		return nil, ErrBookIDRequired
	}

	// 3. 快照作者名
	name := author.Username
	if name == "" {
		name = author.Email
	}

	r := &Review{
		BookID:     bookID,
		UserID:     author.ID,
		AuthorName: name,
		Rating:     rating,
		ReviewText: text,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}
