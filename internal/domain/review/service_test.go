package review

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
)

type memRepo struct {
	mu      sync.Mutex
	reviews []Review
	clock   time.Time
}

func (r *memRepo) Create(_ context.Context, rv *Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = r.clock.Add(time.Second)
	rv.ID = uint(len(r.reviews) + 1)
	rv.CreatedAt = r.clock
	r.reviews = append(r.reviews, *rv)
	return nil
}

func (r *memRepo) ListByBook(_ context.Context, bookID uint) ([]Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Review
	for _, rv := range r.reviews {
		if rv.BookID == bookID {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type authors map[string]*Author

func (a authors) ResolveAuthor(_ context.Context, email string) (*Author, error) {
	if au, ok := a[email]; ok {
		return au, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func newTestService() Service {
	return NewService(&memRepo{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, authors{
		"alice@example.com": {ID: 1, Username: "alice", Email: "alice@example.com"},
		"bob@example.com":   {ID: 2, Email: "bob@example.com"},
	})
}

func TestService_SubmitReview(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("未登录", func(t *testing.T) {
		_, err := svc.SubmitReview(ctx, "", 1, 5, "great")
		assert.ErrorIs(t, err, ErrAuthRequired)
		assert.Equal(t, 401, apperrors.HTTPStatus(apperrors.GetAppError(err).Code))
	})

	t.Run("用户不存在", func(t *testing.T) {
		_, err := svc.SubmitReview(ctx, "ghost@example.com", 1, 5, "great")
		assert.ErrorIs(t, err, ErrAuthorNotFound)
		assert.Equal(t, 401, apperrors.HTTPStatus(apperrors.GetAppError(err).Code))
	})

	t.Run("缺少bookId", func(t *testing.T) {
		_, err := svc.SubmitReview(ctx, "alice@example.com", 0, 5, "great")
		assert.ErrorIs(t, err, ErrBookIDRequired)
		assert.Equal(t, 400, apperrors.HTTPStatus(apperrors.GetAppError(err).Code))
	})

	t.Run("成功", func(t *testing.T) {
		r, err := svc.SubmitReview(ctx, "alice@example.com", 7, 4, "loved it")
		require.NoError(t, err)
		assert.NotZero(t, r.ID)
		assert.False(t, r.CreatedAt.IsZero())
		assert.Equal(t, "alice", r.AuthorName)
		assert.Equal(t, uint(1), r.UserID)
		assert.Equal(t, 4, r.Rating)
		assert.Equal(t, "loved it", r.ReviewText)
	})

	t.Run("用户名为空时使用邮箱", func(t *testing.T) {
		r, err := svc.SubmitReview(ctx, "bob@example.com", 7, 3, "ok")
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", r.AuthorName)
	})
}

func TestService_ListReviews(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	empty, err := svc.ListReviews(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, empty, "没有书评时应返回空数组而不是null")
	assert.Empty(t, empty)

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.SubmitReview(ctx, "alice@example.com", 42, 5, text)
		require.NoError(t, err)
	}
	_, err = svc.SubmitReview(ctx, "alice@example.com", 43, 5, "other book")
	require.NoError(t, err)

	reviews, err := svc.ListReviews(ctx, 42)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, "third", reviews[0].ReviewText, "最新的书评在前")
	assert.Equal(t, "first", reviews[2].ReviewText)
}
