package book

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/vibeshelf/pkg/cache"
)

// fakeRepo 内存仓储,记录调用次数
type fakeRepo struct {
	mu    sync.Mutex
	books []Book
	calls map[string]int
	err   error
}

func newFakeRepo(books ...Book) *fakeRepo {
	return &fakeRepo{books: books, calls: map[string]int{}}
}

func (r *fakeRepo) hit(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[op]++
}

func (r *fakeRepo) count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *fakeRepo) Find(_ context.Context, q Query) ([]Book, int64, error) {
	r.hit("find")
	if r.err != nil {
		return nil, 0, r.err
	}
	total := int64(len(r.books))
	if q.Offset >= total {
		return []Book{}, total, nil
	}
	end := q.Offset + int64(q.Limit)
	if end > total {
		end = total
	}
	return r.books[q.Offset:end], total, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*Book, error) {
	r.hit("findByID")
	for _, b := range r.books {
		if b.ID == id {
			b := b
			return &b, nil
		}
	}
	return nil, ErrBookNotFound
}

func (r *fakeRepo) FindByIDs(_ context.Context, ids []uint) ([]Book, error) {
	r.hit("findByIDs")
	out := []Book{}
	for _, id := range ids {
		for _, b := range r.books {
			if b.ID == id {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) FindTop(_ context.Context, limit int, desc bool) ([]Book, error) {
	r.hit("findTop")
	out := make([]Book, 0, limit)
	for i := range r.books {
		idx := i
		if desc {
			idx = len(r.books) - 1 - i
		}
		if len(out) == limit {
			break
		}
		out = append(out, r.books[idx])
	}
	return out, nil
}

func (r *fakeRepo) Count(context.Context) (int64, error) {
	r.hit("count")
	return int64(len(r.books)), r.err
}

type viewRecorder struct {
	ch chan uint
}

func (v *viewRecorder) RecordView(_ context.Context, id uint) error {
	v.ch <- id
	return errors.New("no view column")
}

func sampleBooks(n int) []Book {
	books := make([]Book, n)
	for i := range books {
		books[i] = Book{ID: uint(i + 1), Title: "Book", Author: "Author", Genre: "Fantasy"}
	}
	return books
}

func newTestService(t *testing.T, repo Repository, views ViewRecorder) Service {
	t.Helper()
	local := cache.NewLocalBackend(100)
	t.Cleanup(local.Close)
	return NewService(repo, cache.NewStoreWithBackend(local, cache.Options{}), views)
}

func TestService_ListBooksUsesCache(t *testing.T) {
	repo := newFakeRepo(sampleBooks(30)...)
	svc := newTestService(t, repo, nil)
	ctx := context.Background()

	first, err := svc.ListBooks(ctx, ListParams{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.False(t, first.Lookup.Cached, "第一次查询应来自数据库")
	assert.Len(t, first.Page.Books, 10)
	assert.Equal(t, uint(11), first.Page.Books[0].ID)
	assert.Equal(t, int64(30), first.Page.Total)

	second, err := svc.ListBooks(ctx, ListParams{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.True(t, second.Lookup.Cached, "相同查询应命中缓存")
	assert.Equal(t, first.Page, second.Page)
	assert.Equal(t, 1, repo.count("find"), "命中缓存时不应访问仓储")
}

func TestService_SearchEmptyFallsBackToList(t *testing.T) {
	repo := newFakeRepo(sampleBooks(5)...)
	svc := newTestService(t, repo, nil)
	ctx := context.Background()

	_, err := svc.ListBooks(ctx, ListParams{})
	require.NoError(t, err)

	res, err := svc.SearchBooks(ctx, SearchParams{ListParams: ListParams{Search: "  "}})
	require.NoError(t, err)
	assert.True(t, res.Lookup.Cached, "空关键字应与列表共用缓存")
}

func TestService_RepositoryErrorNotCached(t *testing.T) {
	repo := newFakeRepo(sampleBooks(5)...)
	repo.err = errors.New("db down")
	svc := newTestService(t, repo, nil)
	ctx := context.Background()

	_, err := svc.ListBooks(ctx, ListParams{})
	require.Error(t, err)

	repo.err = nil
	res, err := svc.ListBooks(ctx, ListParams{})
	require.NoError(t, err)
	assert.False(t, res.Lookup.Cached, "失败的查询不应被缓存")
}

func TestService_GetBook(t *testing.T) {
	repo := newFakeRepo(sampleBooks(3)...)
	views := &viewRecorder{ch: make(chan uint, 4)}
	svc := newTestService(t, repo, views)
	ctx := context.Background()

	t.Run("存在", func(t *testing.T) {
		b, lookup, err := svc.GetBook(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, uint(2), b.ID)
		assert.False(t, lookup.Cached)

		select {
		case id := <-views.ch:
			assert.Equal(t, uint(2), id)
		case <-time.After(time.Second):
			t.Errorf("应异步记录浏览")
		}

		_, lookup, err = svc.GetBook(ctx, 2)
		require.NoError(t, err)
		assert.True(t, lookup.Cached)
		<-views.ch
	})

	t.Run("不存在且不做负缓存", func(t *testing.T) {
		_, _, err := svc.GetBook(ctx, 99)
		assert.ErrorIs(t, err, ErrBookNotFound)
		_, _, err = svc.GetBook(ctx, 99)
		assert.ErrorIs(t, err, ErrBookNotFound)
		assert.Equal(t, 3, repo.count("findByID"), "不存在的图书每次都应查询仓储")
	})
}

func TestService_PopularAndRecent(t *testing.T) {
	repo := newFakeRepo(sampleBooks(10)...)
	svc := newTestService(t, repo, nil)
	ctx := context.Background()

	popular, _, err := svc.PopularBooks(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids(popular), "热门按ID正序")

	recent, _, err := svc.RecentBooks(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint{10, 9, 8}, ids(recent), "最新按ID倒序")

	_, lookup, err := svc.RecentBooks(ctx, 3)
	require.NoError(t, err)
	assert.True(t, lookup.Cached)
}

func TestService_BulkBooks(t *testing.T) {
	repo := newFakeRepo(sampleBooks(5)...)
	svc := newTestService(t, repo, nil)
	ctx := context.Background()

	t.Run("超过上限", func(t *testing.T) {
		tooMany := make([]uint, MaxBulkIDs+1)
		_, _, err := svc.BulkBooks(ctx, tooMany)
		assert.ErrorIs(t, err, ErrTooManyIDs)
		assert.Equal(t, 0, repo.count("findByIDs"), "超限时不应访问仓储")
	})

	t.Run("忽略不存在的ID", func(t *testing.T) {
		books, _, err := svc.BulkBooks(ctx, []uint{4, 77, 1})
		require.NoError(t, err)
		assert.Equal(t, []uint{4, 1}, ids(books))
	})

	t.Run("空列表", func(t *testing.T) {
		books, _, err := svc.BulkBooks(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})
}

func TestService_BooksByGenreAlwaysEmpty(t *testing.T) {
	repo := newFakeRepo(sampleBooks(5)...)
	svc := newTestService(t, repo, nil)

	res, err := svc.BooksByGenre(context.Background(), "Fantasy", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, res.Page.Books)
	assert.Equal(t, int64(0), res.Page.Total)
	assert.Equal(t, 0, repo.count("find"))
}

func TestService_SuggestionsAndCount(t *testing.T) {
	repo := newFakeRepo(sampleBooks(7)...)
	svc := newTestService(t, repo, nil)
	ctx := context.Background()

	s, _, err := svc.Suggestions(ctx, "Du", "title", 10)
	require.NoError(t, err)
	assert.NotNil(t, s.Titles)
	assert.NotNil(t, s.Authors)

	total, _, err := svc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)

	total, lookup, err := svc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.True(t, lookup.Cached)
	assert.Equal(t, 1, repo.count("count"))
}

func ids(books []Book) []uint {
	out := make([]uint, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}
