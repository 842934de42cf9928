package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/vibeshelf/internal/domain/book"
	"github.com/xiebiao/vibeshelf/internal/domain/review"
	"github.com/xiebiao/vibeshelf/internal/domain/user"
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取sql.DB失败: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func seedBooks(t *testing.T, db *gorm.DB) {
	t.Helper()

	books := []BookModel{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction, Classics"},
		{ID: 2, Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy"},
		{ID: 3, Title: "It", Author: "Stephen King", Genre: "Horror/Thriller"},
		{ID: 4, Title: "Gone Girl", Author: "Gillian Flynn", Genre: "Thriller; Mystery"},
		{ID: 5, Title: "100% Pure", Author: "Anon", Genre: "Nonfiction"},
		{ID: 6, Title: "Snake_Case Guide", Author: "Dev Author", Genre: "Technology"},
		{ID: 7, Title: "Foundation", Author: "Isaac Asimov", Genre: "ScienceFiction"},
	}
	require.NoError(t, db.Create(&books).Error)
}

func mustQuery(t *testing.T, p book.ListParams) book.Query {
	t.Helper()
	q, err := book.NewQuery(p)
	require.NoError(t, err)
	return q
}

func bookIDs(books []book.Book) []uint {
	ids := make([]uint, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}

func TestBookRepository_Find(t *testing.T) {
	db := setupTestDB(t)
	seedBooks(t, db)
	repo := NewBookRepository(db, QueryTimeout(time.Second))
	ctx := context.Background()

	tests := []struct {
		name      string
		params    book.ListParams
		wantIDs   []uint
		wantTotal int64
	}{
		{
			name:      "无过滤默认id升序",
			params:    book.ListParams{Page: 1, Limit: 3},
			wantIDs:   []uint{1, 2, 3},
			wantTotal: 7,
		},
		{
			name:      "第二页",
			params:    book.ListParams{Page: 2, Limit: 3},
			wantIDs:   []uint{4, 5, 6},
			wantTotal: 7,
		},
		{
			name:      "超出范围返回空",
			params:    book.ListParams{Page: 5, Limit: 3},
			wantIDs:   []uint{},
			wantTotal: 7,
		},
		{
			name:      "关键字匹配作者(不区分大小写)",
			params:    book.ListParams{Search: "KING"},
			wantIDs:   []uint{3},
			wantTotal: 1,
		},
		{
			name:      "单个类型子串匹配",
			params:    book.ListParams{Genre: "thriller"},
			wantIDs:   []uint{3, 4},
			wantTotal: 2,
		},
		{
			name:      "多个类型OR匹配",
			params:    book.ListParams{Genre: "fantasy,horror"},
			wantIDs:   []uint{2, 3},
			wantTotal: 2,
		},
		{
			name:      "多个类型时标签去掉内部空白",
			params:    book.ListParams{Genre: "science fiction|fantasy"},
			wantIDs:   []uint{2, 7},
			wantTotal: 2,
		},
		{
			name:      "关键字与类型同时存在为AND",
			params:    book.ListParams{Search: "gone", Genre: "thriller"},
			wantIDs:   []uint{4},
			wantTotal: 1,
		},
		{
			name:      "百分号按字面匹配",
			params:    book.ListParams{Search: "100%"},
			wantIDs:   []uint{5},
			wantTotal: 1,
		},
		{
			name:      "下划线按字面匹配",
			params:    book.ListParams{Search: "e_c"},
			wantIDs:   []uint{6},
			wantTotal: 1,
		},
		{
			name:      "按标题倒序",
			params:    book.ListParams{Sort: "title", Order: "desc", Limit: 2},
			wantIDs:   []uint{2, 6},
			wantTotal: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, total, err := repo.Find(ctx, mustQuery(t, tt.params))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantIDs, bookIDs(books))
		})
	}
}

func TestBookRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	seedBooks(t, db)
	repo := NewBookRepository(db, 0)
	ctx := context.Background()

	b, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", b.Title)
	assert.Equal(t, "Fantasy", b.Genre)

	_, err = repo.FindByID(ctx, 999)
	if !errors.Is(err, book.ErrBookNotFound) {
		t.Errorf("不存在的图书应返回ErrBookNotFound, 实际为 %v", err)
	}
}

func TestBookRepository_FindByIDs(t *testing.T) {
	db := setupTestDB(t)
	seedBooks(t, db)
	repo := NewBookRepository(db, 0)
	ctx := context.Background()

	t.Run("按请求顺序返回并忽略不存在的ID", func(t *testing.T) {
		books, err := repo.FindByIDs(ctx, []uint{4, 999, 1, 4, 2})
		require.NoError(t, err)
		assert.Equal(t, []uint{4, 1, 2}, bookIDs(books))
	})

	t.Run("空列表", func(t *testing.T) {
		books, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})
}

func TestBookRepository_FindTopAndCount(t *testing.T) {
	db := setupTestDB(t)
	seedBooks(t, db)
	repo := NewBookRepository(db, 0)
	ctx := context.Background()

	asc, err := repo.FindTop(ctx, 3, false)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, bookIDs(asc))

	desc, err := repo.FindTop(ctx, 2, true)
	require.NoError(t, err)
	assert.Equal(t, []uint{7, 6}, bookIDs(desc))

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, QueryTimeout(time.Second))
	ctx := context.Background()

	u := user.NewUser("alice", "alice@example.com", "hashed", "123456")
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID, "创建后应回填ID")

	t.Run("邮箱重复", func(t *testing.T) {
		dup := user.NewUser("alice2", "alice@example.com", "hashed", "654321")
		err := repo.Create(ctx, dup)
		if !errors.Is(err, apperrors.ErrEmailDuplicate) {
			t.Errorf("重复邮箱应返回ErrEmailDuplicate, 实际为 %v", err)
		}
	})

	t.Run("验证后OTP写为NULL", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.True(t, found.MatchOTP("123456"))

		found.MarkVerified()
		require.NoError(t, repo.Update(ctx, found))

		reloaded, err := repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.Verified)
		assert.Nil(t, reloaded.OTP)
		t.Logf("✓ OTP已清除")
	})

	t.Run("用户不存在", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("解析书评作者", func(t *testing.T) {
		resolver := repo.(review.AuthorResolver)
		author, err := resolver.ResolveAuthor(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, author.ID)
		assert.Equal(t, "alice", author.Username)
	})
}

func TestReviewRepository_ListByBook(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db, 0)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	models := []ReviewModel{
		{BookID: 1, UserID: 1, AuthorName: "a", Rating: 3, CreatedAt: base},
		{BookID: 1, UserID: 2, AuthorName: "b", Rating: 5, CreatedAt: base.Add(time.Hour)},
		{BookID: 2, UserID: 1, AuthorName: "a", Rating: 1, CreatedAt: base.Add(2 * time.Hour)},
	}
	require.NoError(t, db.Create(&models).Error)

	rv := &review.Review{BookID: 1, UserID: 3, AuthorName: "c", Rating: 4, ReviewText: "great"}
	require.NoError(t, repo.Create(ctx, rv))
	require.NotZero(t, rv.ID)

	reviews, err := repo.ListByBook(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, "c", reviews[0].AuthorName, "最新的书评排在最前")
	assert.Equal(t, "b", reviews[1].AuthorName)
	assert.Equal(t, "a", reviews[2].AuthorName)

	empty, err := repo.ListByBook(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTxManager_Rollback(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db, 0)
	tx := NewTxManager(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.Transaction(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, user.NewUser("bob", "bob@example.com", "hashed", "111111")); err != nil {
			return err
		}
		// 嵌套调用复用外层事务
		return tx.Transaction(ctx, func(ctx context.Context) error {
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.FindByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound, "事务回滚后用户不应存在")

	err = tx.Transaction(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, user.NewUser("carol", "carol@example.com", "hashed", "222222"))
	})
	require.NoError(t, err)
	_, err = repo.FindByEmail(ctx, "carol@example.com")
	assert.NoError(t, err)
}
