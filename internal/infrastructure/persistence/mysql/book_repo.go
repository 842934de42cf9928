package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/vibeshelf/internal/domain/book"
	apperrors "github.com/xiebiao/vibeshelf/pkg/errors"
	"github.com/xiebiao/vibeshelf/pkg/metrics"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口,只读
// 2. 负责GORM模型到领域实体的转换
// 3. 文本匹配统一用LOWER(col) LIKE ? ESCAPE '!',MySQL/PostgreSQL/SQLite共用同一条SQL
// 4. 每次查询都有独立超时(database.query_timeout)
type bookRepository struct {
	db      *gorm.DB
	timeout QueryTimeout
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB, timeout QueryTimeout) book.Repository {
	return &bookRepository{db: db, timeout: timeout}
}

// Find 按Query分页查询
// 学习要点:
// 1. 过滤条件先用于COUNT,再加上排序和分页查数据
// 2. 排序字段已经过白名单校验,非id排序时追加id保证翻页稳定
func (r *bookRepository) Find(ctx context.Context, q book.Query) ([]book.Book, int64, error) {
	ctx, cancel := r.timeout.withTimeout(ctx)
	defer cancel()

	// 1. 过滤条件
	query := applyFilters(getDB(ctx, r.db).Model(&BookModel{}), q)

	// 2. 查询总数
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}
	if total == 0 || q.Offset >= total {
		return []book.Book{}, total, nil
	}

	// 3. 排序
	query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: q.SortField}, Desc: q.SortDesc})
	if q.SortField != "id" {
		query = query.Order("id")
	}

	// 4. 分页
	var models []BookModel
	if err := query.Limit(q.Limit).Offset(int(q.Offset)).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	return toBookEntities(models), total, nil
}

// applyFilters 关键字与类型过滤(两者同时存在时为AND)
func applyFilters(db *gorm.DB, q book.Query) *gorm.DB {
	if q.Search != "" {
		pattern := containsPattern(q.Search)
		db = db.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(author) LIKE ? ESCAPE '!')", pattern, pattern)
	}

	switch q.GenreMatch {
	case book.GenreMatchOne:
		db = db.Where("LOWER(genre) LIKE ? ESCAPE '!'", containsPattern(q.GenreTokens[0]))
	case book.GenreMatchAnyOf:
		// 分组条件: (g1 OR g2 OR ...)
		or := db.Session(&gorm.Session{NewDB: true})
		for i, token := range q.GenreTokens {
			if i == 0 {
				or = or.Where("LOWER(genre) LIKE ? ESCAPE '!'", containsPattern(token))
				continue
			}
			or = or.Or("LOWER(genre) LIKE ? ESCAPE '!'", containsPattern(token))
		}
		db = db.Where(or)
	}
	return db
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	ctx, cancel := r.timeout.withTimeout(ctx)
	defer cancel()

	var model BookModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	b := toBookEntity(&model)
	return &b, nil
}

// FindByIDs 批量查找,结果按请求ID的顺序排列,不存在的ID忽略
func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) ([]book.Book, error) {
	if len(ids) == 0 {
		return []book.Book{}, nil
	}

	ctx, cancel := r.timeout.withTimeout(ctx)
	defer cancel()

	var models []BookModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "批量查询图书失败")
	}

	byID := make(map[uint]BookModel, len(models))
	for _, m := range models {
		byID[m.ID] = m
	}

	books := make([]book.Book, 0, len(models))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		books = append(books, toBookEntity(&m))
	}
	return books, nil
}

// FindTop 按ID排序取前limit本
func (r *bookRepository) FindTop(ctx context.Context, limit int, desc bool) ([]book.Book, error) {
	ctx, cancel := r.timeout.withTimeout(ctx)
	defer cancel()

	var models []BookModel
	err := getDB(ctx, r.db).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntities(models), nil
}

// Count 图书总数
func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.timeout.withTimeout(ctx)
	defer cancel()

	var total int64
	if err := getDB(ctx, r.db).Model(&BookModel{}).Count(&total).Error; err != nil {
		return 0, apperrors.Wrap(err, "查询图书总数失败")
	}
	return total, nil
}

// viewRecorder 浏览记录
// 规范表没有view_count列,只计入指标
type viewRecorder struct{}

// NewViewRecorder 创建浏览记录器
func NewViewRecorder() book.ViewRecorder {
	return viewRecorder{}
}

func (viewRecorder) RecordView(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	metrics.InitMetrics()
	metrics.IncCounter(metrics.BookViewsTotal)
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) book.Book {
	return book.Book{
		ID:          model.ID,
		Title:       model.Title,
		Author:      model.Author,
		Description: model.Description,
		ImageURL:    model.Image,
		Genre:       model.Genre,
	}
}

func toBookEntities(models []BookModel) []book.Book {
	books := make([]book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
