package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xiebiao/vibeshelf/pkg/cache"
	"github.com/xiebiao/vibeshelf/pkg/logger"
	"github.com/xiebiao/vibeshelf/pkg/tracing"
)

const tracerName = "catalog"

// viewRecordTimeout 异步记录浏览次数的超时时间
const viewRecordTimeout = 2 * time.Second

// Cache 缓存层接口(由pkg/cache.Store实现)
// Get未命中返回Lookup{Cached:false};后端故障由实现方吞掉并按未命中处理
type Cache interface {
	Get(ctx context.Context, region, key string, dest interface{}) (cache.Lookup, error)
	Put(ctx context.Context, region, key string, value interface{}) error
}

// SearchParams 搜索参数
// MinRating在规范表下没有对应列,接受但不生效
type SearchParams struct {
	ListParams
	MinRating *float64
}

// ListResult 分页查询结果
type ListResult struct {
	Page   Page
	Query  Query
	Lookup cache.Lookup
}

// Service 图书目录领域服务接口
// 设计说明:
// 1. 每个操作先查对应的缓存区域,未命中再查仓储并回写缓存
// 2. 缓存命中信息(Lookup)随结果直接返回,不依赖任何请求级共享状态
// 3. 仓储错误包装为Internal错误返回,由Handler转换为各接口自己的错误信息
type Service interface {
	// ListBooks 分页列表(支持genre过滤、排序、游标)
	ListBooks(ctx context.Context, params ListParams) (*ListResult, error)

	// SearchBooks 按标题或作者搜索,关键字为空时等同ListBooks
	SearchBooks(ctx context.Context, params SearchParams) (*ListResult, error)

	// GetBook 图书详情;同时异步记录一次浏览,记录失败只写日志
	GetBook(ctx context.Context, id uint) (*Book, cache.Lookup, error)

	// PopularBooks 热门图书(规范表没有评分列,按ID正序)
	PopularBooks(ctx context.Context, limit int) ([]Book, cache.Lookup, error)

	// RecentBooks 最新图书(规范表没有时间列,按ID倒序)
	RecentBooks(ctx context.Context, limit int) ([]Book, cache.Lookup, error)

	// BooksByGenre 专用类型接口,规范表上不支持,始终返回空页
	BooksByGenre(ctx context.Context, genre string, page, limit int) (*ListResult, error)

	// BulkBooks 按ID批量查询,超过100个返回ErrTooManyIDs,不存在的ID忽略
	BulkBooks(ctx context.Context, ids []uint) ([]Book, cache.Lookup, error)

	// Suggestions 搜索建议(目前始终为空结构)
	Suggestions(ctx context.Context, prefix, kind string, limit int) (*Suggestions, cache.Lookup, error)

	// TotalCount 图书总数
	TotalCount(ctx context.Context) (int64, cache.Lookup, error)
}

// service 领域服务实现
type service struct {
	repo  Repository
	cache Cache
	views ViewRecorder
}

// NewService 创建图书目录领域服务
func NewService(repo Repository, c Cache, views ViewRecorder) Service {
	return &service{repo: repo, cache: c, views: views}
}

// loadThrough 先读缓存,未命中时调用load并回写
func loadThrough[T any](ctx context.Context, c Cache, region, key string, load func(context.Context) (T, error)) (T, cache.Lookup, error) {
	var cached T
	lookup, err := c.Get(ctx, region, key, &cached)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("region", region).Str("key", key).Msg("cache read failed, querying store")
	} else if lookup.Cached {
		return cached, lookup, nil
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, cache.Lookup{}, err
	}

	if err := c.Put(ctx, region, key, value); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("region", region).Str("key", key).Msg("cache write failed")
	}
	return value, cache.Lookup{}, nil
}

// buildQuery 非法排序字段不让请求失败,回退到默认排序
func buildQuery(ctx context.Context, params ListParams) Query {
	q, err := NewQuery(params)
	if errors.Is(err, ErrInvalidSort) {
		logger.FromContext(ctx).Debug().Str("sort", params.Sort).Msg("invalid sort field, using default order")
	}
	return q
}

func (s *service) findPage(q Query) func(context.Context) (Page, error) {
	return func(ctx context.Context) (Page, error) {
		books, total, err := s.repo.Find(ctx, q)
		if err != nil {
			return Page{}, err
		}
		return Page{Books: books, Total: total, Offset: q.Offset, Limit: q.Limit}, nil
	}
}

// ListBooks 分页列表
func (s *service) ListBooks(ctx context.Context, params ListParams) (res *ListResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.ListBooks")
	defer func() { tracing.EndSpan(span, err) }()

	q := buildQuery(ctx, params)
	key := ListCacheKey(q)

	page, lookup, err := loadThrough(ctx, s.cache, RegionPage, key, s.findPage(q))
	if err != nil {
		return nil, err
	}
	return &ListResult{Page: page, Query: q, Lookup: lookup}, nil
}

// SearchBooks 搜索
func (s *service) SearchBooks(ctx context.Context, params SearchParams) (res *ListResult, err error) {
	// 1. 关键字为空退化为列表查询
	if strings.TrimSpace(params.Search) == "" {
		return s.ListBooks(ctx, params.ListParams)
	}

	ctx, span := tracing.StartSpan(ctx, tracerName, "book.SearchBooks")
	defer func() { tracing.EndSpan(span, err) }()

	// 2. MinRating没有对应列,忽略
	q := buildQuery(ctx, params.ListParams)
	key := SearchCacheKey(q)

	page, lookup, err := loadThrough(ctx, s.cache, RegionSearch, key, s.findPage(q))
	if err != nil {
		return nil, err
	}
	return &ListResult{Page: page, Query: q, Lookup: lookup}, nil
}

// GetBook 图书详情
func (s *service) GetBook(ctx context.Context, id uint) (b *Book, lookup cache.Lookup, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.GetBook")
	defer func() { tracing.EndSpan(span, err) }()

	// 不存在时load返回错误,不会写入缓存(不做负缓存)
	b, lookup, err = loadThrough(ctx, s.cache, RegionDetail, BookCacheKey(id), func(ctx context.Context) (*Book, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		return nil, cache.Lookup{}, err
	}

	s.recordView(ctx, id)
	return b, lookup, nil
}

// recordView 异步记录浏览,不阻塞也不影响读请求
func (s *service) recordView(ctx context.Context, id uint) {
	if s.views == nil {
		return
	}
	log := logger.FromContext(ctx)

	go func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, viewRecordTimeout)
		defer cancel()

		if err := s.views.RecordView(ctx, id); err != nil {
			log.Warn().Err(err).Uint("book_id", id).Msg("record book view failed")
		}
	}(context.WithoutCancel(ctx))
}

// PopularBooks 热门图书
func (s *service) PopularBooks(ctx context.Context, limit int) (books []Book, lookup cache.Lookup, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.PopularBooks")
	defer func() { tracing.EndSpan(span, err) }()

	return loadThrough(ctx, s.cache, RegionPopular, PopularCacheKey(limit), func(ctx context.Context) ([]Book, error) {
		return s.repo.FindTop(ctx, limit, false)
	})
}

// RecentBooks 最新图书
func (s *service) RecentBooks(ctx context.Context, limit int) (books []Book, lookup cache.Lookup, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.RecentBooks")
	defer func() { tracing.EndSpan(span, err) }()

	return loadThrough(ctx, s.cache, RegionRecent, RecentCacheKey(limit), func(ctx context.Context) ([]Book, error) {
		return s.repo.FindTop(ctx, limit, true)
	})
}

// BooksByGenre 始终返回空页,类型过滤请使用列表/搜索接口的genre参数
func (s *service) BooksByGenre(ctx context.Context, genre string, page, limit int) (*ListResult, error) {
	q, _ := NewQuery(ListParams{Page: page, Limit: limit})

	empty, lookup, err := loadThrough(ctx, s.cache, RegionGenre, GenreCacheKey(genre, q.Page, q.Limit), func(context.Context) (Page, error) {
		return Page{Books: []Book{}, Total: 0, Offset: q.Offset, Limit: q.Limit}, nil
	})
	if err != nil {
		return nil, err
	}
	return &ListResult{Page: empty, Query: q, Lookup: lookup}, nil
}

// BulkBooks 批量查询
func (s *service) BulkBooks(ctx context.Context, ids []uint) (books []Book, lookup cache.Lookup, err error) {
	// 1. 数量校验在访问缓存和仓储之前
	if len(ids) > MaxBulkIDs {
		return nil, cache.Lookup{}, ErrTooManyIDs
	}
	if len(ids) == 0 {
		return []Book{}, cache.Lookup{}, nil
	}

	ctx, span := tracing.StartSpan(ctx, tracerName, "book.BulkBooks")
	defer func() { tracing.EndSpan(span, err) }()

	return loadThrough(ctx, s.cache, RegionBulk, BulkCacheKey(ids), func(ctx context.Context) ([]Book, error) {
		return s.repo.FindByIDs(ctx, ids)
	})
}

// Suggestions 搜索建议
func (s *service) Suggestions(ctx context.Context, prefix, kind string, limit int) (*Suggestions, cache.Lookup, error) {
	return loadThrough(ctx, s.cache, RegionSuggestions, SuggestionsCacheKey(prefix, kind, limit), func(context.Context) (*Suggestions, error) {
		return &Suggestions{Titles: []string{}, Authors: []string{}}, nil
	})
}

// TotalCount 图书总数
func (s *service) TotalCount(ctx context.Context) (total int64, lookup cache.Lookup, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "book.TotalCount")
	defer func() { tracing.EndSpan(span, err) }()

	return loadThrough(ctx, s.cache, RegionCount, CountCacheKey(), s.repo.Count)
}
