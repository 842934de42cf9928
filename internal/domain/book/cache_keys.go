package book

import (
	"strconv"
	"strings"
)

// 缓存区域,每个区域有独立的TTL(见配置cache.regions)
const (
	RegionPage        = "books:page"
	RegionSearch      = "books:search"
	RegionPopular     = "books:popular"
	RegionRecent      = "books:recent"
	RegionCount       = "books:count"
	RegionGenre       = "books:genre"
	RegionSuggestions = "books:suggestions"
	RegionDetail      = "books:detail"
	RegionBulk        = "books:bulk"
)

// 每个操作一个类型化的key构造函数:op:arg1:arg2:...
// 缺省参数保留为空段,参数顺序固定,避免不同类型拼接后碰撞

func joinKey(op string, args ...string) string {
	return op + ":" + strings.Join(args, ":")
}

func itoa(n int) string { return strconv.Itoa(n) }

// ListCacheKey 列表查询
func ListCacheKey(q Query) string {
	return joinKey("list",
		strconv.FormatInt(q.Offset, 10), itoa(q.Limit),
		strings.Join(q.GenreTokens, "|"), q.SortField, orderString(q.SortDesc))
}

// SearchCacheKey 搜索查询
func SearchCacheKey(q Query) string {
	return joinKey("search",
		strings.ToLower(q.Search), strconv.FormatInt(q.Offset, 10), itoa(q.Limit),
		strings.Join(q.GenreTokens, "|"), q.SortField, orderString(q.SortDesc))
}

// BookCacheKey 单本详情
func BookCacheKey(id uint) string {
	return joinKey("book", strconv.FormatUint(uint64(id), 10))
}

// PopularCacheKey 热门图书
func PopularCacheKey(limit int) string {
	return joinKey("popular", itoa(limit))
}

// RecentCacheKey 最新图书
func RecentCacheKey(limit int) string {
	return joinKey("recent", itoa(limit))
}

// GenreCacheKey 按类型查询
func GenreCacheKey(genre string, page, limit int) string {
	return joinKey("genre", strings.ToLower(strings.TrimSpace(genre)), itoa(page), itoa(limit))
}

// BulkCacheKey 批量查询(ID按请求顺序拼接)
func BulkCacheKey(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return joinKey("bulk", strings.Join(parts, ","))
}

// SuggestionsCacheKey 搜索建议
func SuggestionsCacheKey(prefix, kind string, limit int) string {
	return joinKey("suggestions", strings.ToLower(prefix), kind, itoa(limit))
}

// CountCacheKey 总数
func CountCacheKey() string {
	return joinKey("count")
}

func orderString(desc bool) string {
	if desc {
		return "desc"
	}
	return "asc"
}
