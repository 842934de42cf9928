package book

import (
	"regexp"
	"strings"
)

const (
	DefaultLimit = 24
	MaxLimit     = 100
)

// 排序字段白名单
var sortFields = map[string]struct{}{
	"id":     {},
	"title":  {},
	"author": {},
	"genre":  {},
}

// GenreMatch 类型过滤方式
type GenreMatch int

const (
	GenreMatchNone  GenreMatch = iota // 不过滤
	GenreMatchOne                     // 单个标签:子串包含
	GenreMatchAnyOf                   // 多个标签:包含任意一个
)

// ListParams 列表/搜索请求参数(来自HTTP层,未校验)
type ListParams struct {
	Page   int    // 页码(从1开始)
	Limit  int    // 每页数量
	Cursor string // 下一页游标(偏移量),有效时优先于Page
	Genre  string // 原始genre参数
	Search string // 标题或作者关键字
	Sort   string // 排序字段
	Order  string // asc | desc
}

// Query 经过规整的仓储查询
type Query struct {
	Page        int
	Limit       int
	Offset      int64
	Search      string
	GenreMatch  GenreMatch
	GenreTokens []string
	SortField   string
	SortDesc    bool
}

// NewQuery 把请求参数转换为有界的分页查询
// 规则:
// 1. page<1按1处理,limit限制在[1,100](0表示默认值24)
// 2. offset = (page-1)*limit;游标有效时offset取游标值
// 3. genre按分隔符拆成标签,0个忽略,1个子串匹配,多个OR匹配
// 4. 排序字段不在白名单内返回ErrInvalidSort,此时Query仍使用默认排序(id asc)
func NewQuery(p ListParams) (Query, error) {
	q := Query{
		Page:   p.Page,
		Limit:  p.Limit,
		Search: strings.TrimSpace(p.Search),
	}

	// 1. 分页参数
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Limit == 0:
		q.Limit = DefaultLimit
	case q.Limit < 1:
		q.Limit = 1
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	q.Offset = int64(q.Page-1) * int64(q.Limit)
	if offset, ok := ParseCursor(p.Cursor); ok {
		q.Offset = offset
		q.Page = int(offset/int64(q.Limit)) + 1
	}

	// 2. 类型过滤
	tokens := ParseGenreTokens(p.Genre)
	switch len(tokens) {
	case 0:
		q.GenreMatch = GenreMatchNone
	case 1:
		q.GenreMatch = GenreMatchOne
		q.GenreTokens = tokens
	default:
		q.GenreMatch = GenreMatchAnyOf
		q.GenreTokens = compactTokens(tokens)
	}

	// 3. 排序
	q.SortField = "id"
	q.SortDesc = strings.EqualFold(strings.TrimSpace(p.Order), "desc")
	sort := strings.ToLower(strings.TrimSpace(p.Sort))
	if sort != "" {
		if _, ok := sortFields[sort]; !ok {
			q.SortDesc = false
			return q, ErrInvalidSort
		}
		q.SortField = sort
	}

	return q, nil
}

var genreSeparators = regexp.MustCompile(`\s*[,/\\;|]\s*`)

// ParseGenreTokens 拆分genre参数
// 1. 以[开头且以]结尾(JSON数组,如["Thriller","Mystery"]):去掉方括号后按逗号拆分
// 2. 其它情况按 , / \ ; | 拆分
// 3. 每个标签去掉两端引号和空白并转小写,空标签丢弃
func ParseGenreTokens(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	var parts []string
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		parts = strings.Split(s[1:len(s)-1], ",")
	} else {
		parts = genreSeparators.Split(s, -1)
	}

	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		t := strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(part), `"`)))
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// compactTokens 多标签匹配时去掉标签内部空白("science fiction" → "sciencefiction")
func compactTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if c := strings.Join(strings.Fields(t), ""); c != "" {
			out = append(out, c)
		}
	}
	return out
}
