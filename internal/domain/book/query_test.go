package book

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuery_Pagination(t *testing.T) {
	tests := []struct {
		name       string
		params     ListParams
		wantPage   int
		wantLimit  int
		wantOffset int64
	}{
		{"默认值", ListParams{}, 1, 24, 0},
		{"第3页", ListParams{Page: 3, Limit: 10}, 3, 10, 20},
		{"页码小于1", ListParams{Page: -2, Limit: 10}, 1, 10, 0},
		{"limit超过上限", ListParams{Page: 1, Limit: 500}, 1, 100, 0},
		{"limit为负", ListParams{Page: 1, Limit: -5}, 1, 1, 0},
		{"游标优先于页码", ListParams{Page: 9, Limit: 24, Cursor: "48"}, 3, 24, 48},
		{"非法游标忽略", ListParams{Page: 2, Limit: 24, Cursor: "abc"}, 2, 24, 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuery(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, q.Page, "页码")
			assert.Equal(t, tt.wantLimit, q.Limit, "每页数量")
			assert.Equal(t, tt.wantOffset, q.Offset, "偏移量")
		})
	}
}

func TestNewQuery_Genre(t *testing.T) {
	t.Run("单个标签子串匹配", func(t *testing.T) {
		q, _ := NewQuery(ListParams{Genre: " Fantasy "})
		assert.Equal(t, GenreMatchOne, q.GenreMatch)
		assert.Equal(t, []string{"fantasy"}, q.GenreTokens)
	})

	t.Run("多个标签OR匹配并去掉内部空白", func(t *testing.T) {
		q, _ := NewQuery(ListParams{Genre: "Science Fiction, Mystery"})
		assert.Equal(t, GenreMatchAnyOf, q.GenreMatch)
		assert.Equal(t, []string{"sciencefiction", "mystery"}, q.GenreTokens)
	})

	t.Run("空genre不过滤", func(t *testing.T) {
		q, _ := NewQuery(ListParams{Genre: " , "})
		if q.GenreMatch != GenreMatchNone {
			t.Errorf("只有分隔符的genre不应过滤, 实际为 %v", q.GenreMatch)
		}
	})
}

func TestNewQuery_Sort(t *testing.T) {
	q, err := NewQuery(ListParams{Sort: "Title", Order: "DESC"})
	require.NoError(t, err)
	assert.Equal(t, "title", q.SortField)
	assert.True(t, q.SortDesc)

	q, err = NewQuery(ListParams{Sort: "price; DROP TABLE books", Order: "desc"})
	if !errors.Is(err, ErrInvalidSort) {
		t.Errorf("白名单外的排序字段应返回ErrInvalidSort, 实际为 %v", err)
	}
	assert.Equal(t, "id", q.SortField, "非法排序字段应回退到id")
	assert.False(t, q.SortDesc)
}

func TestParseGenreTokens(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"Thriller", []string{"thriller"}},
		{"Thriller/Mystery", []string{"thriller", "mystery"}},
		{`Horror \ Gothic`, []string{"horror", "gothic"}},
		{"a;b|c", []string{"a", "b", "c"}},
		{`["Thriller","Mystery"]`, []string{"thriller", "mystery"}},
		{`"Romance", "Drama"`, []string{"romance", "drama"}},
		{"Fantasy,,", []string{"fantasy"}},
		{`Horror/"Gothic"`, []string{"horror", "gothic"}},
		{`Mystery; "Cozy" | Crime`, []string{"mystery", "cozy", "crime"}},
		{`[ "Science Fiction" ]`, []string{"science fiction"}},
		{`["Sci/Fi","Horror"]`, []string{"sci/fi", "horror"}},
		{"[", []string{"["}},
		{"[]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseGenreTokens(tt.raw)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
