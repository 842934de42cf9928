package dto

import (
	appbook "github.com/xiebiao/vibeshelf/internal/application/book"
)

// =========================================
// v1 查询参数
// =========================================

// ListBooksQuery GET /api/books
// 页码从1开始;limit超出[1,100]时由领域层收敛
type ListBooksQuery struct {
	Page  int    `form:"page,default=1" example:"1"`
	Limit int    `form:"limit,default=24" example:"24"`
	Genre string `form:"genre" example:"Fantasy"`
}

// SearchBooksQuery GET /api/books/search
type SearchBooksQuery struct {
	Q     string `form:"q" example:"dune"`
	Page  int    `form:"page,default=1" example:"1"`
	Limit int    `form:"limit,default=48" example:"48"`
	Genre string `form:"genre" example:"Science Fiction"`
}

// BookDetailResponse GET /api/books/{id}
type BookDetailResponse struct {
	Book appbook.BookDetail `json:"book"`
}

// CountResponse GET /api/books/count
type CountResponse struct {
	TotalBooks int64 `json:"totalBooks" example:"52000"`
}

// =========================================
// v2 查询参数
// =========================================

// V2ListQuery GET /api/v2/books
// 页码从0开始;cursor有效时优先于page
type V2ListQuery struct {
	Page      int      `form:"page,default=0" example:"0"`
	Limit     int      `form:"limit,default=24" example:"24"`
	Cursor    string   `form:"cursor" example:"24"`
	Fields    string   `form:"fields,default=essential" example:"essential" enums:"essential,detailed,complete"`
	Sort      string   `form:"sort,default=id" example:"title"`
	Order     string   `form:"order,default=asc" example:"asc" enums:"asc,desc"`
	Genre     string   `form:"genre" example:"Fantasy"`
	MinRating *float64 `form:"minRating"`
	MinYear   *int     `form:"minYear"`
	MaxYear   *int     `form:"maxYear"`
}

// V2SearchQuery GET /api/v2/books/search
type V2SearchQuery struct {
	Q         string   `form:"q" example:"tolkien"`
	Page      int      `form:"page,default=0" example:"0"`
	Limit     int      `form:"limit,default=20" example:"20"`
	Genre     string   `form:"genre"`
	MinRating *float64 `form:"minRating"`
}

// V2PageQuery GET /api/v2/books/genre/{genre}
type V2PageQuery struct {
	Page  int `form:"page,default=0" example:"0"`
	Limit int `form:"limit,default=24" example:"24"`
}

// LimitQuery 热门/最新
type LimitQuery struct {
	Limit int `form:"limit,default=20" example:"20"`
}

// SuggestionsQuery GET /api/v2/books/suggestions
type SuggestionsQuery struct {
	Q     string `form:"q" example:"du"`
	Type  string `form:"type,default=title" example:"title" enums:"title,author"`
	Limit int    `form:"limit,default=10" example:"10"`
}

// BulkBooksRequest POST /api/v2/books/bulk
type BulkBooksRequest struct {
	BookIDs []uint `json:"bookIds" binding:"required" example:"1,2,3"`
}

// GenrePageQuery GET /api/genres/{genre}
type GenrePageQuery struct {
	Page  int `form:"page,default=1" example:"1"`
	Limit int `form:"limit,default=24" example:"24"`
}
