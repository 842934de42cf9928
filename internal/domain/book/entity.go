package book

// Book 图书实体
// 设计说明:
// 1. 对应规范表books_canonical(id, title, author, description, image, genre)
// 2. API层只读,数据由离线导入流程写入
// 3. Genre是自由文本,可能包含多个以逗号/斜杠/分号/竖线分隔的标签
type Book struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	ImageURL    string `json:"image"`
	Genre       string `json:"genre"`
}

// Fields 投影类型(响应体大小由小到大)
type Fields string

const (
	FieldsEssential Fields = "essential"
	FieldsDetailed  Fields = "detailed"
	FieldsComplete  Fields = "complete"
)

// ParseFields 解析fields参数,无法识别时使用essential
func ParseFields(s string) Fields {
	switch Fields(s) {
	case FieldsDetailed, FieldsComplete:
		return Fields(s)
	default:
		return FieldsEssential
	}
}

// Essential 列表页使用的精简投影
type Essential struct {
	ID       uint     `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	ImageURL string   `json:"imageUrl"`
	Rating   *float64 `json:"rating"`
}

// Detailed 详情投影
// PublicationYear/Rating/RatingsCount/ViewCount在规范表中没有对应列,
// 始终为null;保留字段是为了不破坏已有客户端的响应结构,填充它们需要先迁移表结构
type Detailed struct {
	ID              uint     `json:"id"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Description     string   `json:"description"`
	ImageURL        string   `json:"imageUrl"`
	Genre           string   `json:"genre"`
	PublicationYear *int     `json:"publicationYear"`
	Rating          *float64 `json:"rating"`
	RatingsCount    *int     `json:"ratingsCount"`
	ViewCount       *int64   `json:"viewCount"`
}

// Essential 转换为精简投影
func (b Book) Essential() Essential {
	return Essential{
		ID:       b.ID,
		Title:    b.Title,
		Author:   b.Author,
		ImageURL: b.ImageURL,
	}
}

// Detailed 转换为详情投影
func (b Book) Detailed() Detailed {
	return Detailed{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		ImageURL:    b.ImageURL,
		Genre:       b.Genre,
	}
}

// Project 按投影类型转换一组图书
// 返回值用于JSON序列化:[]Essential | []Detailed | []Book
func Project(books []Book, fields Fields) interface{} {
	switch fields {
	case FieldsDetailed:
		out := make([]Detailed, 0, len(books))
		for _, b := range books {
			out = append(out, b.Detailed())
		}
		return out
	case FieldsComplete:
		out := make([]Book, len(books))
		copy(out, books)
		return out
	default:
		out := make([]Essential, 0, len(books))
		for _, b := range books {
			out = append(out, b.Essential())
		}
		return out
	}
}

// DetailedList 转换为详情投影列表
func DetailedList(books []Book) []Detailed {
	return Project(books, FieldsDetailed).([]Detailed)
}

// Page 一页查询结果
type Page struct {
	Books  []Book `json:"books"`
	Total  int64  `json:"total"`
	Offset int64  `json:"offset"`
	Limit  int    `json:"limit"`
}

// Suggestions 搜索建议(目前没有数据来源,始终为空结构)
type Suggestions struct {
	Titles  []string `json:"titles"`
	Authors []string `json:"authors"`
}
