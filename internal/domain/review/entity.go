package review

import "time"

// Review 书评实体
// 1. BookID不校验是否存在于图书表
// 2. AuthorName是提交时的用户名快照，之后改名不影响已有书评
// 3. 创建后不可修改、删除
type Review struct {
	ID         uint
	BookID     uint
	UserID     uint
	AuthorName string
	Rating     int
	ReviewText string
	CreatedAt  time.Time
}
