package dto

// SubmitReviewRequest 提交书评
// bookId缺失时为0,由领域服务返回"bookId is required"
type SubmitReviewRequest struct {
	BookID     uint   `json:"bookId" example:"42"`
	Rating     int    `json:"rating" example:"5"`
	ReviewText string `json:"reviewText" example:"Loved it"`
}
