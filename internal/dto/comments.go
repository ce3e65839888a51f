package dto

type CreateCommentRequest struct {
	PostID  int64  `json:"post_id" binding:"required"`
	Content string `json:"content" binding:"required,min=1,max=2000"`
}
