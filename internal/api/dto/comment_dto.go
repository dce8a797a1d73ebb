package dto

// CommentDTO 评论
type CommentDTO struct {
	ID         uint64 `json:"id"`
	BoardID    uint64 `json:"board_id"`
	Content    string `json:"content"`
	Registrant string `json:"registrant"`
	CreatedAt  string `json:"created_at"`
}

// CommentBaseDTO 评论 - 新增
type CommentBaseDTO struct {
	Content string `json:"content" binding:"required" validate:"min=1,max=1000"`
}
