package dto

// BoardDTO 帖子（含派生阅读量）
type BoardDTO struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Registrant string `json:"registrant"`
	Modifier   string `json:"modifier"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
	ViewCount  int64  `json:"view_count"`
}

// BoardBaseDTO 帖子 - 新增或修改
type BoardBaseDTO struct {
	Title   string `json:"title" binding:"required" validate:"min=1,max=255"`
	Content string `json:"content" binding:"required" validate:"min=1,max=10000"`
}

// BoardListDTO 帖子列表查询参数
type BoardListDTO struct {
	Page int `form:"page,default=0" binding:"min=0"`
	Size int `form:"size,default=5" binding:"min=0"`
}
