package dto

// RegisterDTO 注册
type RegisterDTO struct {
	Username string `json:"username" binding:"required" validate:"min=2,max=64"`
	Name     string `json:"name" binding:"required" validate:"min=1,max=64"`
	Password string `json:"password" binding:"required" validate:"min=6,max=64"`
}

// LoginDTO 登录
type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResultDTO 登录结果
type LoginResultDTO struct {
	Token    string   `json:"token"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles"`
}
