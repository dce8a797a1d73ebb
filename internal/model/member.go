package model

import (
	"strings"
	"time"
)

// Member 登录用户，Roles 为逗号分隔的角色串（USER / ADMIN）
type Member struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_username" json:"username"`
	Name      string    `gorm:"type:varchar(64);not null" json:"name"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Roles     string    `gorm:"type:varchar(128);not null;default:USER" json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// RoleList 将角色串拆分为角色列表
func (m *Member) RoleList() []string {
	roles := make([]string, 0, 2)
	for _, r := range strings.Split(m.Roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
