package model

import (
	"time"
)

type Board struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	Content    string    `gorm:"not null" json:"content"`
	Registrant string    `gorm:"type:varchar(64);not null" json:"registrant"`
	Modifier   string    `gorm:"type:varchar(64);not null" json:"modifier"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 阅读量为派生字段，由 board_view_logs 关联子查询计算得出，不落库
	ViewCount int64 `gorm:"->;-:migration" json:"view_count"`
}

func (Board) TableName() string {
	return "boards"
}
