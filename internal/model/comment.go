package model

import (
	"time"
)

type Comment struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	BoardID    uint64    `gorm:"not null;index:idx_board_id" json:"board_id"`
	Content    string    `gorm:"not null" json:"content"`
	Registrant string    `gorm:"type:varchar(64);not null" json:"registrant"`
	Modifier   string    `gorm:"type:varchar(64);not null" json:"modifier"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}
