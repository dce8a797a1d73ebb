package model

import (
	"time"
)

// BoardViewLog 阅读日志，只追加不修改
type BoardViewLog struct {
	ID       uint64    `gorm:"primaryKey"`
	BoardID  uint64    `gorm:"not null;index:idx_board_id" json:"boardId"`
	ViewedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"viewedAt"`
}

func (BoardViewLog) TableName() string {
	return "board_view_logs"
}
