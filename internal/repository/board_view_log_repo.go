package repository

import (
	"Liveboard/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type BoardViewLogRepo interface {
	Append(ctx context.Context, boardID uint64) error
	CountByBoardID(ctx context.Context, boardID uint64) (int64, error)
	DeleteOrphans(ctx context.Context) (int64, error)
}

type BoardViewLogRepoImpl struct {
	db *gorm.DB
}

func NewBoardViewLogRepo(db *gorm.DB) BoardViewLogRepo {
	return &BoardViewLogRepoImpl{db: db}
}

// Append 追加一条阅读日志，只插入不更新
func (s *BoardViewLogRepoImpl) Append(ctx context.Context, boardID uint64) error {
	viewLog := &model.BoardViewLog{
		BoardID:  boardID,
		ViewedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Create(viewLog).Error
}

func (s *BoardViewLogRepoImpl) CountByBoardID(ctx context.Context, boardID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.BoardViewLog{}).
		Where("board_id = ?", boardID).
		Count(&count).Error
	return count, err
}

// DeleteOrphans 清理父帖已删除的孤儿日志。这些日志早已不参与聚合，
// 清理只回收存储，不影响任何阅读量
func (s *BoardViewLogRepoImpl) DeleteOrphans(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("board_id NOT IN (?)", s.db.Model(&model.Board{}).Select("id")).
		Delete(&model.BoardViewLog{})
	return result.RowsAffected, result.Error
}
