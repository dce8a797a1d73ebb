package repository

import (
	"Liveboard/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// viewCountSubQuery 阅读量关联子查询：阅读量只从日志推导，不落库存计数
const viewCountSubQuery = "boards.*, (SELECT COUNT(*) FROM board_view_logs WHERE board_view_logs.board_id = boards.id) AS view_count"

type BoardRepo interface {
	CreateBoard(ctx context.Context, board *model.Board) error
	GetBoardWithViewCount(ctx context.Context, id uint64) (*model.Board, error)
	GetBoardsWithViewCount(ctx context.Context, limit, offset int) ([]*model.Board, error)
	UpdateBoard(ctx context.Context, board *model.Board) (int64, error)
	DeleteBoard(ctx context.Context, id uint64) error
	CountBoards(ctx context.Context) (int64, error)
}

type BoardRepoImpl struct {
	db *gorm.DB
}

func NewBoardRepo(db *gorm.DB) BoardRepo {
	return &BoardRepoImpl{db: db}
}

func (s *BoardRepoImpl) CreateBoard(ctx context.Context, board *model.Board) error {
	return s.db.WithContext(ctx).Create(board).Error
}

func (s *BoardRepoImpl) GetBoardWithViewCount(ctx context.Context, id uint64) (*model.Board, error) {
	board := &model.Board{}
	err := s.db.WithContext(ctx).
		Select(viewCountSubQuery).
		Where("boards.id = ?", id).
		First(board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return board, nil
}

func (s *BoardRepoImpl) GetBoardsWithViewCount(ctx context.Context, limit, offset int) ([]*model.Board, error) {
	boards := make([]*model.Board, 0)
	err := s.db.WithContext(ctx).
		Select(viewCountSubQuery).
		Order("boards.created_at DESC, boards.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}

func (s *BoardRepoImpl) UpdateBoard(ctx context.Context, board *model.Board) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Board{}).
		Where("id = ?", board.ID).
		Updates(map[string]interface{}{
			"title":    board.Title,
			"content":  board.Content,
			"modifier": board.Modifier,
		})
	return result.RowsAffected, result.Error
}

func (s *BoardRepoImpl) DeleteBoard(ctx context.Context, id uint64) error {
	// 幂等删除：不存在时同样视为成功；阅读日志不随删级联
	return s.db.WithContext(ctx).Delete(&model.Board{}, id).Error
}

func (s *BoardRepoImpl) CountBoards(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Board{}).Count(&count).Error
	return count, err
}
