package service

import (
	"Liveboard/internal/api/dto"
	"Liveboard/internal/model"
	"Liveboard/internal/pkg/consts"
	"Liveboard/internal/pkg/hub"
	"Liveboard/internal/repository"
	"context"
	log "log/slog"

	"github.com/jinzhu/copier"
)

type BoardService interface {
	GetBoards(ctx context.Context, page, size int) ([]*dto.BoardDTO, error)
	CreateBoard(ctx context.Context, registrant string, baseDTO *dto.BoardBaseDTO) (*dto.BoardDTO, error)
	GetBoardByID(ctx context.Context, id uint64) (*dto.BoardDTO, error)
	UpdateBoard(ctx context.Context, modifier string, id uint64, baseDTO *dto.BoardBaseDTO) (*dto.BoardDTO, error)
	DeleteBoard(ctx context.Context, id uint64) error
	StreamBoards(ctx context.Context) *hub.Subscription[dto.BoardDTO]
}

type BoardServiceImpl struct {
	boardRepo  repository.BoardRepo
	viewLogSvc ViewLogService
	boardHub   *hub.Hub[dto.BoardDTO]
}

func NewBoardService(boardRepo repository.BoardRepo, viewLogSvc ViewLogService, boardHub *hub.Hub[dto.BoardDTO]) BoardService {
	return &BoardServiceImpl{
		boardRepo:  boardRepo,
		viewLogSvc: viewLogSvc,
		boardHub:   boardHub,
	}
}

// GetBoards 分页查询，注册时间倒序，每条带实时聚合出的阅读量。
// size 为 0 返回空列表，超出上限时收敛到上限；越界页返回空列表而非错误。
func (s *BoardServiceImpl) GetBoards(ctx context.Context, page, size int) ([]*dto.BoardDTO, error) {
	if page < 0 || size < 0 {
		return nil, ErrParamInvalid
	}
	if size == 0 {
		return []*dto.BoardDTO{}, nil
	}
	if size > consts.MaxPageSize {
		size = consts.MaxPageSize
	}

	boards, err := s.boardRepo.GetBoardsWithViewCount(ctx, size, page*size)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.BoardDTO, 0, len(boards))
	for _, board := range boards {
		item, err := toBoardDTO(board)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// CreateBoard 写入 → 带阅读量回读 → 广播。广播尽力而为，失败不回滚已成功的写入
func (s *BoardServiceImpl) CreateBoard(ctx context.Context, registrant string, baseDTO *dto.BoardBaseDTO) (*dto.BoardDTO, error) {
	board := &model.Board{
		Title:      baseDTO.Title,
		Content:    baseDTO.Content,
		Registrant: registrant,
		Modifier:   registrant,
	}
	if err := s.boardRepo.CreateBoard(ctx, board); err != nil {
		return nil, err
	}

	stored, err := s.boardRepo.GetBoardWithViewCount(ctx, board.ID)
	if err != nil || stored == nil {
		// 写入已成功，回读失败时退回内存中的实体，阅读量必然为 0
		stored = board
	}

	out, err := toBoardDTO(stored)
	if err != nil {
		return nil, err
	}

	s.publishBoard(ctx, out)
	return out, nil
}

// GetBoardByID 详情读取，命中后异步追加阅读日志，不等待也不因其失败
func (s *BoardServiceImpl) GetBoardByID(ctx context.Context, id uint64) (*dto.BoardDTO, error) {
	board, err := s.boardRepo.GetBoardWithViewCount(ctx, id)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, ErrBoardNotFound
	}

	s.viewLogSvc.RecordView(ctx, id)

	return toBoardDTO(board)
}

func (s *BoardServiceImpl) UpdateBoard(ctx context.Context, modifier string, id uint64, baseDTO *dto.BoardBaseDTO) (*dto.BoardDTO, error) {
	board := &model.Board{
		ID:       id,
		Title:    baseDTO.Title,
		Content:  baseDTO.Content,
		Modifier: modifier,
	}
	rows, err := s.boardRepo.UpdateBoard(ctx, board)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrBoardNotFound
	}

	stored, err := s.boardRepo.GetBoardWithViewCount(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrBoardNotFound
	}
	return toBoardDTO(stored)
}

// DeleteBoard 幂等删除，删除不存在的 id 同样视为成功
func (s *BoardServiceImpl) DeleteBoard(ctx context.Context, id uint64) error {
	return s.boardRepo.DeleteBoard(ctx, id)
}

// StreamBoards 订阅实时帖子流：先回放最近一条广播，再按发布顺序接收后续
func (s *BoardServiceImpl) StreamBoards(ctx context.Context) *hub.Subscription[dto.BoardDTO] {
	return s.boardHub.Subscribe(ctx)
}

// publishBoard 广播新帖。订阅者收到的是 DTO 值拷贝，彼此不共享可变引用
func (s *BoardServiceImpl) publishBoard(ctx context.Context, board *dto.BoardDTO) {
	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "board broadcast failed", "boardID", board.ID, "panic", r)
		}
	}()
	s.boardHub.Publish(*board)
}

func toBoardDTO(board *model.Board) (*dto.BoardDTO, error) {
	out := &dto.BoardDTO{}
	if err := copier.Copy(out, board); err != nil {
		return nil, err
	}
	out.CreatedAt = board.CreatedAt.Format("2006-01-02 15:04:05")
	out.UpdatedAt = board.UpdatedAt.Format("2006-01-02 15:04:05")
	return out, nil
}
