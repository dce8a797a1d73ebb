package service

import (
	"Liveboard/internal/api/dto"
	"Liveboard/internal/model"
	"Liveboard/internal/pkg/hub"
	"Liveboard/internal/repository"
	"context"

	"github.com/jinzhu/copier"
)

type CommentService interface {
	GetComments(ctx context.Context, boardID uint64) ([]*dto.CommentDTO, error)
	AddComment(ctx context.Context, registrant string, boardID uint64, baseDTO *dto.CommentBaseDTO) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, id uint64) error
	StreamComments(ctx context.Context, boardID uint64) ([]*dto.CommentDTO, *hub.Subscription[dto.CommentDTO], error)
}

type CommentServiceImpl struct {
	commentRepo repository.CommentRepo
	boardRepo   repository.BoardRepo
	commentHub  *hub.Hub[dto.CommentDTO]
}

func NewCommentService(commentRepo repository.CommentRepo, boardRepo repository.BoardRepo, commentHub *hub.Hub[dto.CommentDTO]) CommentService {
	return &CommentServiceImpl{
		commentRepo: commentRepo,
		boardRepo:   boardRepo,
		commentHub:  commentHub,
	}
}

func (s *CommentServiceImpl) GetComments(ctx context.Context, boardID uint64) ([]*dto.CommentDTO, error) {
	comments, err := s.commentRepo.GetCommentsByBoardID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return toCommentDTOs(comments)
}

// AddComment 写入后广播到评论 Hub，广播尽力而为
func (s *CommentServiceImpl) AddComment(ctx context.Context, registrant string, boardID uint64, baseDTO *dto.CommentBaseDTO) (*dto.CommentDTO, error) {
	board, err := s.boardRepo.GetBoardWithViewCount(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, ErrBoardNotFound
	}

	comment := &model.Comment{
		BoardID:    boardID,
		Content:    baseDTO.Content,
		Registrant: registrant,
		Modifier:   registrant,
	}
	if err = s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	out, err := toCommentDTO(comment)
	if err != nil {
		return nil, err
	}

	s.commentHub.Publish(*out)
	return out, nil
}

// DeleteComment 幂等删除
func (s *CommentServiceImpl) DeleteComment(ctx context.Context, id uint64) error {
	return s.commentRepo.DeleteComment(ctx, id)
}

// StreamComments 历史评论（倒序）与实时流的拼接：先订阅再取历史，
// 订阅窗口内的新评论不会丢失，由调用方先吐历史再消费订阅
func (s *CommentServiceImpl) StreamComments(ctx context.Context, boardID uint64) ([]*dto.CommentDTO, *hub.Subscription[dto.CommentDTO], error) {
	sub := s.commentHub.Subscribe(ctx)

	history, err := s.commentRepo.GetCommentsByBoardID(ctx, boardID)
	if err != nil {
		sub.Cancel()
		return nil, nil, err
	}

	out, err := toCommentDTOs(history)
	if err != nil {
		sub.Cancel()
		return nil, nil, err
	}
	return out, sub, nil
}

func toCommentDTO(comment *model.Comment) (*dto.CommentDTO, error) {
	out := &dto.CommentDTO{}
	if err := copier.Copy(out, comment); err != nil {
		return nil, err
	}
	out.CreatedAt = comment.CreatedAt.Format("2006-01-02 15:04:05")
	return out, nil
}

func toCommentDTOs(comments []*model.Comment) ([]*dto.CommentDTO, error) {
	out := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		item, err := toCommentDTO(comment)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
