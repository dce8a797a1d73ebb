package repository

import (
	"Liveboard/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type MemberRepo interface {
	CreateMember(ctx context.Context, member *model.Member) error
	GetMemberByID(ctx context.Context, id uint64) (*model.Member, error)
	GetMemberByUsername(ctx context.Context, username string) (*model.Member, error)
}

type MemberRepoImpl struct {
	db *gorm.DB
}

func NewMemberRepo(db *gorm.DB) MemberRepo {
	return &MemberRepoImpl{db: db}
}

func (s *MemberRepoImpl) CreateMember(ctx context.Context, member *model.Member) error {
	return s.db.WithContext(ctx).Create(member).Error
}

func (s *MemberRepoImpl) GetMemberByID(ctx context.Context, id uint64) (*model.Member, error) {
	member := &model.Member{}
	err := s.db.WithContext(ctx).First(member, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

func (s *MemberRepoImpl) GetMemberByUsername(ctx context.Context, username string) (*model.Member, error) {
	member := &model.Member{}
	err := s.db.WithContext(ctx).Where("username = ?", username).First(member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}
