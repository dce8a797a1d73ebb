package service

import (
	"Liveboard/internal/api/dto"
	"Liveboard/internal/model"
	"Liveboard/internal/pkg/consts"
	"Liveboard/internal/pkg/redis"
	"Liveboard/internal/pkg/security"
	"Liveboard/internal/repository"
	"context"
)

type MemberService interface {
	Register(ctx context.Context, regDTO *dto.RegisterDTO) error
	Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.LoginResultDTO, error)
	Logout(ctx context.Context, token string) error
	GetMemberByID(ctx context.Context, id uint64) (*model.Member, error)
}

type MemberServiceImpl struct {
	memberRepo repository.MemberRepo
}

func NewMemberService(memberRepo repository.MemberRepo) MemberService {
	return &MemberServiceImpl{memberRepo: memberRepo}
}

// Register 注册新用户，默认 USER 角色
func (s *MemberServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	found, err := s.memberRepo.GetMemberByUsername(ctx, regDTO.Username)
	if err != nil {
		return err
	}
	if found != nil {
		return ErrMemberExist
	}

	hashed, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return err
	}

	member := &model.Member{
		Username: regDTO.Username,
		Name:     regDTO.Name,
		Password: hashed,
		Roles:    consts.RoleUser,
	}
	return s.memberRepo.CreateMember(ctx, member)
}

func (s *MemberServiceImpl) Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.LoginResultDTO, error) {
	member, err := s.memberRepo.GetMemberByUsername(ctx, loginDTO.Username)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}

	if err = security.CheckPasswordHash(loginDTO.Password, member.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	roles := member.RoleList()
	token, err := security.GenerateToken(member.ID, member.Name, roles)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResultDTO{
		Token:    token,
		Username: member.Username,
		Name:     member.Name,
		Roles:    roles,
	}, nil
}

// Logout 将 token 签名写入黑名单，剩余有效期内拒绝复用
func (s *MemberServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrMissingLoginCredentials
	}
	return redis.SetWithExpiration(ctx, signature, "revoked", security.JWTExpirationTime)
}

func (s *MemberServiceImpl) GetMemberByID(ctx context.Context, id uint64) (*model.Member, error) {
	member, err := s.memberRepo.GetMemberByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}
