package handler

import (
	"Liveboard/internal/api/dto"
	"Liveboard/internal/pkg/response"
	"Liveboard/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	memberSvc service.MemberService
}

func NewAuthHandler(memberSvc service.MemberService) *AuthHandler {
	return &AuthHandler{
		memberSvc: memberSvc,
	}
}

func (s *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.memberSvc.Register(c.Request.Context(), &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.memberSvc.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func (s *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		response.Error(c, service.ErrMissingLoginCredentials)
		return
	}

	if err := s.memberSvc.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
