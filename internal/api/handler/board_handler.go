package handler

import (
	"Liveboard/internal/api/dto"
	"Liveboard/internal/pkg/response"
	"Liveboard/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boardSvc service.BoardService
}

func NewBoardHandler(boardSvc service.BoardService) *BoardHandler {
	return &BoardHandler{
		boardSvc: boardSvc,
	}
}

// GetBoards 分页列表，page/size 缺省 0/5
func (s *BoardHandler) GetBoards(c *gin.Context) {
	var listDTO dto.BoardListDTO
	if err := c.ShouldBindQuery(&listDTO); err != nil {
		response.Error(c, err)
		return
	}

	boards, err := s.boardSvc.GetBoards(c.Request.Context(), listDTO.Page, listDTO.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, boards)
}

func (s *BoardHandler) CreateBoard(c *gin.Context) {
	registrant := c.GetString("user_name")

	var req dto.BoardBaseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	board, err := s.boardSvc.CreateBoard(c.Request.Context(), registrant, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, board)
}

// GetBoard 详情读取，命中后异步记一次阅读
func (s *BoardHandler) GetBoard(c *gin.Context) {
	boardID, err := strconv.ParseUint(c.Param("board_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	board, err := s.boardSvc.GetBoardByID(c.Request.Context(), boardID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, board)
}

func (s *BoardHandler) UpdateBoard(c *gin.Context) {
	modifier := c.GetString("user_name")

	boardID, err := strconv.ParseUint(c.Param("board_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.BoardBaseDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	board, err := s.boardSvc.UpdateBoard(c.Request.Context(), modifier, boardID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, board)
}

func (s *BoardHandler) DeleteBoard(c *gin.Context) {
	boardID, err := strconv.ParseUint(c.Param("board_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.boardSvc.DeleteBoard(c.Request.Context(), boardID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
