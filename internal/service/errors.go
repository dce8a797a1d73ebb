package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrBoardNotFound           = errors.New("帖子不存在")
	ErrCommentNotFound         = errors.New("评论不存在")
	ErrMemberNotFound          = errors.New("用户不存在")
	ErrMemberExist             = errors.New("用户已存在")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrBoardNotFound:           NotFound,
	ErrCommentNotFound:         NotFound,
	ErrMemberNotFound:          NotFound,
	ErrMemberExist:             BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
