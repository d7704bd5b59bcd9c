package response

import (
	"errors"

	"task-manager/internal/domain"
)

// ErrorBody 所有错误响应的统一形状
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Message 只有提示语的成功响应
type Message struct {
	Message string `json:"message"`
}

// Error 失败响应（customMsg 为空时用默认 message）
func Error(code int, customMsg string) ErrorBody {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return ErrorBody{Message: msg}
}

// ServerError 500：通用 message + 底层错误详情
func ServerError(err error) ErrorBody {
	b := ErrorBody{Message: CodeMsgMap[CodeServerError]}
	if err != nil {
		b.Error = err.Error()
	}
	return b
}

// FromError 按错误种类选状态码；未识别的一律 500
func FromError(err error) (int, ErrorBody) {
	var code int
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		code = CodeBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		code = CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		code = CodeForbidden
	case errors.Is(err, domain.ErrNotFound):
		code = CodeNotFound
	case errors.Is(err, domain.ErrConflict):
		code = CodeConflict
	default:
		return CodeServerError, ServerError(err)
	}
	return code, Error(code, err.Error())
}
