package response

import "net/http"

// 错误码直接使用 HTTP 状态码
const (
	CodeBadRequest      = http.StatusBadRequest
	CodeUnauthorized    = http.StatusUnauthorized
	CodeForbidden       = http.StatusForbidden
	CodeNotFound        = http.StatusNotFound
	CodeConflict        = http.StatusConflict
	CodeTooLarge        = http.StatusRequestEntityTooLarge
	CodeTooManyRequests = http.StatusTooManyRequests
	CodeServerError     = http.StatusInternalServerError
	CodeUnavailable     = http.StatusServiceUnavailable
	CodeTimeout         = http.StatusGatewayTimeout
)

// CodeMsgMap 每个状态码的默认 message
var CodeMsgMap = map[int]string{
	CodeBadRequest:      "Bad request",
	CodeUnauthorized:    "Not authorized",
	CodeForbidden:       "Access denied",
	CodeNotFound:        "Not found",
	CodeConflict:        "Conflict",
	CodeTooLarge:        "Request body too large",
	CodeTooManyRequests: "Too many requests",
	CodeServerError:     "Server error",
	CodeUnavailable:     "Server busy",
	CodeTimeout:         "Request timeout",
}
