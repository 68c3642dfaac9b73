package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fastinglab/fasting-be/internal/app/analysis"
	"github.com/fastinglab/fasting-be/internal/app/fasting"
)

// 业务错误码：engine 抛具名错误，这里统一翻译成 code + HTTP 状态
const (
	CodeOK              = 0
	CodeInternal        = 1000
	CodeBadParam        = 1002
	CodeNoActiveSession = 1003
	CodeEditExpired     = 1004
	CodeUpstream        = 1005
	CodeUpstreamTimeout = 1006
)

var codeMessage = map[int]string{
	CodeOK:              "ok",
	CodeInternal:        "internal_error",
	CodeBadParam:        "bad_parameter",
	CodeNoActiveSession: "no_active_session",
	CodeEditExpired:     "edit_window_expired",
	CodeUpstream:        "upstream_error",
	CodeUpstreamTimeout: "upstream_timeout",
}

// FromErr 把引擎/客户端的错误映射成错误码
func FromErr(err error) int {
	switch {
	case errors.Is(err, fasting.ErrInvalidInput):
		return CodeBadParam
	case errors.Is(err, fasting.ErrNoActiveSession):
		return CodeNoActiveSession
	case errors.Is(err, fasting.ErrEditWindowExpired):
		return CodeEditExpired
	case errors.Is(err, analysis.ErrTimeout):
		return CodeUpstreamTimeout
	case errors.Is(err, analysis.ErrUpstream):
		return CodeUpstream
	default:
		return CodeInternal
	}
}

func httpStatus(code int) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeBadParam, CodeEditExpired:
		return http.StatusBadRequest
	case CodeNoActiveSession:
		return http.StatusNotFound
	case CodeUpstream:
		return http.StatusBadGateway
	case CodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Fail 统一的错误响应
func Fail(c *gin.Context, err error) {
	code := FromErr(err)
	c.JSON(httpStatus(code), gin.H{
		"code":    code,
		"message": codeMessage[code],
		"detail":  err.Error(),
	})
}
