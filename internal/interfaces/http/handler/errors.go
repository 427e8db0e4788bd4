package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kitab-ai-api/internal/interfaces/http/dto"
	"kitab-ai-api/internal/interfaces/http/middleware"
	"kitab-ai-api/pkg/errors"
	"kitab-ai-api/pkg/logger"
)

// respondError AppError 按其状态码返回；Detail 只对调用方可修正的参数错误公开，
// 其余错误只返回固定的 Message，内部原因仅写日志。
func respondError(c *gin.Context, err error, msg string) {
	ctx := c.Request.Context()
	if !errors.IsAppError(err) {
		logger.Error(ctx, msg, err)
		dto.InternalError(c, "internal server error")
		return
	}

	appErr := errors.AsAppError(err)
	var detail *dto.ErrorDetail
	if appErr.Code == errors.CodeInvalidParam {
		detail = &dto.ErrorDetail{ErrorCode: string(appErr.Code), Details: appErr.Detail}
	} else {
		detail = &dto.ErrorDetail{ErrorCode: string(appErr.Code)}
	}
	if appErr.HTTPStatus >= 500 {
		logger.Error(ctx, msg, err)
	}
	dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, detail)
}

// bindJSON 解码请求体；超过 BodyLimit 上限时返回 413，其余解码错误返回 400
func bindJSON(c *gin.Context, v any) bool {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		middleware.AbortPayloadTooLarge(c)
		return false
	}
	dto.BadRequest(c, "invalid request body: "+err.Error())
	return false
}
