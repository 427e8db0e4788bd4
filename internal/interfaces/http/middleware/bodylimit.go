package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kitab-ai-api/internal/interfaces/http/dto"
	"kitab-ai-api/pkg/errors"
	"kitab-ai-api/pkg/metrics"
)

// BodyLimit 限制请求体大小
//
// 声明的 Content-Length 超限时直接返回 413；未声明长度的请求体由 http.MaxBytesReader 截断，
// 处理器解码时会得到 *http.MaxBytesError。maxBytes <= 0 时不限制。
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			AbortPayloadTooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// AbortPayloadTooLarge 以统一错误结构返回 413
func AbortPayloadTooLarge(c *gin.Context) {
	metrics.HTTPBodyTooLarge.WithLabelValues(routeLabel(c)).Inc()
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{
		Code:    http.StatusRequestEntityTooLarge,
		Message: errors.ErrPayloadTooLarge.Message,
		Error:   &dto.ErrorDetail{ErrorCode: string(errors.CodePayloadTooLarge)},
		TraceID: c.GetString("trace_id"),
	})
}
