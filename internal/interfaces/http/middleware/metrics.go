package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kitab-ai-api/pkg/metrics"
)

// unmatchedRoute 未命中任何路由的请求共用一个标签，避免任意路径撑大序列数
const unmatchedRoute = "unmatched"

// Metrics 按路由模板采集请求指标，会话 ID 等路径参数不会进入标签。
// 健康检查与 skip 中的路径（通常是指标端点自身）不计入。
func Metrics(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skipped[c.Request.URL.Path]; ok || isHealthPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		method := c.Request.Method
		route := routeLabel(c)

		inFlight := metrics.HTTPRequestsInFlight.WithLabelValues(route)
		inFlight.Inc()
		defer inFlight.Dec()

		if size := c.Request.ContentLength; size > 0 {
			metrics.HTTPRequestSize.WithLabelValues(method, route).Observe(float64(size))
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		// DOCX 附件与 JSON 响应共用该直方图，按 route 区分
		if size := c.Writer.Size(); size > 0 {
			metrics.HTTPResponseSize.WithLabelValues(method, route).Observe(float64(size))
		}
	}
}

// routeLabel 返回 gin 路由模板，如 /v1/sessions/:sid/export
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}

func isHealthPath(path string) bool {
	switch path {
	case "/health", "/live", "/ready":
		return true
	}
	return false
}
