package router

import (
	"github.com/gin-gonic/gin"

	"kitab-ai-api/internal/interfaces/http/handler"
)

// RegisterV1Routes 注册 v1 版本路由；生成与导出接口经过限流
func RegisterV1Routes(v1 *gin.RouterGroup, bookHandler *handler.BookHandler, generateLimit gin.HandlerFunc) {
	sessions := v1.Group("/sessions")
	{
		sessions.POST("", bookHandler.CreateSession)
		sessions.GET("/:sid", bookHandler.GetSession)
		sessions.DELETE("/:sid", bookHandler.DeleteSession)
		sessions.POST("/:sid/generate", generateLimit, bookHandler.Generate)
		sessions.POST("/:sid/reset", bookHandler.Reset)
		sessions.GET("/:sid/document", bookHandler.Document)
		sessions.GET("/:sid/export", bookHandler.Export)
	}

	books := v1.Group("/books")
	{
		books.POST("/export", generateLimit, bookHandler.ExportBook)
	}
}
