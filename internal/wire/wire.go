//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"kitab-ai-api/internal/application/book"
	"kitab-ai-api/internal/config"
	"kitab-ai-api/internal/interfaces/http/handler"
	"kitab-ai-api/internal/interfaces/http/router"
	workflowprompt "kitab-ai-api/internal/workflow/prompt"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		StoreSet,
		LLMSet,
		BookSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeStudio 初始化工作台（CLI 使用，不含 HTTP 与 Redis）
func InitializeStudio(ctx context.Context, cfg *config.Config) (*book.Studio, func(), error) {
	wire.Build(
		ProvideManuscriptRepository,
		LLMSet,
		BookSet,
	)
	return nil, nil, nil
}

// StoreSet 会话存储与限流
var StoreSet = wire.NewSet(
	ProvideManuscriptRepository,
	ProvideRedisClientOptional,
	ProvideRateLimiter,
)

// LLMSet 模型工厂与提示词
var LLMSet = wire.NewSet(
	ProvideLLMFactory,
	workflowprompt.NewRegistry,
)

// BookSet 生成、排版与工作台
var BookSet = wire.NewSet(
	ProvideGenerator,
	ProvideExporter,
	ProvideStudio,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewBookHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)
