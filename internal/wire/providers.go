package wire

import (
	"context"

	"kitab-ai-api/internal/application/book"
	"kitab-ai-api/internal/application/document"
	"kitab-ai-api/internal/config"
	"kitab-ai-api/internal/domain/repository"
	"kitab-ai-api/internal/infrastructure/docx"
	"kitab-ai-api/internal/infrastructure/llm"
	"kitab-ai-api/internal/infrastructure/persistence/memory"
	"kitab-ai-api/internal/infrastructure/persistence/redis"
	"kitab-ai-api/internal/infrastructure/ratelimit"
	"kitab-ai-api/internal/interfaces/http/middleware"
	einoobs "kitab-ai-api/internal/observability/eino"
	workflowport "kitab-ai-api/internal/workflow/port"
	workflowprompt "kitab-ai-api/internal/workflow/prompt"
	"kitab-ai-api/pkg/logger"
)

// ProvideManuscriptRepository 进程内会话存储
func ProvideManuscriptRepository(cfg *config.Config) repository.ManuscriptRepository {
	return memory.NewManuscriptRepository(cfg.Studio.SessionTTL, cfg.Studio.CleanupInterval)
}

// ProvideRedisClientOptional 未启用时返回 nil；启用但连不上时启动失败
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		logger.Info(ctx, "redis disabled, using in-process rate limiter")
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter Redis 可用时使用分布式滑动窗口，否则使用本地令牌桶
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return ratelimit.NewLocalLimiter()
	}
	return redis.NewRateLimiter(client)
}

// ProvideLLMFactory 提供 LLM 工厂
func ProvideLLMFactory(cfg *config.Config) (workflowport.ChatModelFactory, func()) {
	factory := llm.NewEinoFactory(cfg)
	return factory, factory.Close
}

// ProvideGenerator 提供书稿生成器
func ProvideGenerator(factory workflowport.ChatModelFactory, prompts *workflowprompt.Registry, cfg *config.Config) book.Generator {
	return book.NewBookGenerator(factory, prompts, cfg)
}

// ProvideExporter 排版与 DOCX 打包
func ProvideExporter(cfg *config.Config) *document.Exporter {
	return document.NewExporter(document.NewAssembler(cfg.Book), docx.NewPacker())
}

// ProvideStudio 创建工作台并注册为 LLM 用量记录器
func ProvideStudio(repo repository.ManuscriptRepository, generator book.Generator, exporter *document.Exporter, cfg *config.Config) *book.Studio {
	studio := book.NewStudio(repo, generator, exporter, cfg)
	einoobs.Init(studio)
	return studio
}
