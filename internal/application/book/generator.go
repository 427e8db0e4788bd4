// Package book 书稿生成与工作台会话
package book

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"kitab-ai-api/internal/config"
	"kitab-ai-api/internal/domain/entity"
	"kitab-ai-api/internal/domain/service"
	workflowchain "kitab-ai-api/internal/workflow/chain"
	wfmodel "kitab-ai-api/internal/workflow/model"
	wfnode "kitab-ai-api/internal/workflow/node"
	workflowport "kitab-ai-api/internal/workflow/port"
	workflowprompt "kitab-ai-api/internal/workflow/prompt"
	apperrors "kitab-ai-api/pkg/errors"
	"kitab-ai-api/pkg/logger"
	"kitab-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("book")

const rawExcerptRunes = 400

// GenerateOutput 一次成功生成的结果
type GenerateOutput struct {
	Book *entity.Book
	Raw  string
	Meta wfmodel.LLMUsageMeta
}

// Generator 参数 -> 书稿；失败时返回 GenerationFailed
type Generator interface {
	Generate(ctx context.Context, params entity.GenerationParameters) (*GenerateOutput, error)
}

// BookGenerator 基于 BookChain 的生成器，每次调用只发起一次生成请求
type BookGenerator struct {
	chain    *workflowchain.BookChain
	provider string
	llmCfg   config.ProviderConfig
	now      func() time.Time
}

var _ Generator = (*BookGenerator)(nil)

// NewBookGenerator 使用默认提供商创建生成器
func NewBookGenerator(factory workflowport.ChatModelFactory, prompts *workflowprompt.Registry, cfg *config.Config) *BookGenerator {
	g := &BookGenerator{
		chain: workflowchain.NewBookChain(factory, prompts),
		now:   time.Now,
	}
	if cfg != nil {
		g.provider = strings.TrimSpace(cfg.LLM.DefaultProvider)
		g.llmCfg, _ = cfg.LLM.DefaultProviderConfig()
	}
	return g
}

func (g *BookGenerator) Generate(ctx context.Context, params entity.GenerationParameters) (*GenerateOutput, error) {
	if g == nil || g.chain == nil {
		return nil, apperrors.GenerationFailure(fmt.Errorf("book workflow not configured"))
	}
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "book.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("book.language", params.Language),
		attribute.Int("book.page_count", params.PageCount),
		attribute.Int("book.reference_count", params.ReferenceCount),
	)

	start := g.now()
	out, err := g.generate(ctx, params)
	elapsed := g.now().Sub(start).Seconds()
	metrics.BookGenerationDuration.WithLabelValues(params.Language).Observe(elapsed)

	if err != nil {
		metrics.BookGenerationTotal.WithLabelValues(params.Language, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error(ctx, "book generation failed", err,
			"provider", g.provider,
			"language", params.Language,
			"duration_s", elapsed,
		)
		return nil, apperrors.GenerationFailure(err)
	}

	metrics.BookGenerationTotal.WithLabelValues(params.Language, "success").Inc()
	metrics.BookChapterCount.Observe(float64(len(out.Book.Chapters)))
	span.SetAttributes(
		attribute.Int("book.chapters", len(out.Book.Chapters)),
		attribute.Int("book.references", len(out.Book.References)),
	)
	logger.Info(ctx, "book generated",
		"provider", out.Meta.Provider,
		"model", out.Meta.Model,
		"chapters", len(out.Book.Chapters),
		"sections", out.Book.SectionCount(),
		"references", len(out.Book.References),
		"requested_references", params.ReferenceCount,
		"prompt_tokens", out.Meta.PromptTokens,
		"completion_tokens", out.Meta.CompletionTokens,
	)
	return out, nil
}

func (g *BookGenerator) generate(ctx context.Context, params entity.GenerationParameters) (*GenerateOutput, error) {
	in := g.buildInput(params)

	outMsg, err := g.chain.Invoke(ctx, in)
	if err != nil {
		return nil, err
	}
	if outMsg == nil || strings.TrimSpace(outMsg.Content) == "" {
		return nil, fmt.Errorf("empty llm response")
	}

	b, raw, err := ParseBook(outMsg.Content)
	if err != nil {
		logger.Debug(ctx, "unparsable book output", "excerpt", wfnode.Excerpt(outMsg.Content, rawExcerptRunes))
		return nil, err
	}
	if strings.TrimSpace(b.Language) == "" {
		b.Language = params.Language
	}
	if err := ValidateBook(b); err != nil {
		return nil, err
	}

	meta := wfmodel.LLMUsageMeta{
		Provider:    g.provider,
		Model:       strings.TrimSpace(g.llmCfg.Model),
		Temperature: g.llmCfg.Temperature,
		GeneratedAt: g.now().UTC(),
	}
	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		meta.PromptTokens = outMsg.ResponseMeta.Usage.PromptTokens
		meta.CompletionTokens = outMsg.ResponseMeta.Usage.CompletionTokens
	}

	return &GenerateOutput{Book: b, Raw: raw, Meta: meta}, nil
}

func (g *BookGenerator) buildInput(params entity.GenerationParameters) *wfmodel.BookGenerateInput {
	return &wfmodel.BookGenerateInput{
		Topic:             params.Topic,
		Author:            params.Author,
		Madzhab:           params.Madzhab,
		Audience:          params.Audience,
		Language:          params.Language,
		PageCount:         params.PageCount,
		ReferenceCount:    params.ReferenceCount,
		ChapterCount:      service.ChapterCount(params.PageCount),
		SectionWordTarget: service.SectionWordTarget(params.PageCount),
		Provider:          g.provider,
		StructuredOutput:  g.llmCfg.SupportsStructuredOutput(g.provider),
	}
}
