package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyWorkflow llmCtxKey = "llm_workflow"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
	llmCtxKeySession  llmCtxKey = "llm_session"
)

const unknownLabel = "unknown"

// WithWorkflow 标记当前 LLM 调用所属工作流，用于指标与追踪标签
func WithWorkflow(ctx context.Context, workflow string) context.Context {
	return withLabel(ctx, llmCtxKeyWorkflow, workflow)
}

// WithProvider 标记提供商名称
func WithProvider(ctx context.Context, provider string) context.Context {
	return withLabel(ctx, llmCtxKeyProvider, provider)
}

// WithSession 标记发起调用的工作台会话
func WithSession(ctx context.Context, sessionID string) context.Context {
	return withLabel(ctx, llmCtxKeySession, sessionID)
}

func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	return WithProvider(WithWorkflow(ctx, workflow), provider)
}

func WorkflowFromContext(ctx context.Context) string {
	return labelOr(ctx, llmCtxKeyWorkflow, unknownLabel)
}

func ProviderFromContext(ctx context.Context) string {
	return labelOr(ctx, llmCtxKeyProvider, unknownLabel)
}

// SessionFromContext 无会话（如 CLI 或无状态导出）时返回空串
func SessionFromContext(ctx context.Context) string {
	return labelOr(ctx, llmCtxKeySession, "")
}

func withLabel(ctx context.Context, key llmCtxKey, value string) context.Context {
	if ctx == nil {
		return nil
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func labelOr(ctx context.Context, key llmCtxKey, fallback string) string {
	if ctx == nil {
		return fallback
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}
