package service

import "context"

// LLMUsageInput 一次 LLM 调用的用量数据。
// 由 eino 回调产生，交给应用层按会话累计。
type LLMUsageInput struct {
	SessionID string

	Workflow string
	Provider string
	Model    string

	PromptTokens     int
	CompletionTokens int
	DurationMs       int
}

// LLMUsageRecorder 记录调用用量；实现为 best-effort，不应阻塞生成流程
type LLMUsageRecorder interface {
	Record(ctx context.Context, in LLMUsageInput) error
}
