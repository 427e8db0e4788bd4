package model

import "time"

// LLMUsageMeta 单次生成的模型与用量信息
type LLMUsageMeta struct {
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	Temperature      float64   `json:"temperature"`
	GeneratedAt      time.Time `json:"generated_at"`
}
