package config

import (
	"fmt"
	"strings"

	apperrors "kitab-ai-api/pkg/errors"
)

// Validate 校验启动必需项。
// 返回的 AppError 错误码为 CodeConfigurationError，调用方应拒绝启动。
func (c *Config) Validate() error {
	if c == nil {
		return apperrors.ConfigurationError("config is nil")
	}

	name := strings.TrimSpace(c.LLM.DefaultProvider)
	if name == "" {
		return apperrors.ConfigurationError("llm.default_provider is not set")
	}
	p, ok := c.LLM.Providers[name]
	if !ok {
		return apperrors.ConfigurationError(fmt.Sprintf("llm provider %q is not configured", name))
	}
	if !IsSupportedProviderType(p.ProviderType(name)) {
		return apperrors.ConfigurationError(fmt.Sprintf("llm provider %q has unsupported type %q", name, p.Type))
	}
	if isMissingSecret(p.APIKey) {
		return apperrors.ConfigurationError(fmt.Sprintf("llm.providers.%s.api_key is missing", name))
	}
	if strings.TrimSpace(p.Model) == "" {
		return apperrors.ConfigurationError(fmt.Sprintf("llm.providers.%s.model is missing", name))
	}

	if c.Book.Style.MarginCm <= 0 {
		return apperrors.ConfigurationError("book.style.margin_cm must be positive")
	}
	return nil
}

// ProviderType 返回提供商类型；未显式配置时按名称推断
func (p ProviderConfig) ProviderType(name string) string {
	t := strings.ToLower(strings.TrimSpace(p.Type))
	if t != "" {
		return t
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// SupportsStructuredOutput 请求是否携带结构化输出约束。
// OpenAI 兼容接口与 Gemini 默认开启，Anthropic 适配器不读取该约束。
func (p ProviderConfig) SupportsStructuredOutput(name string) bool {
	if p.StructuredOutput != nil {
		return *p.StructuredOutput
	}
	switch p.ProviderType(name) {
	case ProviderTypeOpenAI, ProviderTypeGemini:
		return true
	default:
		return false
	}
}

// IsSupportedProviderType 是否为已实现的提供商类型
func IsSupportedProviderType(t string) bool {
	switch t {
	case ProviderTypeOpenAI, ProviderTypeGemini, ProviderTypeAnthropic:
		return true
	default:
		return false
	}
}

// isMissingSecret 空值或未展开的 ${VAR} 占位符都视为缺失
func isMissingSecret(v string) bool {
	s := strings.TrimSpace(v)
	if s == "" {
		return true
	}
	return envPlaceholder.MatchString(s)
}
