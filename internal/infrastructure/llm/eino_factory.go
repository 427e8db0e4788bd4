package llm

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"kitab-ai-api/internal/config"
	apperrors "kitab-ai-api/pkg/errors"
)

// EinoFactory 按提供商名称惰性创建并缓存 ChatModel
type EinoFactory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// Get 获取指定名称的 ChatModel，name 为空时返回默认提供商
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, apperrors.ConfigurationError(fmt.Sprintf("llm provider %q is not configured", name))
	}

	m, err := newChatModel(ctx, name, providerCfg)
	if err != nil {
		return nil, err
	}
	f.models[name] = m
	return m, nil
}

// Default 返回默认 ChatModel
func (f *EinoFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "")
}

// Close 关闭持有连接的客户端
func (f *EinoFactory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, m := range f.models {
		if c, ok := m.(io.Closer); ok {
			_ = c.Close()
		}
		delete(f.models, name)
	}
}

func newChatModel(ctx context.Context, name string, cfg config.ProviderConfig) (model.BaseChatModel, error) {
	switch t := cfg.ProviderType(name); t {
	case config.ProviderTypeOpenAI:
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   ptrInt(cfg.MaxTokens),
			Temperature: ptrFloat32(float32(cfg.Temperature)),
			Timeout:     cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
		}
		return chatModel, nil
	case config.ProviderTypeGemini:
		chatModel, err := NewGeminiChatModel(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return chatModel, nil
	case config.ProviderTypeAnthropic:
		return NewAnthropicChatModel(cfg), nil
	default:
		return nil, apperrors.ConfigurationError(fmt.Sprintf("llm provider %q has unsupported type %q", name, t))
	}
}

func ptrFloat32(f float32) *float32 {
	return &f
}

func ptrInt(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
