package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"kitab-ai-api/internal/config"
)

const (
	anthropicType             = "Anthropic"
	defaultAnthropicMaxTokens = 8192
)

// AnthropicChatModel 以 eino ChatModel 形式包装 Claude Messages API。
// Claude 没有 response schema 参数，结构约束只靠提示词中的 schema 文本。
type AnthropicChatModel struct {
	client      *anthropic.Client
	modelName   string
	temperature float32
	maxTokens   int
}

var _ model.BaseChatModel = (*AnthropicChatModel)(nil)

// NewAnthropicChatModel 创建 Claude 客户端
func NewAnthropicChatModel(cfg config.ProviderConfig) *AnthropicChatModel {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	return &AnthropicChatModel{
		client:      anthropic.NewClient(opts...),
		modelName:   cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   maxTokens,
	}
}

func (m *AnthropicChatModel) GetType() string { return anthropicType }

func (m *AnthropicChatModel) IsCallbacksEnabled() bool { return true }

func (m *AnthropicChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (out *schema.Message, err error) {
	options := resolveOptions(m.modelName, m.temperature, m.maxTokens, opts...)

	ctx = callbacks.EnsureRunInfo(ctx, m.GetType(), components.ComponentOfChatModel)
	cbConfig := callbackConfig(options)
	ctx = callbacks.OnStart(ctx, &model.CallbackInput{Messages: in, Config: cbConfig})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	params, err := anthropicParams(cbConfig, in)
	if err != nil {
		return nil, err
	}
	message, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("claude api error: %w", err)
	}
	if len(message.Content) == 0 {
		return nil, fmt.Errorf("empty response from claude")
	}

	var sb strings.Builder
	for _, block := range message.Content {
		sb.WriteString(block.Text)
	}
	out, usage := assistantMessage(sb.String(), int(message.Usage.InputTokens), int(message.Usage.OutputTokens))
	callbacks.OnEnd(ctx, &model.CallbackOutput{Message: out, Config: cbConfig, TokenUsage: usage})
	return out, nil
}

// Stream 退化为单帧流
func (m *AnthropicChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func anthropicParams(cfg *model.Config, in []*schema.Message) (anthropic.MessageNewParams, error) {
	system, turns := splitMessages(in)
	if len(turns) == 0 {
		return anthropic.MessageNewParams{}, fmt.Errorf("claude: no user content")
	}

	msgs := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		if t.Role == schema.Assistant {
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
			continue
		}
		msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
	}

	// Messages API 要求 max_tokens 为正数
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(cfg.Model)),
		MaxTokens: anthropic.F(int64(maxTokens)),
		Messages:  anthropic.F(msgs),
	}
	if system != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{anthropic.NewTextBlock(system)})
	}
	if cfg.Temperature > 0 {
		params.Temperature = anthropic.F(float64(cfg.Temperature))
	}
	return params, nil
}
