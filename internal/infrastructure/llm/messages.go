package llm

import (
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// chatTurn 非 system 消息的一轮
type chatTurn struct {
	Role    schema.RoleType
	Content string
}

// splitMessages 拆出 system 指令与对话轮次；空内容的消息被丢弃
func splitMessages(in []*schema.Message) (string, []chatTurn) {
	var system []string
	turns := make([]chatTurn, 0, len(in))
	for _, msg := range in {
		if msg == nil {
			continue
		}
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		if msg.Role == schema.System {
			system = append(system, content)
			continue
		}
		role := msg.Role
		if role != schema.Assistant {
			role = schema.User
		}
		turns = append(turns, chatTurn{Role: role, Content: content})
	}
	return strings.Join(system, "\n\n"), turns
}

// resolveOptions 以提供商配置为底，叠加调用方传入的通用选项
func resolveOptions(modelName string, temperature float32, maxTokens int, opts ...model.Option) *model.Options {
	base := &model.Options{Model: &modelName}
	if temperature > 0 {
		base.Temperature = &temperature
	}
	if maxTokens > 0 {
		base.MaxTokens = &maxTokens
	}
	return model.GetCommonOptions(base, opts...)
}

func callbackConfig(o *model.Options) *model.Config {
	cfg := &model.Config{}
	if o == nil {
		return cfg
	}
	if o.Model != nil {
		cfg.Model = *o.Model
	}
	if o.MaxTokens != nil {
		cfg.MaxTokens = *o.MaxTokens
	}
	if o.Temperature != nil {
		cfg.Temperature = *o.Temperature
	}
	return cfg
}

// assistantMessage 组装带用量的回复，同时返回回调用的 TokenUsage
func assistantMessage(content string, prompt, completion int) (*schema.Message, *model.TokenUsage) {
	msg := schema.AssistantMessage(content, nil)
	msg.ResponseMeta = &schema.ResponseMeta{
		Usage: &schema.TokenUsage{
			PromptTokens:     prompt,
			CompletionTokens: completion,
			TotalTokens:      prompt + completion,
		},
	}
	return msg, &model.TokenUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}
