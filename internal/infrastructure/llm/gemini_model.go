package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"kitab-ai-api/internal/config"
	workflowport "kitab-ai-api/internal/workflow/port"
)

const geminiType = "Gemini"

// GeminiChatModel 以 eino ChatModel 形式包装 Gemini。
// 结构化输出通过 ResponseSchema 下发，schema 来自 port.WithResponseSchema。
type GeminiChatModel struct {
	client      *genai.Client
	modelName   string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

var _ model.BaseChatModel = (*GeminiChatModel)(nil)

// NewGeminiChatModel 创建 Gemini 客户端
func NewGeminiChatModel(ctx context.Context, cfg config.ProviderConfig) (*GeminiChatModel, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithEndpoint(base))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiChatModel{
		client:      client,
		modelName:   cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
	}, nil
}

func (m *GeminiChatModel) GetType() string { return geminiType }

func (m *GeminiChatModel) IsCallbacksEnabled() bool { return true }

// Close 释放底层 gRPC 连接
func (m *GeminiChatModel) Close() error {
	return m.client.Close()
}

func (m *GeminiChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (out *schema.Message, err error) {
	options := resolveOptions(m.modelName, m.temperature, m.maxTokens, opts...)
	structured := workflowport.GetStructuredOutput(opts...)

	ctx = callbacks.EnsureRunInfo(ctx, m.GetType(), components.ComponentOfChatModel)
	cbConfig := callbackConfig(options)
	ctx = callbacks.OnStart(ctx, &model.CallbackInput{Messages: in, Config: cbConfig})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	gm := m.client.GenerativeModel(cbConfig.Model)
	if options.Temperature != nil {
		gm.SetTemperature(*options.Temperature)
	}
	if options.MaxTokens != nil {
		gm.SetMaxOutputTokens(int32(*options.MaxTokens))
	}
	if structured.Schema != nil {
		gm.ResponseMIMEType = "application/json"
		gm.ResponseSchema = toGenaiSchema(structured.Schema)
	}

	system, turns := splitMessages(in)
	if system != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if len(turns) == 0 {
		return nil, fmt.Errorf("gemini: no user content")
	}

	var resp *genai.GenerateContentResponse
	if len(turns) == 1 {
		resp, err = gm.GenerateContent(ctx, genai.Text(turns[0].Content))
	} else {
		cs := gm.StartChat()
		cs.History = geminiHistory(turns[:len(turns)-1])
		resp, err = cs.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	}
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	text, err := geminiText(resp)
	if err != nil {
		return nil, err
	}
	prompt, completion := 0, 0
	if resp.UsageMetadata != nil {
		prompt = int(resp.UsageMetadata.PromptTokenCount)
		completion = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	out, usage := assistantMessage(text, prompt, completion)
	callbacks.OnEnd(ctx, &model.CallbackOutput{Message: out, Config: cbConfig, TokenUsage: usage})
	return out, nil
}

// Stream 书稿生成只需要完整响应，这里退化为单帧流
func (m *GeminiChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func geminiHistory(turns []chatTurn) []*genai.Content {
	history := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == schema.Assistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(t.Content)}})
	}
	return history
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// toGenaiSchema 把 JSON Schema 子集转换为 genai.Schema。
// 只识别 type/description/enum/properties/required/items，其余关键字忽略。
func toGenaiSchema(in map[string]any) *genai.Schema {
	if in == nil {
		return nil
	}
	out := &genai.Schema{}
	if t, ok := in["type"].(string); ok {
		out.Type = genaiType(t)
	}
	if d, ok := in["description"].(string); ok {
		out.Description = d
	}
	out.Enum = stringList(in["enum"])
	out.Required = stringList(in["required"])
	if props, ok := in["properties"].(map[string]any); ok {
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if child, ok := raw.(map[string]any); ok {
				out.Properties[name] = toGenaiSchema(child)
			}
		}
	}
	if items, ok := in["items"].(map[string]any); ok {
		out.Items = toGenaiSchema(items)
	}
	return out
}

func genaiType(t string) genai.Type {
	switch strings.ToLower(t) {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
