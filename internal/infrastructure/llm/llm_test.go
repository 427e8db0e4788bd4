package llm

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/generative-ai-go/genai"

	"kitab-ai-api/internal/config"
	apperrors "kitab-ai-api/pkg/errors"
)

func TestSplitMessages(t *testing.T) {
	system, turns := splitMessages([]*schema.Message{
		schema.SystemMessage("be precise"),
		nil,
		schema.UserMessage("write a book"),
		schema.SystemMessage("cite dalil"),
		schema.AssistantMessage("  ", nil),
		schema.AssistantMessage("ok", nil),
	})
	if system != "be precise\n\ncite dalil" {
		t.Fatalf("system = %q", system)
	}
	if len(turns) != 2 || turns[0].Role != schema.User || turns[1].Role != schema.Assistant {
		t.Fatalf("turns = %+v", turns)
	}
}

func TestResolveOptionsOverrides(t *testing.T) {
	o := resolveOptions("base-model", 0.7, 4096, model.WithModel("override"), model.WithMaxTokens(100))
	cfg := callbackConfig(o)
	if cfg.Model != "override" || cfg.MaxTokens != 100 || cfg.Temperature != 0.7 {
		t.Fatalf("config = %+v", cfg)
	}

	bare := callbackConfig(resolveOptions("m", 0, 0))
	if bare.Model != "m" || bare.MaxTokens != 0 || bare.Temperature != 0 {
		t.Fatalf("bare config = %+v", bare)
	}
}

func TestToGenaiSchema(t *testing.T) {
	in := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"title", "chapters"},
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "description": "Book title"},
			"chapters": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object", "required": []string{"title"}},
			},
			"kind": map[string]any{"type": "string", "enum": []any{"a", "b"}},
		},
	}
	got := toGenaiSchema(in)
	if got.Type != genai.TypeObject || len(got.Required) != 2 {
		t.Fatalf("root = %+v", got)
	}
	if got.Properties["title"].Description != "Book title" {
		t.Fatalf("title = %+v", got.Properties["title"])
	}
	ch := got.Properties["chapters"]
	if ch.Type != genai.TypeArray || ch.Items == nil || ch.Items.Type != genai.TypeObject || ch.Items.Required[0] != "title" {
		t.Fatalf("chapters = %+v", ch)
	}
	if len(got.Properties["kind"].Enum) != 2 {
		t.Fatalf("enum lost")
	}
	if toGenaiSchema(nil) != nil {
		t.Fatalf("nil schema should stay nil")
	}
}

func TestAnthropicParams(t *testing.T) {
	cfg := &model.Config{Model: "claude-3-5-sonnet-latest", MaxTokens: 1024, Temperature: 0.5}
	params, err := anthropicParams(cfg, []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("hello"),
	})
	if err != nil {
		t.Fatalf("anthropicParams: %v", err)
	}
	if params.MaxTokens.Value != 1024 || len(params.Messages.Value) != 1 || len(params.System.Value) != 1 {
		t.Fatalf("params = %+v", params)
	}

	if _, err := anthropicParams(cfg, []*schema.Message{schema.SystemMessage("only")}); err == nil {
		t.Fatalf("expected error without user content")
	}
}

func TestAnthropicMaxTokensDefault(t *testing.T) {
	m := NewAnthropicChatModel(config.ProviderConfig{APIKey: "k", Model: "claude-3-5-sonnet-latest"})
	if m.maxTokens != defaultAnthropicMaxTokens {
		t.Fatalf("constructor max tokens = %d", m.maxTokens)
	}

	// 调用方显式传入 0 时仍要发送正数
	cfg := callbackConfig(resolveOptions("claude-3-5-sonnet-latest", 0, m.maxTokens, model.WithMaxTokens(0)))
	params, err := anthropicParams(cfg, []*schema.Message{schema.UserMessage("hello")})
	if err != nil {
		t.Fatalf("anthropicParams: %v", err)
	}
	if params.MaxTokens.Value != defaultAnthropicMaxTokens {
		t.Fatalf("max_tokens = %d", params.MaxTokens.Value)
	}
}

func TestFactoryUnknownProvider(t *testing.T) {
	f := NewEinoFactory(&config.Config{LLM: config.LLMConfig{
		DefaultProvider: "main",
		Providers: map[string]config.ProviderConfig{
			"main": {Type: "cohere", APIKey: "k", Model: "m"},
		},
	}})
	if _, err := f.Get(context.Background(), "missing"); !apperrors.IsCode(err, apperrors.CodeConfigurationError) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := f.Default(context.Background()); !apperrors.IsCode(err, apperrors.CodeConfigurationError) {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
}

func TestFactoryCachesAnthropic(t *testing.T) {
	f := NewEinoFactory(&config.Config{LLM: config.LLMConfig{
		DefaultProvider: "claude",
		Providers: map[string]config.ProviderConfig{
			"claude": {Type: "anthropic", APIKey: "k", Model: "claude-3-5-sonnet-latest"},
		},
	}})
	a, err := f.Default(context.Background())
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	b, _ := f.Get(context.Background(), "claude")
	if a != b {
		t.Fatalf("factory did not cache model")
	}
	if _, ok := a.(*AnthropicChatModel); !ok {
		t.Fatalf("model type = %T", a)
	}
	f.Close()
}
