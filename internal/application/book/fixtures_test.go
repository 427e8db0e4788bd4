package book

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"kitab-ai-api/internal/application/document"
	"kitab-ai-api/internal/config"
	"kitab-ai-api/internal/domain/entity"
)

func scenarioParams() entity.GenerationParameters {
	return entity.GenerationParameters{
		Topic:          "Zakat on Digital Assets",
		Author:         "A. Example",
		PageCount:      8,
		ReferenceCount: 5,
		Language:       "English",
	}
}

func fixtureBookJSON(withLanguage bool) string {
	b := map[string]any{
		"title":    "Zakat on Digital Assets",
		"subtitle": "A Contemporary Study",
		"author":   "A. Example",
		"abstract": "An overview.",
		"chapters": []map[string]any{
			{"title": "Foundations", "sections": []map[string]any{
				{"title": "Definition", "content": "Zakat is an obligation (Quran 9:60)."},
			}},
			{"title": "Assets", "sections": []map[string]any{
				{"title": "Crypto", "content": "**Ruling** on tokens."},
			}},
			{"title": "Practice", "sections": []map[string]any{
				{"title": "Calculation", "content": "Nisab and hawl."},
			}},
		},
		"references": []string{"R1", "R2", "R3", "R4", "R5"},
	}
	if withLanguage {
		b["language"] = "English"
	}
	out, _ := json.Marshal(b)
	return string(out)
}

type replyModel struct {
	mu      sync.Mutex
	content string
	err     error
	usage   *schema.TokenUsage
	calls   int
	opts    []model.Option
}

func (m *replyModel) Generate(_ context.Context, _ []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	msg := schema.AssistantMessage(m.content, nil)
	if m.usage != nil {
		msg.ResponseMeta = &schema.ResponseMeta{Usage: m.usage}
	}
	return msg, nil
}

func (m *replyModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, in, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

type modelFactory struct {
	m model.BaseChatModel
}

func (f modelFactory) Get(context.Context, string) (model.BaseChatModel, error) {
	return f.m, nil
}

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "gemini",
			Providers: map[string]config.ProviderConfig{
				"gemini": {Type: "gemini", APIKey: "k", Model: "gemini-1.5-pro", Temperature: 0.7},
			},
		},
		Book: config.BookConfig{
			RTLLanguage: "Arabic",
			ProductTag:  "KitabAI",
			Labels:      config.BookLabels{References: "References", PagePrefix: "Page ", PageInfix: " of "},
			Style:       config.StyleConfig{LatinFont: "Times New Roman", RTLFont: "Traditional Arabic", MarginCm: 2.5, BodySizePt: 12},
		},
		Studio: config.StudioConfig{MaxConcurrentGenerations: 2},
	}
}

type stubPacker struct {
	mu  sync.Mutex
	err error
}

func (p *stubPacker) Pack(context.Context, *document.Document) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return []byte("PK\x03\x04"), nil
}

func (p *stubPacker) ContentType() string { return document.DocxContentType }

func (p *stubPacker) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}
