package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	llmctx "kitab-ai-api/internal/domain/service"
	wfmodel "kitab-ai-api/internal/workflow/model"
	workflowport "kitab-ai-api/internal/workflow/port"
	workflowprompt "kitab-ai-api/internal/workflow/prompt"
	"kitab-ai-api/pkg/logger"
)

const (
	WorkflowBookGenerate = "book_generate"
	bookSchemaName       = "islamic_book"
)

// BookChain 书稿生成链：init -> template -> llm -> finalize。
// 每次 Invoke 只发起一次模型请求；是否携带 JSON Schema 由输入中的提供商能力决定，失败不重试。
type BookChain struct {
	factory workflowport.ChatModelFactory
	prompts *workflowprompt.Registry

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.BookGenerateInput, *schema.Message]
	chainErr  error
}

func NewBookChain(factory workflowport.ChatModelFactory, prompts *workflowprompt.Registry) *BookChain {
	if prompts == nil {
		prompts = workflowprompt.NewRegistry()
	}
	return &BookChain{factory: factory, prompts: prompts}
}

func (c *BookChain) Invoke(ctx context.Context, in *wfmodel.BookGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type bookChainState struct {
	In       *wfmodel.BookGenerateInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *BookChain) getChain() (compose.Runnable[*wfmodel.BookGenerateInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *BookChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.BookGenerateInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.BookGenerateInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.BookGenerateInput) (*bookChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			if strings.TrimSpace(in.Topic) == "" {
				return nil, fmt.Errorf("topic is required")
			}
			if in.ChapterCount <= 0 {
				return nil, fmt.Errorf("chapter_count is required")
			}
			return &bookChainState{In: in}, nil
		}),
		compose.WithNodeName("book.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *bookChainState) (*bookChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := c.formatMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("book.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *bookChainState) (*bookChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}

			provider := strings.TrimSpace(st.In.Provider)
			ctx = llmctx.WithWorkflowProvider(ctx, WorkflowBookGenerate, provider)
			chatModel, err := c.factory.Get(ctx, provider)
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildBookModelOptions(st.In)...)
			if err != nil {
				logger.Warn(ctx, "book llm call failed",
					"provider", provider,
					"structured_output", st.In.StructuredOutput,
					"error", err.Error(),
				)
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("book.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *bookChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("book.finalize"),
	)

	return chain.Compile(ctx)
}

func (c *BookChain) formatMessages(ctx context.Context, in *wfmodel.BookGenerateInput) ([]*schema.Message, error) {
	tpl, err := c.prompts.ChatTemplate(workflowprompt.PromptBookV1)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{
		"topic":           strings.TrimSpace(in.Topic),
		"author":          strings.TrimSpace(in.Author),
		"madzhab":         strings.TrimSpace(in.Madzhab),
		"audience":        strings.TrimSpace(in.Audience),
		"language":        strings.TrimSpace(in.Language),
		"page_count":      in.PageCount,
		"chapter_count":   in.ChapterCount,
		"section_words":   in.SectionWordTarget,
		"reference_count": in.ReferenceCount,
		"schema":          BookJSONSchemaText(in.ReferenceCount),
	}
	return tpl.Format(ctx, vars)
}

func buildBookModelOptions(in *wfmodel.BookGenerateInput) []model.Option {
	opts := make([]model.Option, 0, 5)
	if in == nil {
		return opts
	}

	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if m := strings.TrimSpace(in.Model); m != "" {
		opts = append(opts, model.WithModel(m))
	}

	if in.StructuredOutput {
		bookSchema := BookJSONSchema(in.ReferenceCount)
		opts = append(opts,
			openaiopts.WithExtraFields(map[string]any{
				"response_format": map[string]any{
					"type": "json_schema",
					"json_schema": map[string]any{
						"name":   bookSchemaName,
						"strict": false,
						"schema": bookSchema,
					},
				},
			}),
			workflowport.WithResponseSchema(bookSchemaName, bookSchema),
		)
	}

	return opts
}
