package port

import "github.com/cloudwego/eino/components/model"

// StructuredOutputOptions 与提供商无关的结构化输出约束。
// OpenAI 兼容接口走 response_format，其它适配器通过 GetStructuredOutput 自行读取。
type StructuredOutputOptions struct {
	Name   string
	Schema map[string]any
}

// WithResponseSchema 要求模型按 JSON Schema 返回
func WithResponseSchema(name string, schema map[string]any) model.Option {
	return model.WrapImplSpecificOptFn(func(o *StructuredOutputOptions) {
		o.Name = name
		o.Schema = schema
	})
}

// GetStructuredOutput 取出结构化输出约束；未设置时 Schema 为 nil
func GetStructuredOutput(opts ...model.Option) *StructuredOutputOptions {
	return model.GetImplSpecificOptions(&StructuredOutputOptions{}, opts...)
}
