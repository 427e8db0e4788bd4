package chain

import (
	"encoding/json"
	"fmt"
)

// BookJSONSchema 书稿响应的 JSON Schema。
// 参考文献条数只写进描述，由模型尽力满足，不做硬约束。
func BookJSONSchema(referenceCount int) map[string]any {
	str := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}

	section := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"title", "content"},
		"properties": map[string]any{
			"title":   str("Section title"),
			"content": str("Section body as plain paragraphs separated by newlines, with inline dalil"),
		},
	}
	chapter := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"title", "sections"},
		"properties": map[string]any{
			"title": str("Chapter title"),
			"sections": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    section,
			},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"title", "subtitle", "author", "abstract", "language", "chapters", "references"},
		"properties": map[string]any{
			"title":    str("Book title"),
			"subtitle": str("Book subtitle"),
			"author":   str("Author name"),
			"abstract": str("Abstract of the whole book"),
			"language": str("Output language of the book"),
			"chapters": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    chapter,
			},
			"references": map[string]any{
				"type":        "array",
				"description": fmt.Sprintf("Exactly %d bibliographic references", referenceCount),
				"items":       map[string]any{"type": "string"},
			},
		},
	}
}

// BookJSONSchemaText 以缩进 JSON 形式嵌入提示词
func BookJSONSchemaText(referenceCount int) string {
	b, err := json.MarshalIndent(BookJSONSchema(referenceCount), "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}
