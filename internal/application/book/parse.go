package book

import (
	"encoding/json"
	"fmt"
	"strings"

	"kitab-ai-api/internal/domain/entity"
	wfnode "kitab-ai-api/internal/workflow/node"
)

// ParseBook 从模型输出中解析书稿，并返回截取后的 JSON 文本
func ParseBook(rawText string) (*entity.Book, string, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, "", fmt.Errorf("empty book output")
	}
	jsonText, ok := wfnode.ExtractJSONObject(rawText)
	if !ok {
		return nil, "", fmt.Errorf("no json object in book output")
	}

	var b entity.Book
	if err := json.Unmarshal([]byte(jsonText), &b); err != nil {
		return nil, jsonText, fmt.Errorf("failed to parse book json: %w", err)
	}
	return &b, jsonText, nil
}

// BookValidationError 结构不满足要求时的全部问题
type BookValidationError struct {
	Issues []string
}

func (e BookValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "book validation failed"
	}
	return "book validation failed: " + strings.Join(e.Issues, "; ")
}

// ValidateBook 校验必需字段与章节层级；章数与参考文献条数不做校验
func ValidateBook(b *entity.Book) error {
	if b == nil {
		return BookValidationError{Issues: []string{"book is nil"}}
	}

	var issues []string
	if strings.TrimSpace(b.Title) == "" {
		issues = append(issues, "title is required")
	}
	if len(b.Chapters) == 0 {
		issues = append(issues, "chapters must not be empty")
	}
	for i, ch := range b.Chapters {
		path := fmt.Sprintf("chapters[%d]", i)
		if strings.TrimSpace(ch.Title) == "" {
			issues = append(issues, path+".title is required")
		}
		if len(ch.Sections) == 0 {
			issues = append(issues, path+".sections must not be empty")
		}
		for j, sec := range ch.Sections {
			sPath := fmt.Sprintf("%s.sections[%d]", path, j)
			if strings.TrimSpace(sec.Title) == "" {
				issues = append(issues, sPath+".title is required")
			}
			if strings.TrimSpace(sec.Content) == "" {
				issues = append(issues, sPath+".content is required")
			}
		}
	}

	if len(issues) > 0 {
		return BookValidationError{Issues: issues}
	}
	return nil
}
