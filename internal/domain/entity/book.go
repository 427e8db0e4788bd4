// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"

	apperrors "kitab-ai-api/pkg/errors"
)

// 生成参数取值范围
const (
	MinPageCount      = 1
	MaxPageCount      = 100
	MinReferenceCount = 1
	MaxReferenceCount = 50

	DefaultMadzhab  = "General"
	DefaultAudience = "General"
)

// GenerationParameters 一次书稿生成请求的参数，提交后不可变
type GenerationParameters struct {
	Topic             string `json:"topic"`
	Author            string `json:"author"`
	Madzhab           string `json:"madzhab"`
	Audience          string `json:"audience"`
	IncludeMultimedia bool   `json:"include_multimedia"`
	PageCount         int    `json:"page_count"`
	ReferenceCount    int    `json:"reference_count"`
	Language          string `json:"language"`
}

// Normalize 去除首尾空白并补齐可选标签
func (p GenerationParameters) Normalize() GenerationParameters {
	p.Topic = strings.TrimSpace(p.Topic)
	p.Author = strings.TrimSpace(p.Author)
	p.Madzhab = strings.TrimSpace(p.Madzhab)
	p.Audience = strings.TrimSpace(p.Audience)
	p.Language = strings.TrimSpace(p.Language)
	if p.Madzhab == "" {
		p.Madzhab = DefaultMadzhab
	}
	if p.Audience == "" {
		p.Audience = DefaultAudience
	}
	return p
}

// Validate 一次性返回所有不合法的字段
func (p GenerationParameters) Validate() error {
	var issues []string
	if strings.TrimSpace(p.Topic) == "" {
		issues = append(issues, "topic is required")
	}
	if strings.TrimSpace(p.Author) == "" {
		issues = append(issues, "author is required")
	}
	if strings.TrimSpace(p.Language) == "" {
		issues = append(issues, "language is required")
	}
	if p.PageCount < MinPageCount || p.PageCount > MaxPageCount {
		issues = append(issues, fmt.Sprintf("page_count must be between %d and %d", MinPageCount, MaxPageCount))
	}
	if p.ReferenceCount < MinReferenceCount || p.ReferenceCount > MaxReferenceCount {
		issues = append(issues, fmt.Sprintf("reference_count must be between %d and %d", MinReferenceCount, MaxReferenceCount))
	}
	if len(issues) == 0 {
		return nil
	}
	return apperrors.ErrInvalidParam.WithDetail(strings.Join(issues, "; "))
}

// Book 一次生成调用产出的完整书稿
type Book struct {
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	Author     string    `json:"author"`
	Abstract   string    `json:"abstract"`
	Language   string    `json:"language"`
	Chapters   []Chapter `json:"chapters"`
	References []string  `json:"references"`
}

// Chapter 章；顺序即阅读顺序与目录顺序
type Chapter struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section 节；Content 可能含轻量 Markdown，排版前需清洗
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Clone 深拷贝，避免多个会话共享切片
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	cp := *b
	cp.Chapters = make([]Chapter, len(b.Chapters))
	for i, ch := range b.Chapters {
		cp.Chapters[i] = Chapter{
			Title:    ch.Title,
			Sections: append([]Section(nil), ch.Sections...),
		}
	}
	cp.References = append([]string(nil), b.References...)
	return &cp
}

// SectionCount 全书小节数
func (b *Book) SectionCount() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, ch := range b.Chapters {
		n += len(ch.Sections)
	}
	return n
}
