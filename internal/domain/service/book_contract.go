// Package service 领域服务：跨层共享的稳定契约与纯函数规则
package service

import "strings"

// 章节数与篇幅档位
const (
	MinChapterCount   = 3
	PagesPerChapter   = 4
	LongBookPageCount = 30

	LongSectionWords  = "800–1000 words"
	ShortSectionWords = "500–700 words"
)

// ChapterCount 目标章数：max(3, ceil(pages/4))
func ChapterCount(pageCount int) int {
	n := (pageCount + PagesPerChapter - 1) / PagesPerChapter
	if n < MinChapterCount {
		return MinChapterCount
	}
	return n
}

// SectionWordTarget 每节字数指引，仅作为提示词约束
func SectionWordTarget(pageCount int) string {
	if pageCount > LongBookPageCount {
		return LongSectionWords
	}
	return ShortSectionWords
}

// IsRightToLeft 语言是否按从右到左排版
func IsRightToLeft(language, rtlTag string) bool {
	tag := strings.TrimSpace(rtlTag)
	if tag == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(language), tag)
}
