package model

// BookGenerateInput 书稿生成链输入。
// ChapterCount / SectionWordTarget 由调用方按生成参数推导后填入。
type BookGenerateInput struct {
	Topic          string
	Author         string
	Madzhab        string
	Audience       string
	Language       string
	PageCount      int
	ReferenceCount int

	ChapterCount      int
	SectionWordTarget string

	Provider string
	Model    string
	// StructuredOutput 为 true 时请求携带 JSON Schema，否则只靠提示词约束
	StructuredOutput bool

	Temperature *float32
	MaxTokens   *int
}
