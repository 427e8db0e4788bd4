package entity

import (
	"time"

	"github.com/google/uuid"
)

// ManuscriptStatus 工作台会话状态
type ManuscriptStatus string

const (
	ManuscriptStatusIdle       ManuscriptStatus = "idle"
	ManuscriptStatusGenerating ManuscriptStatus = "generating"
	ManuscriptStatusReady      ManuscriptStatus = "ready"
	ManuscriptStatusFailed     ManuscriptStatus = "failed"
)

// Manuscript 一个书稿工作台会话，仅存在于进程内存中
type Manuscript struct {
	ID          string                `json:"id"`
	Status      ManuscriptStatus      `json:"status"`
	Params      *GenerationParameters `json:"params,omitempty"`
	Book        *Book                 `json:"book,omitempty"`
	LastError   string                `json:"last_error,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	GeneratedAt *time.Time            `json:"generated_at,omitempty"`
	Usage       TokenUsage            `json:"usage"`
}

// TokenUsage 会话内累计的 LLM 用量
type TokenUsage struct {
	Calls            int `json:"calls"`
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Add 累加一次调用
func (u *TokenUsage) Add(prompt, completion int) {
	u.Calls++
	u.PromptTokens += prompt
	u.CompletionTokens += completion
}

// NewManuscript 创建空会话
func NewManuscript(now time.Time) *Manuscript {
	return &Manuscript{
		ID:        uuid.NewString(),
		Status:    ManuscriptStatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsGenerating 是否处于生成中
func (m *Manuscript) IsGenerating() bool {
	return m != nil && m.Status == ManuscriptStatusGenerating
}

// HasBook 是否已有可导出的书稿
func (m *Manuscript) HasBook() bool {
	return m != nil && m.Status == ManuscriptStatusReady && m.Book != nil
}

// MarkGenerating 进入生成中；旧结果被丢弃
func (m *Manuscript) MarkGenerating(params GenerationParameters, now time.Time) {
	p := params
	m.Params = &p
	m.Book = nil
	m.LastError = ""
	m.GeneratedAt = nil
	m.Status = ManuscriptStatusGenerating
	m.UpdatedAt = now
}

// MarkReady 生成成功
func (m *Manuscript) MarkReady(book *Book, now time.Time) {
	m.Book = book
	m.LastError = ""
	m.Status = ManuscriptStatusReady
	m.UpdatedAt = now
	t := now
	m.GeneratedAt = &t
}

// MarkFailed 生成失败，回到可重新提交的输入态
func (m *Manuscript) MarkFailed(message string, now time.Time) {
	m.Book = nil
	m.LastError = message
	m.Status = ManuscriptStatusFailed
	m.UpdatedAt = now
}

// Reset 清空参数与书稿
func (m *Manuscript) Reset(now time.Time) {
	m.Params = nil
	m.Book = nil
	m.LastError = ""
	m.GeneratedAt = nil
	m.Usage = TokenUsage{}
	m.Status = ManuscriptStatusIdle
	m.UpdatedAt = now
}

// Clone 深拷贝；仓储读写都经过拷贝，调用方修改不会泄漏到存储
func (m *Manuscript) Clone() *Manuscript {
	if m == nil {
		return nil
	}
	cp := *m
	if m.Params != nil {
		p := *m.Params
		cp.Params = &p
	}
	cp.Book = m.Book.Clone()
	if m.GeneratedAt != nil {
		t := *m.GeneratedAt
		cp.GeneratedAt = &t
	}
	return &cp
}
