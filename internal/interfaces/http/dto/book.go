package dto

import (
	"time"

	"kitab-ai-api/internal/domain/entity"
)

// GenerateBookRequest 生成请求；字段校验统一由领域层完成，一次返回全部问题
type GenerateBookRequest struct {
	Topic             string `json:"topic"`
	Author            string `json:"author"`
	Madzhab           string `json:"madzhab"`
	Audience          string `json:"audience"`
	IncludeMultimedia bool   `json:"include_multimedia"`
	PageCount         int    `json:"page_count"`
	ReferenceCount    int    `json:"reference_count"`
	Language          string `json:"language"`
}

// ToParams 转换为生成参数
func (r *GenerateBookRequest) ToParams() entity.GenerationParameters {
	return entity.GenerationParameters{
		Topic:             r.Topic,
		Author:            r.Author,
		Madzhab:           r.Madzhab,
		Audience:          r.Audience,
		IncludeMultimedia: r.IncludeMultimedia,
		PageCount:         r.PageCount,
		ReferenceCount:    r.ReferenceCount,
		Language:          r.Language,
	}
}

// SessionResponse 会话状态
type SessionResponse struct {
	ID          string                       `json:"id"`
	Status      entity.ManuscriptStatus      `json:"status"`
	Params      *entity.GenerationParameters `json:"params,omitempty"`
	Book        *entity.Book                 `json:"book,omitempty"`
	LastError   string                       `json:"last_error,omitempty"`
	Usage       entity.TokenUsage            `json:"usage"`
	CreatedAt   string                       `json:"created_at"`
	UpdatedAt   string                       `json:"updated_at"`
	GeneratedAt string                       `json:"generated_at,omitempty"`
}

// ToSessionResponse 转换会话
func ToSessionResponse(m *entity.Manuscript) *SessionResponse {
	if m == nil {
		return nil
	}
	resp := &SessionResponse{
		ID:        m.ID,
		Status:    m.Status,
		Params:    m.Params,
		Book:      m.Book,
		LastError: m.LastError,
		Usage:     m.Usage,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.Format(time.RFC3339),
	}
	if m.GeneratedAt != nil {
		resp.GeneratedAt = m.GeneratedAt.Format(time.RFC3339)
	}
	return resp
}
