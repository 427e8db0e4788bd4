// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"kitab-ai-api/internal/domain/entity"
)

// ManuscriptRepository 工作台会话存储。
// 读写均为值拷贝；找不到会话时返回 ErrSessionNotFound。
type ManuscriptRepository interface {
	Create(ctx context.Context, m *entity.Manuscript) error
	GetByID(ctx context.Context, id string) (*entity.Manuscript, error)
	Update(ctx context.Context, m *entity.Manuscript) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) int
}
