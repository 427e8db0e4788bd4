// Package memory 进程内存储：会话到期即丢弃，进程重启不保留任何数据
package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"kitab-ai-api/internal/domain/entity"
	"kitab-ai-api/internal/domain/repository"
	apperrors "kitab-ai-api/pkg/errors"
)

const keyPrefix = "manuscript:"

// ManuscriptRepository 基于 go-cache 的会话仓储，读写都做深拷贝
type ManuscriptRepository struct {
	store *gocache.Cache
	ttl   time.Duration
}

var _ repository.ManuscriptRepository = (*ManuscriptRepository)(nil)

// NewManuscriptRepository ttl<=0 表示永不过期
func NewManuscriptRepository(ttl, cleanupInterval time.Duration) *ManuscriptRepository {
	expiration := ttl
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	return &ManuscriptRepository{
		store: gocache.New(expiration, cleanupInterval),
		ttl:   expiration,
	}
}

func (r *ManuscriptRepository) Create(_ context.Context, m *entity.Manuscript) error {
	if m == nil || m.ID == "" {
		return apperrors.ErrInvalidParam.WithDetail("manuscript id is required")
	}
	if err := r.store.Add(keyPrefix+m.ID, m.Clone(), r.ttl); err != nil {
		return apperrors.New(apperrors.CodeConflict, "session already exists").WithDetail(m.ID)
	}
	return nil
}

func (r *ManuscriptRepository) GetByID(_ context.Context, id string) (*entity.Manuscript, error) {
	v, ok := r.store.Get(keyPrefix + id)
	if !ok {
		return nil, apperrors.ErrSessionNotFound.WithDetail(id)
	}
	m, ok := v.(*entity.Manuscript)
	if !ok {
		return nil, apperrors.ErrSessionNotFound.WithDetail(id)
	}
	return m.Clone(), nil
}

// Update 仅更新已存在的会话；同时刷新过期时间
func (r *ManuscriptRepository) Update(_ context.Context, m *entity.Manuscript) error {
	if m == nil {
		return apperrors.ErrInvalidParam.WithDetail("manuscript is nil")
	}
	if err := r.store.Replace(keyPrefix+m.ID, m.Clone(), r.ttl); err != nil {
		return apperrors.ErrSessionNotFound.WithDetail(m.ID)
	}
	return nil
}

func (r *ManuscriptRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.store.Get(keyPrefix + id); !ok {
		return apperrors.ErrSessionNotFound.WithDetail(id)
	}
	r.store.Delete(keyPrefix + id)
	return nil
}

func (r *ManuscriptRepository) Count(_ context.Context) int {
	return r.store.ItemCount()
}
