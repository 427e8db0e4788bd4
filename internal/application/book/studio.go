package book

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"kitab-ai-api/internal/application/document"
	"kitab-ai-api/internal/config"
	"kitab-ai-api/internal/domain/entity"
	"kitab-ai-api/internal/domain/repository"
	"kitab-ai-api/internal/domain/service"
	apperrors "kitab-ai-api/pkg/errors"
	"kitab-ai-api/pkg/logger"
	"kitab-ai-api/pkg/metrics"
)

const defaultMaxConcurrentGenerations = 4

// Studio 工作台：会话创建、生成、重置与导出。
// 同一会话同时只能有一个生成请求；全进程的生成并发由信号量限制。
type Studio struct {
	repo      repository.ManuscriptRepository
	generator Generator
	exporter  *document.Exporter
	sem       *semaphore.Weighted
	now       func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

var _ service.LLMUsageRecorder = (*Studio)(nil)

// NewStudio 创建工作台
func NewStudio(repo repository.ManuscriptRepository, generator Generator, exporter *document.Exporter, cfg *config.Config) *Studio {
	limit := int64(defaultMaxConcurrentGenerations)
	if cfg != nil && cfg.Studio.MaxConcurrentGenerations > 0 {
		limit = cfg.Studio.MaxConcurrentGenerations
	}
	return &Studio{
		repo:      repo,
		generator: generator,
		exporter:  exporter,
		sem:       semaphore.NewWeighted(limit),
		now:       time.Now,
		inFlight:  make(map[string]struct{}),
	}
}

// CreateSession 新建空会话
func (s *Studio) CreateSession(ctx context.Context) (*entity.Manuscript, error) {
	m := entity.NewManuscript(s.now().UTC())
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	metrics.StudioSessionsCreated.Inc()
	metrics.StudioActiveSessions.Set(float64(s.repo.Count(ctx)))
	logger.Info(withSession(ctx, m.ID), "studio session created")
	return m.Clone(), nil
}

// Get 读取会话
func (s *Studio) Get(ctx context.Context, id string) (*entity.Manuscript, error) {
	return s.repo.GetByID(ctx, id)
}

// Generate 提交参数并同步等待生成结束。
// 失败时清空书稿并回到可重新提交的状态，错误统一为 GenerationFailed。
func (s *Studio) Generate(ctx context.Context, id string, params entity.GenerationParameters) (*entity.Manuscript, error) {
	params = params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	ctx = withSession(ctx, id)

	if err := s.begin(ctx, id, params); err != nil {
		return nil, err
	}
	defer s.finish(id)

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return s.complete(ctx, id, nil, apperrors.GenerationFailure(err))
	}
	out, err := s.runGenerator(ctx, params)
	return s.complete(ctx, id, out, err)
}

// runGenerator 持有信号量调用生成器，生成器 panic 视为一次生成失败
func (s *Studio) runGenerator(ctx context.Context, params entity.GenerationParameters) (out *GenerateOutput, err error) {
	defer s.sem.Release(1)
	metrics.StudioGenerationsInFlight.Inc()
	defer metrics.StudioGenerationsInFlight.Dec()
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "studio generator panic", fmt.Errorf("%v", r), "stack", string(debug.Stack()))
			out, err = nil, apperrors.GenerationFailure(fmt.Errorf("generator panic: %v", r))
		}
	}()
	return s.generator.Generate(ctx, params)
}

// begin 占用会话的生成槽位并写入 generating 状态
func (s *Studio) begin(ctx context.Context, id string, params entity.GenerationParameters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, busy := s.inFlight[id]; busy || m.IsGenerating() {
		return apperrors.ErrGenerationInProgress
	}
	m.MarkGenerating(params, s.now().UTC())
	if err := s.repo.Update(ctx, m); err != nil {
		return err
	}
	s.inFlight[id] = struct{}{}
	return nil
}

func (s *Studio) finish(id string) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}

// complete 重新读取会话后落结果，生成期间累计的用量得以保留
func (s *Studio) complete(ctx context.Context, id string, out *GenerateOutput, genErr error) (*entity.Manuscript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	if genErr == nil && (out == nil || out.Book == nil) {
		genErr = apperrors.GenerationFailure(nil)
	}
	if genErr != nil {
		if !apperrors.IsAppError(genErr) {
			genErr = apperrors.GenerationFailure(genErr)
		}
		m.MarkFailed(apperrors.AsAppError(genErr).Message, now)
		if err := s.repo.Update(ctx, m); err != nil {
			return nil, err
		}
		logger.Warn(ctx, "studio generation failed", "error", genErr.Error())
		return nil, genErr
	}

	m.MarkReady(out.Book.Clone(), now)
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	logger.Info(ctx, "studio generation completed", "chapters", len(out.Book.Chapters))
	return m.Clone(), nil
}

// Reset 丢弃参数与书稿；生成中不允许重置
func (s *Studio) Reset(ctx context.Context, id string) (*entity.Manuscript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, busy := s.inFlight[id]; busy || m.IsGenerating() {
		return nil, apperrors.ErrGenerationInProgress
	}
	m.Reset(s.now().UTC())
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	logger.Info(withSession(ctx, id), "studio session reset")
	return m.Clone(), nil
}

// Document 返回已生成书稿的排版块树
func (s *Studio) Document(ctx context.Context, id string) (*document.Document, error) {
	m, err := s.readyManuscript(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.exporter.Assemble(m.Book), nil
}

// Export 导出已生成书稿；失败不影响会话状态，可直接重试
func (s *Studio) Export(ctx context.Context, id string) (*document.ExportResult, error) {
	m, err := s.readyManuscript(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.exporter.Export(withSession(ctx, id), m.Book)
}

// ExportBook 无状态导出：校验调用方提供的书稿后直接打包
func (s *Studio) ExportBook(ctx context.Context, b *entity.Book) (*document.ExportResult, error) {
	if err := ValidateBook(b); err != nil {
		return nil, apperrors.ErrInvalidParam.WithDetail(err.Error())
	}
	return s.exporter.Export(ctx, b.Clone())
}

// DeleteSession 主动结束会话
func (s *Studio) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return apperrors.ErrGenerationInProgress
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.StudioActiveSessions.Set(float64(s.repo.Count(ctx)))
	logger.Info(withSession(ctx, id), "studio session deleted")
	return nil
}

// ActiveSessions 当前存活的会话数
func (s *Studio) ActiveSessions(ctx context.Context) int {
	return s.repo.Count(ctx)
}

// Record 实现 LLMUsageRecorder，把用量累计到所属会话
func (s *Studio) Record(ctx context.Context, in service.LLMUsageInput) error {
	if in.SessionID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.repo.GetByID(ctx, in.SessionID)
	if err != nil {
		return err
	}
	m.Usage.Add(in.PromptTokens, in.CompletionTokens)
	return s.repo.Update(ctx, m)
}

func (s *Studio) readyManuscript(ctx context.Context, id string) (*entity.Manuscript, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.HasBook() {
		return nil, apperrors.ErrBookNotReady
	}
	return m, nil
}

func withSession(ctx context.Context, id string) context.Context {
	ctx = service.WithSession(ctx, id)
	return context.WithValue(ctx, logger.SessionIDKey, id)
}
