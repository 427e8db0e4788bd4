package book

import (
	"context"
	"errors"
	"testing"
	"time"

	"kitab-ai-api/internal/application/document"
	"kitab-ai-api/internal/domain/entity"
	"kitab-ai-api/internal/domain/service"
	"kitab-ai-api/internal/infrastructure/persistence/memory"
	apperrors "kitab-ai-api/pkg/errors"
)

type fakeGenerator struct {
	calls   int
	err     error
	block   chan struct{}
	started chan struct{}
}

func (g *fakeGenerator) Generate(ctx context.Context, params entity.GenerationParameters) (*GenerateOutput, error) {
	g.calls++
	if g.started != nil {
		close(g.started)
	}
	if g.block != nil {
		<-g.block
	}
	if g.err != nil {
		return nil, apperrors.GenerationFailure(g.err)
	}
	b, _, err := ParseBook(fixtureBookJSON(true))
	if err != nil {
		return nil, err
	}
	b.Title = params.Topic
	return &GenerateOutput{Book: b}, nil
}

func newTestStudio(gen Generator, packer document.Packer) *Studio {
	cfg := testConfig()
	exporter := document.NewExporter(document.NewAssembler(cfg.Book), packer)
	repo := memory.NewManuscriptRepository(time.Hour, time.Minute)
	return NewStudio(repo, gen, exporter, cfg)
}

func TestStudioGenerateAndExport(t *testing.T) {
	ctx := context.Background()
	st := newTestStudio(&fakeGenerator{}, &stubPacker{})

	sess, err := st.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := st.Export(ctx, sess.ID); !apperrors.IsCode(err, apperrors.CodeBookNotReady) {
		t.Fatalf("export before generate: %v", err)
	}

	m, err := st.Generate(ctx, sess.ID, scenarioParams())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if m.Status != entity.ManuscriptStatusReady || m.Book == nil {
		t.Fatalf("manuscript = %+v", m)
	}

	doc, err := st.Document(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if len(doc.Headings()) == 0 {
		t.Fatalf("document has no headings")
	}

	res, err := st.Export(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.Filename != "Zakat_on_Digital_Assets_KitabAI.docx" {
		t.Fatalf("filename = %q", res.Filename)
	}
}

func TestStudioUnknownSession(t *testing.T) {
	st := newTestStudio(&fakeGenerator{}, &stubPacker{})
	if _, err := st.Get(context.Background(), "missing"); !apperrors.IsCode(err, apperrors.CodeSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
	if _, err := st.Generate(context.Background(), "missing", scenarioParams()); !apperrors.IsCode(err, apperrors.CodeSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}

func TestStudioFailureReturnsToInput(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{err: errors.New("upstream 500")}
	st := newTestStudio(gen, &stubPacker{})
	sess, _ := st.CreateSession(ctx)

	if _, err := st.Generate(ctx, sess.ID, scenarioParams()); !apperrors.IsCode(err, apperrors.CodeGenerationFailed) {
		t.Fatalf("expected generation failure, got %v", err)
	}
	m, _ := st.Get(ctx, sess.ID)
	if m.Status != entity.ManuscriptStatusFailed || m.Book != nil {
		t.Fatalf("failed session = %+v", m)
	}
	if m.LastError != "book generation failed" {
		t.Fatalf("last error leaks detail: %q", m.LastError)
	}

	gen.err = nil
	if _, err := st.Generate(ctx, sess.ID, scenarioParams()); err != nil {
		t.Fatalf("user retry failed: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("generator calls = %d", gen.calls)
	}
}

func TestStudioRejectsConcurrentGeneration(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{block: make(chan struct{}), started: make(chan struct{})}
	st := newTestStudio(gen, &stubPacker{})
	sess, _ := st.CreateSession(ctx)

	done := make(chan error, 1)
	go func() {
		_, err := st.Generate(ctx, sess.ID, scenarioParams())
		done <- err
	}()
	<-gen.started

	if _, err := st.Generate(ctx, sess.ID, scenarioParams()); !apperrors.IsCode(err, apperrors.CodeGenerationInProgress) {
		t.Fatalf("expected in-progress rejection, got %v", err)
	}
	if _, err := st.Reset(ctx, sess.ID); !apperrors.IsCode(err, apperrors.CodeGenerationInProgress) {
		t.Fatalf("reset during generation: %v", err)
	}
	m, _ := st.Get(ctx, sess.ID)
	if !m.IsGenerating() {
		t.Fatalf("status = %s", m.Status)
	}

	close(gen.block)
	if err := <-done; err != nil {
		t.Fatalf("first generation: %v", err)
	}
}

func TestStudioResetThenRegenerate(t *testing.T) {
	ctx := context.Background()
	st := newTestStudio(&fakeGenerator{}, &stubPacker{})
	sess, _ := st.CreateSession(ctx)

	first, err := st.Generate(ctx, sess.ID, scenarioParams())
	if err != nil {
		t.Fatal(err)
	}
	reset, err := st.Reset(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reset.Book != nil || reset.Params != nil || reset.Status != entity.ManuscriptStatusIdle {
		t.Fatalf("reset = %+v", reset)
	}

	second, err := st.Generate(ctx, sess.ID, scenarioParams())
	if err != nil {
		t.Fatal(err)
	}
	second.Book.Chapters[0].Title = "changed"
	if first.Book.Chapters[0].Title == "changed" {
		t.Fatalf("books share state across generations")
	}
	stored, _ := st.Get(ctx, sess.ID)
	if stored.Book.Chapters[0].Title == "changed" {
		t.Fatalf("returned book aliases stored book")
	}
}

// panicOnceGenerator 第一次调用 panic，之后委托给 next
type panicOnceGenerator struct {
	panicked bool
	next     Generator
}

func (g *panicOnceGenerator) Generate(ctx context.Context, params entity.GenerationParameters) (*GenerateOutput, error) {
	if !g.panicked {
		g.panicked = true
		panic("nil map write in provider adapter")
	}
	return g.next.Generate(ctx, params)
}

func TestStudioGeneratorPanicFailsSession(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Studio.MaxConcurrentGenerations = 1
	exporter := document.NewExporter(document.NewAssembler(cfg.Book), &stubPacker{})
	st := NewStudio(memory.NewManuscriptRepository(time.Hour, time.Minute),
		&panicOnceGenerator{next: &fakeGenerator{}}, exporter, cfg)
	sess, _ := st.CreateSession(ctx)

	if _, err := st.Generate(ctx, sess.ID, scenarioParams()); !apperrors.IsCode(err, apperrors.CodeGenerationFailed) {
		t.Fatalf("Generate after panic: %v", err)
	}
	stored, _ := st.Get(ctx, sess.ID)
	if stored.Status != entity.ManuscriptStatusFailed || stored.Book != nil {
		t.Fatalf("manuscript after panic = %+v", stored)
	}

	if _, err := st.Reset(ctx, sess.ID); err != nil {
		t.Fatalf("Reset after panic: %v", err)
	}
	// 并发上限为 1，信号量未释放时这里会一直阻塞到超时
	tctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	m, err := st.Generate(tctx, sess.ID, scenarioParams())
	if err != nil {
		t.Fatalf("regenerate after panic: %v", err)
	}
	if m.Status != entity.ManuscriptStatusReady {
		t.Fatalf("status = %s", m.Status)
	}
}

func TestStudioExportFailureKeepsBook(t *testing.T) {
	ctx := context.Background()
	packer := &stubPacker{}
	st := newTestStudio(&fakeGenerator{}, packer)
	sess, _ := st.CreateSession(ctx)
	if _, err := st.Generate(ctx, sess.ID, scenarioParams()); err != nil {
		t.Fatal(err)
	}

	packer.setErr(errors.New("packer crashed"))
	if _, err := st.Export(ctx, sess.ID); !apperrors.IsCode(err, apperrors.CodeExportFailed) {
		t.Fatalf("expected export failure, got %v", err)
	}
	m, _ := st.Get(ctx, sess.ID)
	if !m.HasBook() {
		t.Fatalf("export failure discarded the book")
	}

	packer.setErr(nil)
	if _, err := st.Export(ctx, sess.ID); err != nil {
		t.Fatalf("export retry: %v", err)
	}
}

func TestStudioRecordsUsage(t *testing.T) {
	ctx := context.Background()
	st := newTestStudio(&fakeGenerator{}, &stubPacker{})
	sess, _ := st.CreateSession(ctx)

	if err := st.Record(ctx, service.LLMUsageInput{SessionID: sess.ID, PromptTokens: 10, CompletionTokens: 30}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := st.Record(ctx, service.LLMUsageInput{PromptTokens: 99}); err != nil {
		t.Fatalf("Record without session: %v", err)
	}
	m, _ := st.Get(ctx, sess.ID)
	if m.Usage.Calls != 1 || m.Usage.PromptTokens != 10 || m.Usage.CompletionTokens != 30 {
		t.Fatalf("usage = %+v", m.Usage)
	}
}

func TestStudioExportBookValidates(t *testing.T) {
	st := newTestStudio(&fakeGenerator{}, &stubPacker{})
	if _, err := st.ExportBook(context.Background(), &entity.Book{Title: "T"}); !apperrors.IsCode(err, apperrors.CodeInvalidParam) {
		t.Fatalf("expected invalid param, got %v", err)
	}
	b, _, _ := ParseBook(fixtureBookJSON(true))
	if _, err := st.ExportBook(context.Background(), b); err != nil {
		t.Fatalf("ExportBook: %v", err)
	}
}
