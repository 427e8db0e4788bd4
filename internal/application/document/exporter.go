package document

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"kitab-ai-api/internal/domain/entity"
	apperrors "kitab-ai-api/pkg/errors"
	"kitab-ai-api/pkg/logger"
	"kitab-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("document")

// ExportResult 导出结果
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Direction   Direction
}

// Exporter 组装 + 打包；不修改传入的书稿，失败后可原样重试
type Exporter struct {
	assembler *Assembler
	packer    Packer
}

// NewExporter 创建导出器
func NewExporter(assembler *Assembler, packer Packer) *Exporter {
	return &Exporter{assembler: assembler, packer: packer}
}

// Assemble 仅生成排版块树
func (e *Exporter) Assemble(book *entity.Book) *Document {
	return e.assembler.Assemble(book)
}

// Export 导出二进制文档；任何打包错误都包装为 ExportFailed
func (e *Exporter) Export(ctx context.Context, book *entity.Book) (*ExportResult, error) {
	ctx, span := tracer.Start(ctx, "document.Export")
	defer span.End()

	if book == nil {
		err := apperrors.ExportFailure(errors.New("book is nil"))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	doc := e.assembler.Assemble(book)
	dir := string(doc.Direction)
	span.SetAttributes(
		attribute.String("document.direction", dir),
		attribute.Int("document.blocks", len(doc.Blocks)),
	)

	data, err := e.packer.Pack(ctx, doc)
	if err != nil {
		metrics.BookExportTotal.WithLabelValues(dir, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error(ctx, "document export failed", err, "direction", dir)
		return nil, apperrors.ExportFailure(err)
	}

	metrics.BookExportTotal.WithLabelValues(dir, "success").Inc()
	metrics.BookExportBytes.Observe(float64(len(data)))

	filename := Filename(book.Title, e.assembler.Config().ProductTag)
	logger.Info(ctx, "document exported",
		"filename", filename,
		"direction", dir,
		"bytes", len(data),
	)

	return &ExportResult{
		Filename:    filename,
		ContentType: e.packer.ContentType(),
		Data:        data,
		Direction:   doc.Direction,
	}, nil
}
