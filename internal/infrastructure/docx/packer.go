// Package docx 将排版块树写成 OOXML WordprocessingML（.docx）容器
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"kitab-ai-api/internal/application/document"
)

var tracer = otel.Tracer("docx")

// Packer DOCX 打包器，实现 document.Packer
type Packer struct {
	now func() time.Time
}

// Option 打包器选项
type Option func(*Packer)

// WithClock 注入时钟，用于文档属性与 zip 条目时间
func WithClock(now func() time.Time) Option {
	return func(p *Packer) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPacker 创建打包器
func NewPacker(opts ...Option) *Packer {
	p := &Packer{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ document.Packer = (*Packer)(nil)

// ContentType 返回 DOCX MIME 类型
func (p *Packer) ContentType() string {
	return document.DocxContentType
}

type part struct {
	name string
	body func() ([]byte, error)
}

// Pack 序列化文档；ctx 取消时中止
func (p *Packer) Pack(ctx context.Context, doc *document.Document) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "docx.Pack")
	defer span.End()

	data, err := p.pack(ctx, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("docx.bytes", len(data)))
	return data, nil
}

func (p *Packer) pack(ctx context.Context, doc *document.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("docx: document is nil")
	}
	now := p.now().UTC()

	parts := []part{
		{"[Content_Types].xml", static(contentTypesXML)},
		{"_rels/.rels", static(packageRelsXML)},
		{"docProps/core.xml", func() ([]byte, error) { return marshalPart(coreProps(doc, now)) }},
		{"docProps/app.xml", static(appXML)},
		{"word/_rels/document.xml.rels", static(documentRelsXML)},
		{"word/document.xml", func() ([]byte, error) {
			return marshalPart(wDocument{XmlnsW: nsW, XmlnsR: nsR, Body: buildBody(doc)})
		}},
		{"word/styles.xml", func() ([]byte, error) { return marshalPart(buildStyles(doc)) }},
		{"word/settings.xml", static(settingsXML)},
		{"word/numbering.xml", static(numberingXML)},
		{"word/footer1.xml", func() ([]byte, error) { return marshalPart(buildFooter(doc.Footer)) }},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, pt := range parts {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			return nil, err
		}
		body, err := pt.body()
		if err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("docx: encode %s: %w", pt.name, err)
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     pt.name,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("docx: create %s: %w", pt.name, err)
		}
		if _, err := w.Write(body); err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("docx: write %s: %w", pt.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: finalize: %w", err)
	}
	return buf.Bytes(), nil
}

func static(s string) func() ([]byte, error) {
	return func() ([]byte, error) { return []byte(s), nil }
}

func marshalPart(v any) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

func coreProps(doc *document.Document, now time.Time) coreProperties {
	stamp := w3cDate{Type: "dcterms:W3CDTF", Value: now.Format(time.RFC3339)}
	return coreProperties{
		XmlnsCP:        nsCP,
		XmlnsDC:        nsDC,
		XmlnsDCTerms:   nsDCTerms,
		XmlnsXSI:       nsXSI,
		Title:          doc.Meta.Title,
		Creator:        doc.Meta.Author,
		Language:       doc.Meta.Language,
		LastModifiedBy: doc.Meta.Author,
		Created:        stamp,
		Modified:       stamp,
	}
}
