package document

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	apperrors "kitab-ai-api/pkg/errors"
)

type fakePacker struct {
	err   error
	calls int
	last  *Document
}

func (p *fakePacker) Pack(_ context.Context, doc *Document) ([]byte, error) {
	p.calls++
	p.last = doc
	if p.err != nil {
		return nil, p.err
	}
	return []byte("PK"), nil
}

func (p *fakePacker) ContentType() string { return DocxContentType }

func TestExporterExport(t *testing.T) {
	packer := &fakePacker{}
	exp := NewExporter(newTestAssembler(), packer)

	res, err := exp.Export(context.Background(), fixtureBook("English"))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(res.Filename, "Zakat_on_Digital_Assets") || !strings.HasSuffix(res.Filename, "_KitabAI.docx") {
		t.Errorf("filename = %q", res.Filename)
	}
	if res.ContentType != DocxContentType || string(res.Data) != "PK" {
		t.Errorf("result = %+v", res)
	}
	if packer.last == nil || packer.last.Direction != DirectionLTR {
		t.Errorf("packer received %+v", packer.last)
	}
}

func TestExporterFailureIsRetryable(t *testing.T) {
	packer := &fakePacker{err: errors.New("zip: disk full")}
	exp := NewExporter(newTestAssembler(), packer)
	book := fixtureBook("Arabic")
	before := book.Clone()

	_, err := exp.Export(context.Background(), book)
	if !apperrors.IsCode(err, apperrors.CodeExportFailed) {
		t.Fatalf("expected export failure, got %v", err)
	}
	if !reflect.DeepEqual(book, before) {
		t.Fatalf("failed export changed the book")
	}

	packer.err = nil
	if _, err := exp.Export(context.Background(), book); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if packer.calls != 2 {
		t.Fatalf("packer calls = %d", packer.calls)
	}
}

func TestExporterNilBook(t *testing.T) {
	exp := NewExporter(newTestAssembler(), &fakePacker{})
	if _, err := exp.Export(context.Background(), nil); !apperrors.IsCode(err, apperrors.CodeExportFailed) {
		t.Fatalf("expected export failure, got %v", err)
	}
}
