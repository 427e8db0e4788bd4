package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"kitab-ai-api/internal/application/document"
	"kitab-ai-api/internal/config"
	"kitab-ai-api/internal/domain/entity"
)

func fixedNow() time.Time {
	return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
}

func bookConfig() config.BookConfig {
	return config.BookConfig{
		RTLLanguage: "Arabic",
		ProductTag:  "KitabAI",
		Banner:      "KITAB AI",
		Labels: config.BookLabels{
			WrittenBy:  "Written by",
			TOC:        "Table of Contents",
			Abstract:   "Abstract",
			References: "References",
			PagePrefix: "Page ",
			PageInfix:  " of ",
		},
		Style: config.StyleConfig{
			LatinFont:  "Times New Roman",
			RTLFont:    "Traditional Arabic",
			MarginCm:   2.5,
			BodySizePt: 12,
			Colors:     config.ColorsConfig{Title: "#1b5e20", Heading1: "1B5E20", Heading2: "B8860B"},
		},
	}
}

func sampleDoc(language string) *document.Document {
	book := &entity.Book{
		Title:    "Zakat & <Assets>",
		Subtitle: "Fiqh",
		Author:   "A. Example",
		Abstract: "Summary",
		Language: language,
		Chapters: []entity.Chapter{{
			Title:    "Chapter One",
			Sections: []entity.Section{{Title: "Section", Content: "Line\n\nNext"}},
		}},
		References: []string{"Ref 1"},
	}
	return document.NewAssembler(bookConfig(), document.WithClock(fixedNow)).Assemble(book)
}

func unpack(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	files := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		files[f.Name] = string(b)
	}
	return files
}

func assertWellFormed(t *testing.T, name, content string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(content))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Fatalf("%s is not well-formed: %v", name, err)
		}
	}
}

func TestPackParts(t *testing.T) {
	data, err := NewPacker(WithClock(fixedNow)).Pack(context.Background(), sampleDoc("English"))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	files := unpack(t, data)

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"word/document.xml",
		"word/styles.xml",
		"word/settings.xml",
		"word/numbering.xml",
		"word/footer1.xml",
		"word/_rels/document.xml.rels",
	} {
		content, ok := files[name]
		if !ok {
			t.Fatalf("missing part %s", name)
		}
		assertWellFormed(t, name, content)
	}

	body := files["word/document.xml"]
	for _, want := range []string{
		`TOC \o `,
		`\h \z \u`,
		`w:top="1417"`,
		`w:left="1417"`,
		`<w:pStyle w:val="Heading1">`,
		`<w:pStyle w:val="Heading2">`,
		`<w:pStyle w:val="ListBullet">`,
		`<w:br w:type="page">`,
		`<w:pageBreakBefore>`,
		`Zakat &amp; &lt;Assets&gt;`,
		`w:ascii="Times New Roman"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}
	if strings.Contains(body, "<w:bidi>") || strings.Contains(body, "<w:rtl>") {
		t.Errorf("ltr document must not carry bidi flags")
	}

	footer := files["word/footer1.xml"]
	for _, want := range []string{"Page ", " PAGE ", " of ", " NUMPAGES ", `<w:jc w:val="center">`} {
		if !strings.Contains(footer, want) {
			t.Errorf("footer missing %q", want)
		}
	}

	styles := files["word/styles.xml"]
	for _, want := range []string{`w:styleId="Heading5"`, `<w:outlineLvl w:val="0">`, `<w:color w:val="1B5E20">`} {
		if !strings.Contains(styles, want) {
			t.Errorf("styles missing %s", want)
		}
	}
	if !strings.Contains(files["word/settings.xml"], "updateFields") {
		t.Errorf("settings must request field update")
	}
	if !strings.Contains(files["docProps/core.xml"], "2026-05-01T12:00:00Z") {
		t.Errorf("core properties missing timestamp: %s", files["docProps/core.xml"])
	}
}

func TestPackRightToLeft(t *testing.T) {
	data, err := NewPacker(WithClock(fixedNow)).Pack(context.Background(), sampleDoc("Arabic"))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	files := unpack(t, data)
	body := files["word/document.xml"]
	for _, want := range []string{"<w:bidi>", `<w:jc w:val="right">`, "<w:rtl>", `w:cs="Traditional Arabic"`} {
		if !strings.Contains(body, want) {
			t.Errorf("rtl document.xml missing %s", want)
		}
	}
	if strings.Contains(files["word/footer1.xml"], "<w:rtl>") {
		t.Errorf("footer page numbers must stay left-to-right")
	}
}

func TestPackCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewPacker().Pack(ctx, sampleDoc("English")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPackNilDocument(t *testing.T) {
	if _, err := NewPacker().Pack(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil document")
	}
}

func TestCmToTwips(t *testing.T) {
	if got := cmToTwips(2.5); got != 1417 {
		t.Fatalf("cmToTwips(2.5) = %d", got)
	}
	if got := cmToTwips(2.54); got != 1440 {
		t.Fatalf("cmToTwips(2.54) = %d", got)
	}
}
