package document

import (
	"strconv"
	"strings"
	"time"

	"kitab-ai-api/internal/config"
	"kitab-ai-api/internal/domain/entity"
	"kitab-ai-api/internal/domain/service"
)

// Assembler 把 Book 线性映射为排版块序列；同一输入与时钟下输出完全确定
type Assembler struct {
	cfg config.BookConfig
	now func() time.Time
}

// AssemblerOption 组装器选项
type AssemblerOption func(*Assembler)

// WithClock 注入时钟，封面年份取自该时钟
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAssembler 创建组装器
func NewAssembler(cfg config.BookConfig, opts ...AssemblerOption) *Assembler {
	a := &Assembler{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config 返回排版配置
func (a *Assembler) Config() config.BookConfig {
	return a.cfg
}

// Direction 语言对应的文字方向
func (a *Assembler) Direction(language string) Direction {
	if service.IsRightToLeft(language, a.cfg.RTLLanguage) {
		return DirectionRTL
	}
	return DirectionLTR
}

// Assemble 依次生成封面、目录、摘要、正文章节与参考文献
func (a *Assembler) Assemble(book *entity.Book) *Document {
	if book == nil {
		book = &entity.Book{}
	}
	dir := a.Direction(book.Language)
	w := &blockWriter{
		rtl:  dir == DirectionRTL,
		font: a.fontFor(dir),
	}
	year := a.now().Year()
	labels := a.cfg.Labels

	// 封面
	w.centered(StyleBanner, a.cfg.Banner)
	w.centered(StyleSpacer, "")
	w.centered(StyleTitle, Sanitize(book.Title))
	w.centered(StyleSubtitle, Sanitize(book.Subtitle))
	w.centered(StyleLabel, labels.WrittenBy)
	w.centered(StyleAuthor, Sanitize(book.Author))
	w.centered(StyleYear, strconv.Itoa(year))
	w.pageBreak()

	// 目录：由打包器根据后续 1-5 级标题填充
	w.aligned(StyleSectionTitle, 0, labels.TOC, false)
	w.blocks = append(w.blocks, Block{
		Kind: KindTOC,
		RTL:  w.rtl,
		Font: w.font,
		TOC:  &TOCSpec{From: TOCFromLevel, To: TOCToLevel, Hyperlinks: true},
	})

	// 摘要
	w.aligned(StyleSectionTitle, 0, labels.Abstract, false)
	w.paragraphs(Sanitize(book.Abstract))
	w.pageBreak()

	for _, ch := range book.Chapters {
		w.aligned(StyleHeading, 1, Sanitize(ch.Title), true)
		for _, sec := range ch.Sections {
			w.aligned(StyleHeading, 2, Sanitize(sec.Title), false)
			w.paragraphs(Sanitize(sec.Content))
		}
	}

	w.aligned(StyleHeading, 1, labels.References, true)
	for _, ref := range book.References {
		b := w.body(StyleBullet, Sanitize(ref))
		b.Bullet = true
		w.blocks = append(w.blocks, b)
	}

	return &Document{
		Meta: Meta{
			Title:    Sanitize(book.Title),
			Author:   Sanitize(book.Author),
			Language: strings.TrimSpace(book.Language),
			Year:     year,
		},
		Direction: dir,
		Style: Style{
			Font:       w.font,
			MarginCm:   a.cfg.Style.MarginCm,
			BodySizePt: a.cfg.Style.BodySizePt,
			Colors: Palette{
				Title:    a.cfg.Style.Colors.Title,
				Subtitle: a.cfg.Style.Colors.Subtitle,
				Heading1: a.cfg.Style.Colors.Heading1,
				Heading2: a.cfg.Style.Colors.Heading2,
				Banner:   a.cfg.Style.Colors.Banner,
			},
		},
		Blocks: w.blocks,
		Footer: Footer{
			Parts: []FooterPart{
				{Text: labels.PagePrefix},
				{Field: FieldPage},
				{Text: labels.PageInfix},
				{Field: FieldNumPages},
			},
			Align: AlignCenter,
			RTL:   false,
			Font:  w.font,
		},
	}
}

func (a *Assembler) fontFor(dir Direction) string {
	if dir == DirectionRTL {
		return a.cfg.Style.RTLFont
	}
	return a.cfg.Style.LatinFont
}

// blockWriter 累积块，并为每个段落附加方向、对齐与字体
type blockWriter struct {
	rtl    bool
	font   string
	blocks []Block
}

func (w *blockWriter) textAlign() Align {
	if w.rtl {
		return AlignRight
	}
	return AlignJustify
}

func (w *blockWriter) body(style BlockStyle, text string) Block {
	return Block{
		Kind:  KindParagraph,
		Style: style,
		Text:  text,
		Align: w.textAlign(),
		RTL:   w.rtl,
		Font:  w.font,
	}
}

func (w *blockWriter) centered(style BlockStyle, text string) {
	b := w.body(style, text)
	b.Align = AlignCenter
	w.blocks = append(w.blocks, b)
}

func (w *blockWriter) aligned(style BlockStyle, level int, text string, breakBefore bool) {
	b := w.body(style, text)
	b.Level = level
	b.PageBreakBefore = breakBefore
	w.blocks = append(w.blocks, b)
}

// paragraphs 每行一个段落；空行保留为空段落以维持垂直间距
func (w *blockWriter) paragraphs(text string) {
	if text == "" {
		return
	}
	for _, line := range splitLines(text) {
		w.blocks = append(w.blocks, w.body(StyleBody, line))
	}
}

func (w *blockWriter) pageBreak() {
	w.blocks = append(w.blocks, Block{Kind: KindPageBreak, RTL: w.rtl})
}

func splitLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(strings.TrimSuffix(l, "\r"))
	}
	return lines
}
