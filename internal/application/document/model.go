// Package document 把书稿转换为与具体格式无关的排版块树，并交给打包器输出二进制文档
package document

import "context"

// Direction 文字方向
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// BlockKind 块类型
type BlockKind string

const (
	KindParagraph BlockKind = "paragraph"
	KindPageBreak BlockKind = "page_break"
	KindTOC       BlockKind = "toc"
)

// BlockStyle 段落样式，打包器据此映射到具体样式定义
type BlockStyle string

const (
	StyleBanner       BlockStyle = "banner"
	StyleSpacer       BlockStyle = "spacer"
	StyleTitle        BlockStyle = "title"
	StyleSubtitle     BlockStyle = "subtitle"
	StyleLabel        BlockStyle = "label"
	StyleAuthor       BlockStyle = "author"
	StyleYear         BlockStyle = "year"
	StyleHeading      BlockStyle = "heading"
	StyleSectionTitle BlockStyle = "section_title"
	StyleBody         BlockStyle = "body"
	StyleBullet       BlockStyle = "bullet"
)

// Align 对齐方式
type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

// 目录覆盖的标题层级
const (
	TOCFromLevel = 1
	TOCToLevel   = 5
)

// Block 排版块。Level 仅对 StyleHeading 有意义（1 为章，2 为节）。
type Block struct {
	Kind            BlockKind  `json:"kind"`
	Style           BlockStyle `json:"style,omitempty"`
	Level           int        `json:"level,omitempty"`
	Text            string     `json:"text"`
	Align           Align      `json:"align,omitempty"`
	RTL             bool       `json:"rtl"`
	Font            string     `json:"font,omitempty"`
	PageBreakBefore bool       `json:"page_break_before,omitempty"`
	Bullet          bool       `json:"bullet,omitempty"`
	TOC             *TOCSpec   `json:"toc,omitempty"`
}

// IsHeading 是否为可被目录收录的标题
func (b Block) IsHeading() bool {
	return b.Kind == KindParagraph && b.Style == StyleHeading && b.Level >= TOCFromLevel
}

// TOCSpec 自动目录字段
type TOCSpec struct {
	From       int  `json:"from"`
	To         int  `json:"to"`
	Hyperlinks bool `json:"hyperlinks"`
}

// FieldKind 页脚中的动态域
type FieldKind string

const (
	FieldNone     FieldKind = ""
	FieldPage     FieldKind = "PAGE"
	FieldNumPages FieldKind = "NUMPAGES"
)

// FooterPart 页脚片段：纯文本或动态域
type FooterPart struct {
	Text  string    `json:"text,omitempty"`
	Field FieldKind `json:"field,omitempty"`
}

// Footer 每页页脚。页码始终按从左到右排列。
type Footer struct {
	Parts []FooterPart `json:"parts"`
	Align Align        `json:"align"`
	RTL   bool         `json:"rtl"`
	Font  string       `json:"font"`
}

// Palette 标题配色，十六进制 RGB（不带 #）
type Palette struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Heading1 string `json:"heading1"`
	Heading2 string `json:"heading2"`
	Banner   string `json:"banner"`
}

// Style 文档级样式
type Style struct {
	Font       string  `json:"font"`
	MarginCm   float64 `json:"margin_cm"`
	BodySizePt int     `json:"body_size_pt"`
	Colors     Palette `json:"colors"`
}

// Meta 文档属性
type Meta struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Language string `json:"language"`
	Year     int    `json:"year"`
}

// Document 交给打包器的声明式文档
type Document struct {
	Meta      Meta      `json:"meta"`
	Direction Direction `json:"direction"`
	Style     Style     `json:"style"`
	Blocks    []Block   `json:"blocks"`
	Footer    Footer    `json:"footer"`
}

// IsRTL 文档是否从右到左
func (d *Document) IsRTL() bool {
	return d != nil && d.Direction == DirectionRTL
}

// Headings 按出现顺序返回目录可见的标题
func (d *Document) Headings() []Block {
	if d == nil {
		return nil
	}
	var out []Block
	for _, b := range d.Blocks {
		if b.IsHeading() {
			out = append(out, b)
		}
	}
	return out
}

// Packer 将文档树序列化为二进制容器
type Packer interface {
	Pack(ctx context.Context, doc *Document) ([]byte, error)
	ContentType() string
}
