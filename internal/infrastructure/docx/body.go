package docx

import (
	"fmt"
	"math"

	"kitab-ai-api/internal/application/document"
)

// A4，单位 twip
const (
	pageWidthTwips  = 11906
	pageHeightTwips = 16838
	twipsPerCm      = 1440 / 2.54
	headerTwips     = 708
)

// 样式 ID
const (
	styleNormal     = "Normal"
	styleTitle      = "Title"
	styleSubtitle   = "Subtitle"
	styleBanner     = "Banner"
	styleTOCHeading = "TOCHeading"
	styleListBullet = "ListBullet"
	styleFooter     = "Footer"
)

func headingStyleID(level int) string {
	if level < 1 {
		level = 1
	}
	if level > document.TOCToLevel {
		level = document.TOCToLevel
	}
	return fmt.Sprintf("Heading%d", level)
}

func cmToTwips(cm float64) int {
	return int(math.Round(cm * twipsPerCm))
}

func buildBody(doc *document.Document) wBody {
	paras := make([]wParagraph, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		switch b.Kind {
		case document.KindPageBreak:
			paras = append(paras, wParagraph{
				Runs: []wRun{{Br: &wBr{Type: "page"}}},
			})
		case document.KindTOC:
			paras = append(paras, tocParagraph(b))
		default:
			paras = append(paras, blockParagraph(b))
		}
	}

	margin := cmToTwips(doc.Style.MarginCm)
	sect := wSectPr{
		FooterReference: wHdrFtrRef{Type: "default", ID: footerRelID},
		PgSz:            wPgSz{W: pageWidthTwips, H: pageHeightTwips},
		PgMar: wPgMar{
			Top:    margin,
			Right:  margin,
			Bottom: margin,
			Left:   margin,
			Header: headerTwips,
			Footer: headerTwips,
		},
	}
	if doc.IsRTL() {
		sect.Bidi = &wEmpty{}
	}
	return wBody{Paragraphs: paras, SectPr: sect}
}

func paragraphProps(styleID string, align document.Align, rtl bool) *wPPr {
	ppr := &wPPr{}
	if styleID != "" && styleID != styleNormal {
		ppr.PStyle = &wVal{Val: styleID}
	}
	if rtl {
		ppr.Bidi = &wEmpty{}
	}
	if jc := justification(align); jc != "" {
		ppr.Jc = &wVal{Val: jc}
	}
	return ppr
}

// justification 使用 OOXML 的逻辑对齐值；bidi 段落中的 right 即视觉右对齐
func justification(a document.Align) string {
	switch a {
	case document.AlignCenter:
		return "center"
	case document.AlignRight:
		return "right"
	case document.AlignJustify:
		return "both"
	case document.AlignLeft:
		return "left"
	default:
		return ""
	}
}

func runProps(font string, rtl bool) *wRPr {
	rpr := &wRPr{}
	if font != "" {
		rpr.RFonts = &wFonts{ASCII: font, HAnsi: font, CS: font}
	}
	if rtl {
		rpr.Rtl = &wEmpty{}
	}
	return rpr
}

func textRun(text, font string, rtl bool) wRun {
	return wRun{
		RPr:  runProps(font, rtl),
		Text: &wText{Space: "preserve", Value: text},
	}
}

func blockStyleID(b document.Block) string {
	switch b.Style {
	case document.StyleBanner:
		return styleBanner
	case document.StyleTitle:
		return styleTitle
	case document.StyleSubtitle:
		return styleSubtitle
	case document.StyleHeading:
		return headingStyleID(b.Level)
	case document.StyleSectionTitle:
		return styleTOCHeading
	case document.StyleBullet:
		return styleListBullet
	default:
		return styleNormal
	}
}

func blockParagraph(b document.Block) wParagraph {
	ppr := paragraphProps(blockStyleID(b), b.Align, b.RTL)
	if b.PageBreakBefore {
		ppr.PageBreakBefore = &wEmpty{}
	}
	if b.Bullet {
		ppr.NumPr = &wNumPr{Ilvl: wIntVal{Val: 0}, NumID: wIntVal{Val: bulletNumID}}
	}
	p := wParagraph{PPr: ppr}
	if b.Text != "" {
		run := textRun(b.Text, b.Font, b.RTL)
		if b.Style == document.StyleAuthor || b.Style == document.StyleLabel {
			run.RPr.B = &wEmpty{}
		}
		p.Runs = []wRun{run}
	}
	return p
}

// fieldRuns 复杂域：begin / instrText / separate / 占位文本 / end
func fieldRuns(instr, placeholder, font string, rtl bool) []wRun {
	rpr := func() *wRPr { return runProps(font, rtl) }
	runs := []wRun{
		{RPr: rpr(), FldChar: &wFldChar{Type: "begin", Dirty: "true"}},
		{RPr: rpr(), InstrText: &wText{Space: "preserve", Value: " " + instr + " "}},
		{RPr: rpr(), FldChar: &wFldChar{Type: "separate"}},
	}
	if placeholder != "" {
		runs = append(runs, textRun(placeholder, font, rtl))
	}
	return append(runs, wRun{RPr: rpr(), FldChar: &wFldChar{Type: "end"}})
}

func tocInstruction(spec *document.TOCSpec) string {
	from, to, links := document.TOCFromLevel, document.TOCToLevel, true
	if spec != nil {
		from, to, links = spec.From, spec.To, spec.Hyperlinks
	}
	instr := fmt.Sprintf(`TOC \o "%d-%d"`, from, to)
	if links {
		instr += ` \h`
	}
	return instr + ` \z \u`
}

func tocParagraph(b document.Block) wParagraph {
	return wParagraph{
		PPr:  paragraphProps(styleNormal, b.Align, b.RTL),
		Runs: fieldRuns(tocInstruction(b.TOC), "", b.Font, b.RTL),
	}
}

func buildFooter(f document.Footer) wFooter {
	var runs []wRun
	for _, part := range f.Parts {
		switch part.Field {
		case document.FieldPage, document.FieldNumPages:
			runs = append(runs, fieldRuns(string(part.Field), "1", f.Font, f.RTL)...)
		default:
			if part.Text != "" {
				runs = append(runs, textRun(part.Text, f.Font, f.RTL))
			}
		}
	}
	return wFooter{
		XmlnsW: nsW,
		XmlnsR: nsR,
		Paragraphs: []wParagraph{{
			PPr:  paragraphProps(styleFooter, f.Align, f.RTL),
			Runs: runs,
		}},
	}
}
