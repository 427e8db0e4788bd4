package docx

import (
	"strconv"
	"strings"

	"kitab-ai-api/internal/application/document"
)

const defaultBodySizePt = 12

// headingSizes 各级标题字号（半磅）
var headingSizes = [document.TOCToLevel]int{32, 28, 26, 24, 22}

func halfPoints(pt int) *wIntVal {
	return &wIntVal{Val: pt * 2}
}

func colorVal(hex string) *wVal {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if h == "" {
		return nil
	}
	return &wVal{Val: strings.ToUpper(h)}
}

func paragraphStyle(id, name string) wStyle {
	return wStyle{
		Type:    "paragraph",
		StyleID: id,
		Name:    wVal{Val: name},
		BasedOn: &wVal{Val: styleNormal},
		Next:    &wVal{Val: styleNormal},
		QFormat: &wEmpty{},
	}
}

func buildStyles(doc *document.Document) wStyles {
	font := doc.Style.Font
	bodySize := doc.Style.BodySizePt
	if bodySize <= 0 {
		bodySize = defaultBodySizePt
	}
	colors := doc.Style.Colors

	defRPr := wRPr{Sz: halfPoints(bodySize), SzCs: halfPoints(bodySize)}
	if font != "" {
		defRPr.RFonts = &wFonts{ASCII: font, HAnsi: font, CS: font}
	}
	if doc.IsRTL() {
		defRPr.Lang = &wLangVal{Bidi: "ar-SA"}
	}

	normal := wStyle{
		Type:    "paragraph",
		StyleID: styleNormal,
		Default: "1",
		Name:    wVal{Val: "Normal"},
		QFormat: &wEmpty{},
		PPr:     &wPPr{Spacing: &wSpacing{After: 120}},
	}

	title := paragraphStyle(styleTitle, "Title")
	title.PPr = &wPPr{Spacing: &wSpacing{Before: 240, After: 240}, Jc: &wVal{Val: "center"}}
	title.RPr = &wRPr{B: &wEmpty{}, Color: colorVal(colors.Title), Sz: halfPoints(28), SzCs: halfPoints(28)}

	subtitle := paragraphStyle(styleSubtitle, "Subtitle")
	subtitle.PPr = &wPPr{Spacing: &wSpacing{After: 480}, Jc: &wVal{Val: "center"}}
	subtitle.RPr = &wRPr{Color: colorVal(colors.Subtitle), Sz: halfPoints(16), SzCs: halfPoints(16)}

	banner := paragraphStyle(styleBanner, "Banner")
	banner.PPr = &wPPr{Spacing: &wSpacing{After: 720}, Jc: &wVal{Val: "center"}}
	banner.RPr = &wRPr{B: &wEmpty{}, Caps: &wEmpty{}, Color: colorVal(colors.Banner), Sz: halfPoints(10), SzCs: halfPoints(10)}

	tocHeading := paragraphStyle(styleTOCHeading, "TOC Heading")
	tocHeading.PPr = &wPPr{KeepNext: &wEmpty{}, Spacing: &wSpacing{Before: 240, After: 240}}
	tocHeading.RPr = &wRPr{B: &wEmpty{}, Color: colorVal(colors.Heading1), Sz: halfPoints(16), SzCs: halfPoints(16)}

	bullet := paragraphStyle(styleListBullet, "List Bullet")
	bullet.PPr = &wPPr{
		NumPr:   &wNumPr{Ilvl: wIntVal{Val: 0}, NumID: wIntVal{Val: bulletNumID}},
		Spacing: &wSpacing{After: 80},
	}

	footer := paragraphStyle(styleFooter, "footer")
	footer.QFormat = nil
	footer.RPr = &wRPr{Sz: halfPoints(9), SzCs: halfPoints(9)}

	styles := []wStyle{normal, title, subtitle, banner, tocHeading, bullet, footer}
	for level := 1; level <= document.TOCToLevel; level++ {
		h := paragraphStyle(headingStyleID(level), "heading "+strconv.Itoa(level))
		h.PPr = &wPPr{
			KeepNext:   &wEmpty{},
			Spacing:    &wSpacing{Before: 360 - 40*level, After: 120},
			OutlineLvl: &wIntVal{Val: level - 1},
		}
		color := colors.Heading2
		if level == 1 {
			color = colors.Heading1
		}
		size := headingSizes[level-1]
		h.RPr = &wRPr{B: &wEmpty{}, Color: colorVal(color), Sz: &wIntVal{Val: size}, SzCs: &wIntVal{Val: size}}
		styles = append(styles, h)
	}

	return wStyles{
		XmlnsW: nsW,
		DocDefaults: wDocDefaults{
			RPrDefault: wRPrDefault{RPr: defRPr},
			PPrDefault: wPPrDefault{PPr: wPPr{}},
		},
		Styles: styles,
	}
}
