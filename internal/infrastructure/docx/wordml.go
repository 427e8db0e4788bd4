package docx

import "encoding/xml"

// WordprocessingML 元素。标签直接写成带前缀的名字，序列化结果即 w:xxx。
// 字段顺序与 OOXML schema 的子元素顺序一致。

const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsCP      = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsDCTerms = "http://purl.org/dc/terms/"
	nsXSI     = "http://www.w3.org/2001/XMLSchema-instance"
)

type wEmpty struct{}

type wVal struct {
	Val string `xml:"w:val,attr"`
}

type wIntVal struct {
	Val int `xml:"w:val,attr"`
}

type wDocument struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	XmlnsR  string   `xml:"xmlns:r,attr"`
	Body    wBody    `xml:"w:body"`
}

type wBody struct {
	Paragraphs []wParagraph `xml:"w:p"`
	SectPr     wSectPr      `xml:"w:sectPr"`
}

type wFooter struct {
	XMLName    xml.Name     `xml:"w:ftr"`
	XmlnsW     string       `xml:"xmlns:w,attr"`
	XmlnsR     string       `xml:"xmlns:r,attr"`
	Paragraphs []wParagraph `xml:"w:p"`
}

type wParagraph struct {
	PPr  *wPPr  `xml:"w:pPr,omitempty"`
	Runs []wRun `xml:"w:r"`
}

type wPPr struct {
	PStyle          *wVal     `xml:"w:pStyle,omitempty"`
	KeepNext        *wEmpty   `xml:"w:keepNext,omitempty"`
	PageBreakBefore *wEmpty   `xml:"w:pageBreakBefore,omitempty"`
	NumPr           *wNumPr   `xml:"w:numPr,omitempty"`
	Bidi            *wEmpty   `xml:"w:bidi,omitempty"`
	Spacing         *wSpacing `xml:"w:spacing,omitempty"`
	Jc              *wVal     `xml:"w:jc,omitempty"`
	OutlineLvl      *wIntVal  `xml:"w:outlineLvl,omitempty"`
}

type wNumPr struct {
	Ilvl  wIntVal `xml:"w:ilvl"`
	NumID wIntVal `xml:"w:numId"`
}

type wSpacing struct {
	Before int `xml:"w:before,attr"`
	After  int `xml:"w:after,attr"`
}

type wRun struct {
	RPr       *wRPr     `xml:"w:rPr,omitempty"`
	Br        *wBr      `xml:"w:br,omitempty"`
	FldChar   *wFldChar `xml:"w:fldChar,omitempty"`
	InstrText *wText    `xml:"w:instrText,omitempty"`
	Text      *wText    `xml:"w:t,omitempty"`
}

type wRPr struct {
	RFonts *wFonts   `xml:"w:rFonts,omitempty"`
	B      *wEmpty   `xml:"w:b,omitempty"`
	Caps   *wEmpty   `xml:"w:caps,omitempty"`
	Color  *wVal     `xml:"w:color,omitempty"`
	Sz     *wIntVal  `xml:"w:sz,omitempty"`
	SzCs   *wIntVal  `xml:"w:szCs,omitempty"`
	Rtl    *wEmpty   `xml:"w:rtl,omitempty"`
	Lang   *wLangVal `xml:"w:lang,omitempty"`
}

type wFonts struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
	CS    string `xml:"w:cs,attr"`
}

type wLangVal struct {
	Val  string `xml:"w:val,attr,omitempty"`
	Bidi string `xml:"w:bidi,attr,omitempty"`
}

type wBr struct {
	Type string `xml:"w:type,attr"`
}

type wFldChar struct {
	Type  string `xml:"w:fldCharType,attr"`
	Dirty string `xml:"w:dirty,attr,omitempty"`
}

type wText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type wSectPr struct {
	FooterReference wHdrFtrRef `xml:"w:footerReference"`
	PgSz            wPgSz      `xml:"w:pgSz"`
	PgMar           wPgMar     `xml:"w:pgMar"`
	Bidi            *wEmpty    `xml:"w:bidi,omitempty"`
}

type wHdrFtrRef struct {
	Type string `xml:"w:type,attr"`
	ID   string `xml:"r:id,attr"`
}

type wPgSz struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type wPgMar struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

type wStyles struct {
	XMLName     xml.Name     `xml:"w:styles"`
	XmlnsW      string       `xml:"xmlns:w,attr"`
	DocDefaults wDocDefaults `xml:"w:docDefaults"`
	Styles      []wStyle     `xml:"w:style"`
}

type wDocDefaults struct {
	RPrDefault wRPrDefault `xml:"w:rPrDefault"`
	PPrDefault wPPrDefault `xml:"w:pPrDefault"`
}

type wRPrDefault struct {
	RPr wRPr `xml:"w:rPr"`
}

type wPPrDefault struct {
	PPr wPPr `xml:"w:pPr"`
}

type wStyle struct {
	Type    string  `xml:"w:type,attr"`
	StyleID string  `xml:"w:styleId,attr"`
	Default string  `xml:"w:default,attr,omitempty"`
	Name    wVal    `xml:"w:name"`
	BasedOn *wVal   `xml:"w:basedOn,omitempty"`
	Next    *wVal   `xml:"w:next,omitempty"`
	QFormat *wEmpty `xml:"w:qFormat,omitempty"`
	PPr     *wPPr   `xml:"w:pPr,omitempty"`
	RPr     *wRPr   `xml:"w:rPr,omitempty"`
}

type coreProperties struct {
	XMLName        xml.Name `xml:"cp:coreProperties"`
	XmlnsCP        string   `xml:"xmlns:cp,attr"`
	XmlnsDC        string   `xml:"xmlns:dc,attr"`
	XmlnsDCTerms   string   `xml:"xmlns:dcterms,attr"`
	XmlnsXSI       string   `xml:"xmlns:xsi,attr"`
	Title          string   `xml:"dc:title"`
	Creator        string   `xml:"dc:creator"`
	Language       string   `xml:"dc:language,omitempty"`
	LastModifiedBy string   `xml:"cp:lastModifiedBy"`
	Created        w3cDate  `xml:"dcterms:created"`
	Modified       w3cDate  `xml:"dcterms:modified"`
}

type w3cDate struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}
