package document

import (
	"regexp"
	"strings"
)

const (
	DocxExtension   = ".docx"
	DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	fallbackFilename = "book"
	maxFilenameRunes = 120
)

var nonWordRun = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_]+`)

// Filename 由书名生成导出文件名：<清洗后的书名>_<产品标签>.docx
func Filename(title, productTag string) string {
	stem := filenameStem(title)
	if stem == "" {
		stem = fallbackFilename
	}
	if tag := filenameStem(productTag); tag != "" {
		stem += "_" + tag
	}
	return stem + DocxExtension
}

func filenameStem(s string) string {
	stem := nonWordRun.ReplaceAllString(Sanitize(s), "_")
	stem = strings.Trim(stem, "_")
	if r := []rune(stem); len(r) > maxFilenameRunes {
		stem = strings.TrimRight(string(r[:maxFilenameRunes]), "_")
	}
	return stem
}
