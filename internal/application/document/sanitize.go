package document

import (
	"strings"
	"unicode"
)

// maxHeadingLevel Markdown 标题最多六个 #
const maxHeadingLevel = 6

// Sanitize 清洗模型生成的文本，使其可直接写入文档。
//
// 依次执行：删除控制字符、零宽字符与反引号；拆除强调标记；拆除链接；删除标题标记；去除首尾空白。
// 每一步都是单遍线性扫描，且后一步的删除不会制造前一步能识别的新标记，
// 因此 Sanitize(Sanitize(s)) == Sanitize(s)。
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	rs := []rune(strings.Map(dropStripped, text))
	rs = unwrapEmphasis(rs)
	rs = unwrapLinks(rs)
	rs = stripHeadings(rs)
	return strings.TrimSpace(string(rs))
}

// unwrapEmphasis 按行配对 * 连续段并删除配对成功的两段。
// 后接非空白的段可以开启，前接非空白的段可以关闭；关闭优先于开启，未配对的段原样保留。
func unwrapEmphasis(rs []rune) []rune {
	type span struct{ start, end int }

	drop := make([]bool, len(rs))
	var opened []span
	for i := 0; i < len(rs); {
		switch rs[i] {
		case '\n':
			opened = opened[:0]
			i++
			continue
		case '*':
		default:
			i++
			continue
		}

		j := i
		for j < len(rs) && rs[j] == '*' {
			j++
		}
		canOpen := j < len(rs) && !unicode.IsSpace(rs[j])
		canClose := i > 0 && !unicode.IsSpace(rs[i-1])
		switch {
		case canClose && len(opened) > 0:
			o := opened[len(opened)-1]
			opened = opened[:len(opened)-1]
			markDropped(drop, o.start, o.end)
			markDropped(drop, i, j)
		case canOpen:
			opened = append(opened, span{i, j})
		}
		i = j
	}
	return compact(rs, drop)
}

// unwrapLinks 把 [label](url) 还原为 label，嵌套链接一遍拆完。
//
// 方括号入栈；遇到紧跟在 ] 之后的 ( 且同一行内存在 )，并且栈中 ] 下面是 [ 时归约。
// 归约时删除 ] 到 ) 的尾部，[ 在标签非空时打删除标记，避免搬移标签。
// 若删除 [ 会让前面的 ] 与以 ( 开头的标签相邻，则放弃归约，保证结果再扫一遍不变。
func unwrapLinks(rs []rune) []rune {
	// closeAt[i] 为 i 之后（含）同一行内第一个 ) 的下标，没有则为 -1
	closeAt := make([]int, len(rs)+1)
	closeAt[len(rs)] = -1
	for i := len(rs) - 1; i >= 0; i-- {
		switch rs[i] {
		case ')':
			closeAt[i] = i
		case '\n':
			closeAt[i] = -1
		default:
			closeAt[i] = closeAt[i+1]
		}
	}

	out := make([]rune, 0, len(rs))
	drop := make([]bool, 0, len(rs))
	var brackets []int
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch r {
		case '\n':
			brackets = brackets[:0]
		case '[', ']':
			brackets = append(brackets, len(out))
		case '(':
			if end := closeAt[i]; end >= 0 {
				if n, ok := reduceLink(out, drop, brackets); ok {
					out, drop = out[:n], drop[:n]
					brackets = brackets[:len(brackets)-2]
					i = end
					continue
				}
			}
		}
		out = append(out, r)
		drop = append(drop, false)
	}
	return compact(out, drop)
}

// reduceLink 判断 out 末尾的 ] 能否与栈中的 [ 归约，返回截断后的长度
func reduceLink(out []rune, drop []bool, brackets []int) (int, bool) {
	n := len(brackets)
	if n < 2 {
		return 0, false
	}
	closer, open := brackets[n-1], brackets[n-2]
	if closer != len(out)-1 || out[closer] != ']' || out[open] != '[' {
		return 0, false
	}
	if open+1 == closer {
		// 空标签：[ 也在末尾，直接截掉
		return open, true
	}
	if open > 0 && out[open-1] == ']' && firstKept(out, drop, open+1) == '(' {
		return 0, false
	}
	drop[open] = true
	return closer, true
}

func firstKept(out []rune, drop []bool, from int) rune {
	for j := from; j < len(out); j++ {
		if !drop[j] {
			return out[j]
		}
	}
	return 0
}

// stripHeadings 删除位于行首或空白之后的 #{1,6} 及其后的空格/制表符
func stripHeadings(rs []rune) []rune {
	out := make([]rune, 0, len(rs))
	for i := 0; i < len(rs); {
		if rs[i] == '#' && (len(out) == 0 || unicode.IsSpace(out[len(out)-1])) {
			j := i
			for j < len(rs) && rs[j] == '#' {
				j++
			}
			k := j
			for k < len(rs) && (rs[k] == ' ' || rs[k] == '\t') {
				k++
			}
			if j-i <= maxHeadingLevel && k > j {
				i = k
				continue
			}
		}
		out = append(out, rs[i])
		i++
	}
	return out
}

func markDropped(drop []bool, start, end int) {
	for i := start; i < end; i++ {
		drop[i] = true
	}
}

func compact(rs []rune, drop []bool) []rune {
	out := rs[:0]
	for i, r := range rs {
		if !drop[i] {
			out = append(out, r)
		}
	}
	return out
}

// dropStripped 返回 -1 表示删除该字符
func dropStripped(r rune) rune {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return r
	case r < 0x20, r == 0x7f:
		return -1
	case r == '\u200b', r == '\u200c', r == '\u200d', r == '\ufeff':
		return -1
	case r == '`':
		return -1
	default:
		return r
	}
}

// IsStripped 字符是否属于清洗时一定会删除的集合
func IsStripped(r rune) bool {
	return dropStripped(r) < 0
}
