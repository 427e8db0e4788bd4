package node

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractJSONObject 从模型回复中取出第一个完整的 JSON 对象。
// 会跳过 ```json 代码围栏以及对象前后的说明文字；找不到对象时返回 ok=false。
func ExtractJSONObject(s string) (string, bool) {
	raw := strings.TrimSpace(stripCodeFence(s))
	for start := strings.IndexByte(raw, '{'); start >= 0; {
		dec := json.NewDecoder(strings.NewReader(raw[start:]))
		var obj json.RawMessage
		if err := dec.Decode(&obj); err == nil && len(obj) > 0 && obj[0] == '{' {
			return string(bytes.TrimSpace(obj)), true
		}
		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	}
	if end := strings.LastIndex(t, "```"); end >= 0 {
		t = t[:end]
	}
	return t
}
