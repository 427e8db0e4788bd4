package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestFromContextAddsKnownKeys(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", "json")

	ctx := WithContext(context.Background(), RequestIDKey, "req-1")
	ctx = WithContext(ctx, SessionIDKey, "sess-9")
	Error(ctx, "export failed", errors.New("zip: closed"), "filename", "a.docx")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	want := map[string]string{
		"msg":        "export failed",
		"request_id": "req-1",
		"session_id": "sess-9",
		"error":      "zip: closed",
		"filename":   "a.docx",
	}
	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v, want %q", k, rec[k], v)
		}
	}
	if _, ok := rec["trace_id"]; ok {
		t.Errorf("trace_id should be absent")
	}
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "warn", "text")
	Info(context.Background(), "hidden")
	Warn(context.Background(), "shown")

	out := buf.String()
	if bytes.Contains([]byte(out), []byte("hidden")) {
		t.Fatalf("info line should be filtered: %s", out)
	}
	if !bytes.Contains([]byte(out), []byte("shown")) {
		t.Fatalf("warn line missing: %s", out)
	}
}
