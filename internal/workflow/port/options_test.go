package port

import (
	"testing"

	"github.com/cloudwego/eino/components/model"
)

func TestStructuredOutputOption(t *testing.T) {
	schema := map[string]any{"type": "object"}
	got := GetStructuredOutput(model.WithTemperature(0.2), WithResponseSchema("book", schema))
	if got.Name != "book" || got.Schema["type"] != "object" {
		t.Fatalf("option not applied: %+v", got)
	}

	if empty := GetStructuredOutput(model.WithMaxTokens(10)); empty.Schema != nil {
		t.Fatalf("unexpected schema: %+v", empty)
	}
}
