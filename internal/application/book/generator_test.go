package book

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	workflowport "kitab-ai-api/internal/workflow/port"
	apperrors "kitab-ai-api/pkg/errors"
)

func TestGenerateScenario(t *testing.T) {
	m := &replyModel{
		content: "```json\n" + fixtureBookJSON(true) + "\n```",
		usage:   &schema.TokenUsage{PromptTokens: 120, CompletionTokens: 900},
	}
	g := NewBookGenerator(modelFactory{m: m}, nil, testConfig())

	out, err := g.Generate(context.Background(), scenarioParams())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if m.calls != 1 {
		t.Fatalf("model calls = %d, want 1", m.calls)
	}
	if len(out.Book.Chapters) != 3 {
		t.Fatalf("chapters = %d", len(out.Book.Chapters))
	}
	if len(out.Book.References) != 5 {
		t.Fatalf("references = %d", len(out.Book.References))
	}
	if out.Meta.Provider != "gemini" || out.Meta.Model != "gemini-1.5-pro" {
		t.Fatalf("meta = %+v", out.Meta)
	}
	if out.Meta.PromptTokens != 120 || out.Meta.CompletionTokens != 900 {
		t.Fatalf("usage = %+v", out.Meta)
	}
	if !strings.HasPrefix(out.Raw, "{") {
		t.Fatalf("raw should be the extracted object: %q", out.Raw)
	}
}

func TestGenerateFillsMissingLanguage(t *testing.T) {
	g := NewBookGenerator(modelFactory{m: &replyModel{content: fixtureBookJSON(false)}}, nil, testConfig())
	params := scenarioParams()
	params.Language = "Indonesian"

	out, err := g.Generate(context.Background(), params)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Book.Language != "Indonesian" {
		t.Fatalf("language = %q", out.Book.Language)
	}
}

func TestGenerateFailures(t *testing.T) {
	cases := []struct {
		name  string
		model *replyModel
	}{
		{"transport error", &replyModel{err: errors.New("dial tcp: connection refused")}},
		{"empty reply", &replyModel{content: "   "}},
		{"not json", &replyModel{content: "I cannot write that book."}},
		{"no chapters", &replyModel{content: `{"title":"T","chapters":[]}`}},
		{"empty sections", &replyModel{content: `{"title":"T","chapters":[{"title":"A","sections":[]}]}`}},
		{"wrong types", &replyModel{content: `{"title":"T","chapters":"none"}`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewBookGenerator(modelFactory{m: tc.model}, nil, testConfig())
			_, err := g.Generate(context.Background(), scenarioParams())
			if !apperrors.IsCode(err, apperrors.CodeGenerationFailed) {
				t.Fatalf("expected generation failure, got %v", err)
			}
			if appErr := apperrors.AsAppError(err); appErr.Message != "book generation failed" {
				t.Fatalf("message = %q", appErr.Message)
			}
			if tc.model.calls > 1 {
				t.Fatalf("no retries allowed, calls = %d", tc.model.calls)
			}
		})
	}
}

func TestGenerateRejectsInvalidParams(t *testing.T) {
	m := &replyModel{content: fixtureBookJSON(true)}
	g := NewBookGenerator(modelFactory{m: m}, nil, testConfig())
	params := scenarioParams()
	params.PageCount = 0

	if _, err := g.Generate(context.Background(), params); !apperrors.IsCode(err, apperrors.CodeInvalidParam) {
		t.Fatalf("expected invalid param, got %v", err)
	}
	if m.calls != 0 {
		t.Fatalf("invalid params must not reach the model")
	}
}

func TestValidateBookCollectsIssues(t *testing.T) {
	b, _, err := ParseBook(`{"title":" ","chapters":[{"title":"","sections":[{"title":"","content":""}]}]}`)
	if err != nil {
		t.Fatalf("ParseBook: %v", err)
	}
	err = ValidateBook(b)
	var verr BookValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected BookValidationError, got %v", err)
	}
	if len(verr.Issues) != 4 {
		t.Fatalf("issues = %v", verr.Issues)
	}
}

func TestGenerateHonorsStructuredOutputSetting(t *testing.T) {
	off := false
	cases := []struct {
		name       string
		structured *bool
		wantSchema bool
	}{
		{"provider default", nil, true},
		{"disabled in config", &off, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			p := cfg.LLM.Providers["gemini"]
			p.StructuredOutput = tc.structured
			cfg.LLM.Providers["gemini"] = p

			m := &replyModel{content: fixtureBookJSON(true)}
			if _, err := NewBookGenerator(modelFactory{m: m}, nil, cfg).Generate(context.Background(), scenarioParams()); err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if m.calls != 1 {
				t.Fatalf("model calls = %d, want 1", m.calls)
			}
			if got := workflowport.GetStructuredOutput(m.opts...).Schema != nil; got != tc.wantSchema {
				t.Fatalf("schema sent = %v, want %v", got, tc.wantSchema)
			}
		})
	}
}

func TestGenerateSchemaRejectionCallsOnce(t *testing.T) {
	m := &replyModel{err: errors.New("400 Bad Request: invalid json_schema: schema too large")}
	g := NewBookGenerator(modelFactory{m: m}, nil, testConfig())

	if _, err := g.Generate(context.Background(), scenarioParams()); !apperrors.IsCode(err, apperrors.CodeGenerationFailed) {
		t.Fatalf("err = %v", err)
	}
	if m.calls != 1 {
		t.Fatalf("model calls = %d, want 1", m.calls)
	}
}
