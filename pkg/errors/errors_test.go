package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeSessionNotFound, http.StatusNotFound},
		{CodeGenerationInProgress, http.StatusConflict},
		{CodeBookNotReady, http.StatusConflict},
		{CodeConfigurationError, http.StatusServiceUnavailable},
		{CodeGenerationFailed, http.StatusBadGateway},
		{CodeExportFailed, http.StatusInternalServerError},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := New(tc.code, "x").HTTPStatus; got != tc.want {
			t.Errorf("code %s: status = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	e := ErrSessionNotFound.WithDetail("abc")
	if e.Detail != "abc" {
		t.Fatalf("detail = %q", e.Detail)
	}
	if ErrSessionNotFound.Detail != "" {
		t.Fatalf("sentinel mutated: %q", ErrSessionNotFound.Detail)
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	base := stderrors.New("upstream 500")
	err := fmt.Errorf("generate: %w", GenerationFailure(base))

	if !IsCode(err, CodeGenerationFailed) {
		t.Fatalf("expected generation failure code in chain")
	}
	if IsCode(err, CodeExportFailed) {
		t.Fatalf("unexpected export code")
	}
	if !stderrors.Is(err, base) {
		t.Fatalf("underlying error lost")
	}
	if got := AsAppError(err).Message; got != "book generation failed" {
		t.Fatalf("message = %q", got)
	}
}

func TestAsAppErrorWrapsForeignError(t *testing.T) {
	got := AsAppError(stderrors.New("boom"))
	if got.Code != CodeUnknown || got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected: %+v", got)
	}
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := ConfigurationError("llm.providers.gemini.api_key is empty")
	want := "[1009] configuration error: llm.providers.gemini.api_key is empty"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
