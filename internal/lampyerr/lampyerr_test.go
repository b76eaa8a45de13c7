package lampyerr

import (
	"log"
	"strings"
	"testing"
)

func TestErrorFormatsCategoryCodeAndContext(t *testing.T) {
	err := New(Render, "E_NO_BACKEND", "no gpu backend bound", "pass", "PBRPass")
	got := err.Error()
	if !strings.Contains(got, "render/E_NO_BACKEND") || !strings.Contains(got, "no gpu backend bound") {
		t.Fatalf("unexpected error string: %q", got)
	}
	if err.Context["pass"] != "PBRPass" {
		t.Fatalf("want context captured, got %+v", err.Context)
	}
}

func TestAssertReturnsFalseAndLogsOnFailure(t *testing.T) {
	var buf strings.Builder
	logger := log.New(&buf, "", 0)

	if Assert(logger, 1 == 2, "impossible condition") {
		t.Fatalf("Assert must return false for a false condition")
	}
	if !strings.Contains(buf.String(), "ASSERT FAILED") {
		t.Fatalf("want a logged assertion failure, got %q", buf.String())
	}
}

func TestAssertReturnsTrueWithoutLoggingOnSuccess(t *testing.T) {
	var buf strings.Builder
	logger := log.New(&buf, "", 0)

	if !Assert(logger, 1 == 1, "always true") {
		t.Fatalf("Assert must return true for a true condition")
	}
	if buf.Len() != 0 {
		t.Fatalf("want no log output on success, got %q", buf.String())
	}
}
