package errors

import (
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestIsTypeFollowsWrapping(t *testing.T) {
	base := DataFormat("missing column \"setor\"", nil)
	wrapped := fmt.Errorf("loading: %w", base)

	if !IsType(wrapped, TypeDataFormat) {
		t.Fatalf("expected wrapped error to match %s", TypeDataFormat)
	}
	if IsType(wrapped, TypeMissingFile) {
		t.Errorf("wrapped data format error must not match %s", TypeMissingFile)
	}
	if IsType(fmt.Errorf("plain"), TypeInternal) {
		t.Error("plain error must not match any type")
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := MissingFile("data/x.csv", fs.ErrNotExist)

	msg := err.Error()
	if !strings.HasPrefix(msg, "[MISSING_FILE]") {
		t.Errorf("expected type prefix, got %q", msg)
	}
	if !strings.Contains(msg, "data/x.csv") || !strings.Contains(msg, fs.ErrNotExist.Error()) {
		t.Errorf("expected path and cause in message, got %q", msg)
	}
	if err.Context["path"] != "data/x.csv" {
		t.Errorf("expected path in context, got %v", err.Context)
	}
	if err.Unwrap() != fs.ErrNotExist {
		t.Errorf("expected cause to unwrap")
	}
}
