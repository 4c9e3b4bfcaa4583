package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Method: "GET", Path: "/chat/conversations", Status: 404, Body: "not found"}
	msg := err.Error()
	for _, want := range []string{"GET", "/chat/conversations", "404"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestStreamError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &StreamError{Op: "read", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("StreamError must unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "read") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestCacheError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &CacheError{Op: "write", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("CacheError must unwrap to its cause")
	}
}

func TestExportError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := &ExportError{Format: "md", Path: "/tmp/x.md", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("ExportError must unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "md") {
		t.Errorf("Error() = %q", err.Error())
	}
}
