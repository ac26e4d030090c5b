package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestFromContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, "debug")

	ctx := WithRequestID(context.Background(), "req-42")
	FromContext(ctx, base).Info("payment received")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["request_id"] != "req-42" {
		t.Fatalf("expected request_id req-42, got %v", line["request_id"])
	}
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "verbose")

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug output should be suppressed at info level, got %s", buf.String())
	}
	logger.Info("shown")
	if buf.Len() == 0 {
		t.Fatal("expected info output")
	}
}

func TestWithRequestIDIgnoresEmpty(t *testing.T) {
	ctx := WithRequestID(context.Background(), "")
	if RequestID(ctx) != "" {
		t.Fatal("expected no request id")
	}
}
