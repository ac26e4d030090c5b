package notification

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerNotifierWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	n := NewLoggerNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	if err := n.Send(context.Background(), Message{Kind: KindOutbid, Destination: "u1", Subject: "a1", Body: "outbid"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "kind="+KindOutbid) || !strings.Contains(out, "destination=u1") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestNilLoggerNotifierIsNoop(t *testing.T) {
	var n *LoggerNotifier
	if err := n.Send(context.Background(), Message{Kind: KindOutbid}); err != nil {
		t.Fatalf("nil notifier should not fail: %v", err)
	}
}
