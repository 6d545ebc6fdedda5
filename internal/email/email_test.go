package email

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewSender_NoKeyIsNoop(t *testing.T) {
	sender := NewSender("", "noreply@payflow.io", zap.NewNop())
	if _, ok := sender.(*NoopSender); !ok {
		t.Fatalf("expected NoopSender, got %T", sender)
	}
	res, err := sender.Send(context.Background(), SendRequest{To: []string{"a@b.co"}, Subject: "hi"})
	if err != nil || !strings.HasPrefix(res.MessageID, "noop-") {
		t.Fatalf("unexpected result %+v, %v", res, err)
	}
}

func TestResendSender_RequiresRecipients(t *testing.T) {
	sender := NewResendSender("re_test", "noreply@payflow.io", zap.NewNop())
	if _, err := sender.Send(context.Background(), SendRequest{Subject: "hi"}); err == nil {
		t.Fatal("expected error without recipients")
	}
}
