package email

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// NoopSender logs emails instead of delivering them. It is used when no Resend API key
// is configured.
type NoopSender struct {
	logger *zap.Logger
}

func NewNoopSender(logger *zap.Logger) *NoopSender {
	return &NoopSender{logger: logger}
}

func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.logger.Info("email delivery disabled", zap.Strings("to", req.To), zap.String("subject", req.Subject))
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}

// NewSender picks Resend when an API key is configured.
func NewSender(apiKey, from string, logger *zap.Logger) Sender {
	if apiKey == "" {
		return NewNoopSender(logger)
	}
	return NewResendSender(apiKey, from, logger)
}
