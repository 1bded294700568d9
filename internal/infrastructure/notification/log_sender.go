// Package notification delivers billing messages.
package notification

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/clube/backend/internal/domain/collection"
	"github.com/clube/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LogSender writes each message to the structured log instead of a gateway.
// Dispatches are still recorded when no email or SMS provider is configured.
type LogSender struct {
	logger *zap.Logger
	// PreviewLen truncates the logged body; 0 logs it whole
	PreviewLen int
}

// NewLogSender creates a LogSender. A nil logger falls back to the context logger.
func NewLogSender(l *zap.Logger) *LogSender {
	if l != nil {
		l = l.Named("sender")
	}
	return &LogSender{logger: l, PreviewLen: 280}
}

// Send logs msg
func (s *LogSender) Send(ctx context.Context, msg collection.Message) error {
	if msg.Recipient == "" {
		return errors.New("recipient is required")
	}
	l := s.logger
	if l == nil {
		l = logger.L(ctx)
	}
	l.Info("Billing message sent",
		zap.String("tenant_id", msg.TenantID.String()),
		zap.String("dispatch_id", msg.DispatchID.String()),
		zap.String("channel", string(msg.Channel)),
		zap.String("recipient", msg.Recipient),
		zap.String("subject", msg.Subject),
		zap.String("body", preview(msg.Body, s.PreviewLen)))
	return nil
}

func preview(body string, n int) string {
	if n <= 0 || utf8.RuneCountInString(body) <= n {
		return body
	}
	return string([]rune(body)[:n]) + "…"
}

var _ collection.Sender = (*LogSender)(nil)
