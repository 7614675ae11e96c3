package email

import (
	"context"

	"go.uber.org/zap"
)

// Provider sends a multipart (text + HTML) email. Implementations raise on
// transport failure; retry policy belongs to the caller.
type Provider interface {
	Send(ctx context.Context, to []string, subject, textBody, htmlBody string) error
}

// NoOp logs instead of sending. Used when no SMTP host is configured.
type NoOp struct {
	log *zap.Logger
}

func NewNoOp(log *zap.Logger) *NoOp {
	return &NoOp{log: log.Named("email.noop")}
}

func (n *NoOp) Send(_ context.Context, to []string, subject, _, _ string) error {
	n.log.Info("email transport not configured, dropping message",
		zap.Strings("to", to), zap.String("subject", subject))
	return nil
}
