package usecase

import (
	"context"

	"go.uber.org/zap"
)

// Mailer sends human-facing confirmations. Callers treat it as
// best-effort and never fail an operation on a mail error.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type logMailer struct {
	log *zap.Logger
}

// NewLogMailer returns a Mailer that only logs outgoing mail. Stands in
// for a real delivery backend in development and tests.
func NewLogMailer(log *zap.Logger) Mailer {
	return &logMailer{log: log.With(zap.String("mailer", "log"))}
}

func (m *logMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info("Outgoing mail",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_len", len(body)),
	)
	return nil
}
