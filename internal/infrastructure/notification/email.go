package notification

import (
	"context"

	"go.uber.org/zap"
)

// EmailMessage is an outbound email
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// EmailSender delivers email messages
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// LogEmailSender writes outbound email to the log instead of delivering
// it. Used in development and as the default until an SMTP relay is
// configured for the deployment.
type LogEmailSender struct {
	from   string
	logger *zap.Logger
}

// NewLogEmailSender creates a new LogEmailSender
func NewLogEmailSender(from string, logger *zap.Logger) *LogEmailSender {
	return &LogEmailSender{from: from, logger: logger}
}

// Send logs the message at info level
func (s *LogEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("email dispatched",
		zap.String("from", s.from),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

var _ EmailSender = (*LogEmailSender)(nil)
