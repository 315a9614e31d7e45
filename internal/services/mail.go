package services

import (
  "context"

  "go.uber.org/zap"
)

// Mail is an outgoing plain-text message.
type Mail struct {
  From    string
  To      string
  Subject string
  Body    string
}

// Mailer delivers mails.
type Mailer interface {
  Send(ctx context.Context, mail Mail) error
}

// LogMailer writes mails to the log instead of delivering them. It is used
// when no mail transport is configured.
type LogMailer struct {
  Logger *zap.Logger
}

// Send logs the mail envelope and body.
func (m LogMailer) Send(_ context.Context, mail Mail) error {
  logger := m.Logger
  if logger == nil {
    logger = zap.NewNop()
  }
  logger.Info("mail",
    zap.String("from", mail.From),
    zap.String("to", mail.To),
    zap.String("subject", mail.Subject),
    zap.String("body", mail.Body),
  )
  return nil
}
