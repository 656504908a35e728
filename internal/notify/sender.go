package notify

import (
	"context"
	"fmt"

	"expense-approval/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers messages as plain-text email.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.Recipient)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	// gomail has no context support; run the dial in a goroutine so the
	// caller's deadline still bounds the attempt.
	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}

// LogSender writes notifications to the application log instead of a
// real channel. Used when no SMTP host is configured (local runs).
type LogSender struct {
	Log *zap.Logger
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	l := s.Log
	if l == nil {
		l = zap.NewNop()
	}
	l.Info("notification",
		zap.String("kind", string(msg.Kind)),
		zap.String("recipient", msg.Recipient),
		zap.String("subject", msg.Subject))
	return nil
}
