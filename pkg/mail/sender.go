package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/Payphone-Digital/contacts-api/pkg/circuit"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when no SMTP server is set.
var ErrNotConfigured = errors.New("mail server is not configured")

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Sender delivers a confirmation email.
type Sender interface {
	SendConfirmation(ctx context.Context, c Confirmation) error
}

type SMTPSender struct {
	cfg    Config
	dialer *gomail.Dialer
	logger *zap.Logger
}

func NewSMTPSender(cfg Config, logger *zap.Logger) *SMTPSender {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

// Message builds the gomail message without sending it.
func (s *SMTPSender) Message(c Confirmation) (*gomail.Message, error) {
	body, err := RenderConfirmation(c, s.cfg.FromName)
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	msg.SetHeader("To", c.To)
	msg.SetHeader("Subject", ConfirmSubject)
	msg.SetBody("text/html", body)
	return msg, nil
}

func (s *SMTPSender) SendConfirmation(ctx context.Context, c Confirmation) error {
	if s.cfg.Host == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := s.Message(c)
	if err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(msg); err != nil {
		s.logger.Error("Failed to send confirmation email",
			zap.String("to", c.To),
			zap.Error(err),
		)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	s.logger.Info("Confirmation email sent", zap.String("to", c.To))
	return nil
}

// GuardedSender stops dialing the SMTP server while it keeps failing. The
// queue retries tasks rejected with circuit.ErrOpen.
type GuardedSender struct {
	next    Sender
	breaker *circuit.Breaker
}

func NewGuardedSender(next Sender, breaker *circuit.Breaker) *GuardedSender {
	return &GuardedSender{next: next, breaker: breaker}
}

func (s *GuardedSender) SendConfirmation(ctx context.Context, c Confirmation) error {
	return s.breaker.Do(ctx, func(ctx context.Context) error {
		return s.next.SendConfirmation(ctx, c)
	})
}
