// Package notify delivers account mail.
package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notifier sends account mail to users.
type Notifier interface {
	SendWelcome(ctx context.Context, email, username, password string) error
	SendPasswordReset(ctx context.Context, email, username, password string) error
}

// MailConfig configures the SMTP relay. An empty Host disables delivery.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// New returns a MailNotifier, or a no-op notifier when no SMTP host is set.
func New(cfg MailConfig, logger *zap.Logger) Notifier {
	if cfg.Host == "" {
		logger.Info("smtp host not configured, mail delivery disabled")
		return Noop{}
	}
	return NewMailNotifier(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), logger)
}

// Sender abstracts gomail.Dialer for tests.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type MailNotifier struct {
	from   string
	sender Sender
	logger *zap.Logger
}

func NewMailNotifier(cfg MailConfig, sender Sender, logger *zap.Logger) *MailNotifier {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &MailNotifier{
		from:   from,
		sender: sender,
		logger: logger.With(zap.String("service", "notify")),
	}
}

func (n *MailNotifier) SendWelcome(ctx context.Context, email, username, password string) error {
	body := fmt.Sprintf("<p>Hello %s,</p><p>Your Flight Docs account has been created.</p>"+
		"<p>Email: %s<br>Temporary password: <b>%s</b></p><p>Please change it after your first login.</p>",
		username, email, password)
	return n.send(ctx, email, "Your Flight Docs account", body)
}

func (n *MailNotifier) SendPasswordReset(ctx context.Context, email, username, password string) error {
	body := fmt.Sprintf("<p>Hello %s,</p><p>Your password has been reset.</p>"+
		"<p>New password: <b>%s</b></p>", username, password)
	return n.send(ctx, email, "Flight Docs password reset", body)
}

func (n *MailNotifier) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", strings.ToLower(to))
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	n.logger.Info("sending mail", zap.String("to", to), zap.String("subject", subject))
	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// Noop drops every message.
type Noop struct{}

func (Noop) SendWelcome(context.Context, string, string, string) error       { return nil }
func (Noop) SendPasswordReset(context.Context, string, string, string) error { return nil }
