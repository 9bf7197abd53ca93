// Outbound SMTP client used for activation mail.
//
// Environment:
//   - SMTP_HOST (default: localhost)
//   - SMTP_PORT (default: 587)
//   - SMTP_USERNAME / SMTP_PASSWORD (optional; auth is skipped when unset)
//   - SMTP_FROM: sender address, required

package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/maulidiphilip/money-manager-api/internal/config"
	"github.com/wneessen/go-mail"
)

type EmailClient struct {
	from string
	smtp *mail.Client
}

func NewEmailClient(cfg config.SMTPConfig) (*EmailClient, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP_FROM is required")
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	smtp, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &EmailClient{from: cfg.From, smtp: smtp}, nil
}

// Send delivers a single HTML message. Each call dials, sends and closes;
// activation mail volume does not justify a held connection.
func (c *EmailClient) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(c.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := c.smtp.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
