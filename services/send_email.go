package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"github.com/rpupo63/portfolio-site-backend/config"
)

// EmailMessage is one HTML email.
type EmailMessage struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPMailer delivers mail through an authenticated SMTP relay.
type SMTPMailer struct {
	cfg    config.Mail
	logger zerolog.Logger
}

// NewSMTPMailer returns nil when no SMTP credentials are configured.
func NewSMTPMailer(cfg config.Mail) *SMTPMailer {
	if !cfg.Enabled() {
		return nil
	}
	return &SMTPMailer{
		cfg:    cfg,
		logger: log.With().Str("service", "SMTPMailer").Logger(),
	}
}

// Send dials the relay, sends msg and closes the connection.
// Parameters:
//   - msg.To: at least one recipient
//   - msg.ReplyTo: optional, used so the admin can answer the visitor directly
func (m *SMTPMailer) Send(ctx context.Context, msg EmailMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	message := mail.NewMsg()
	if err := message.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address %q: %w", m.cfg.From, err)
	}
	if err := message.To(msg.To...); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := message.ReplyTo(msg.ReplyTo); err != nil {
			return fmt.Errorf("invalid reply-to address: %w", err)
		}
	}
	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextHTML, msg.HTML)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(20*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	m.logger.Info().Strs("to", msg.To).Str("subject", msg.Subject).Msg("Successfully sent email")
	return nil
}
