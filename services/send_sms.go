package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/portfolio-site-backend/config"
)

type SMSSender interface {
	SendSMS(ctx context.Context, body string) error
}

// TwilioSMS texts the site owner through the Twilio messages API.
type TwilioSMS struct {
	client *twilio.RestClient
	from   string
	to     string
	logger zerolog.Logger
}

// NewTwilioSMS returns nil unless every Twilio setting is present.
func NewTwilioSMS(cfg config.SMS) *TwilioSMS {
	if !cfg.Enabled() {
		return nil
	}
	return &TwilioSMS{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		from:   cfg.From,
		to:     cfg.AdminPhone,
		logger: log.With().Str("service", "TwilioSMS").Logger(),
	}
}

// SendSMS sends body to the admin phone. The Twilio client has no context support,
// so ctx is only checked before the request is made.
func (s *TwilioSMS) SendSMS(ctx context.Context, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(s.to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	if resp.Sid != nil {
		s.logger.Debug().Str("sid", *resp.Sid).Msg("sms sent")
	}
	return nil
}
