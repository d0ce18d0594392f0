// Package email provides the outbound email transports used for one-time
// verification codes. The transport is chosen once at startup from
// configuration and passed explicitly into the services that send mail.
package email

import (
	"context"
	"errors"
	"fmt"
)

// Provider names accepted by New.
const (
	ProviderSMTP     = "smtp"
	ProviderAPI      = "api"
	ProviderDisabled = "disabled"
)

// Config selects and parameterises the transport.
type Config struct {
	Provider string

	// SMTP transport settings.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool

	// HTTP email-API transport settings.
	APIBaseURL string
	APIKey     string

	// From is the sender address for either transport.
	From     string
	FromName string
}

// Sender delivers a single HTML email. Implementations must not retry;
// failures surface immediately to the caller.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// New builds the Sender named by cfg.Provider.
func New(cfg Config) (Sender, error) {
	switch cfg.Provider {
	case ProviderSMTP:
		return NewSMTPSender(cfg)
	case ProviderAPI:
		return NewAPISender(cfg)
	case ProviderDisabled, "":
		return NewDisabledSender("email sending disabled by configuration"), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

type disabledSender struct {
	reason string
}

// NewDisabledSender returns a Sender that rejects every send. Useful for
// development environments without a mail account.
func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) Send(context.Context, string, string, string) error {
	return errors.New(s.reason)
}
