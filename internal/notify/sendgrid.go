package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender delivers plain-text email through SendGrid.
type SendGridSender struct {
	client mailClient
	from   *mail.Email
}

// NewSendGridSender returns nil when no API key is set.
func NewSendGridSender(apiKey, fromAddress string) *SendGridSender {
	if apiKey == "" {
		return nil
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Flinx Market", fromAddress),
	}
}

func (s *SendGridSender) Configured() bool { return s != nil }

func (s *SendGridSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if s == nil {
		return ErrChannelUnconfigured
	}
	m := mail.NewV3Mail()
	m.SetFrom(s.from)
	m.Subject = subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", to))
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/plain", body))

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
