package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer sends email through the SendGrid v3 API.
type SendGridMailer struct {
	client   *sendgrid.Client
	fromName string
	from     string
}

var _ Mailer = (*SendGridMailer)(nil)

// NewSendGridMailer creates a mailer. The sender address must be verified in SendGrid.
func NewSendGridMailer(apiKey, fromName, fromAddress string) (*SendGridMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid API key is required")
	}
	if fromAddress == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		from:     fromAddress,
	}, nil
}

// Send delivers a plain-text email.
func (m *SendGridMailer) Send(ctx context.Context, to, subject, text string) error {
	if to == "" || subject == "" || text == "" {
		return ErrMissingFields
	}

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", to))

	msg := mail.NewV3Mail()
	msg.SetFrom(mail.NewEmail(m.fromName, m.from))
	msg.Subject = subject
	msg.AddPersonalizations(p)
	msg.AddContent(mail.NewContent("text/plain", text))

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected email: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
