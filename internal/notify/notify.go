// Package notify sends finalized split summaries to people by email.
package notify

import (
	"context"
	"errors"
	"log/slog"
)

var ErrMissingFields = errors.New("recipient, subject and text are required")

// Mailer sends a plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}

// LogMailer logs messages instead of sending them. Used when no mail
// provider is configured.
type LogMailer struct{}

var _ Mailer = LogMailer{}

// Send logs the message.
func (LogMailer) Send(ctx context.Context, to, subject, text string) error {
	if to == "" || subject == "" || text == "" {
		return ErrMissingFields
	}
	slog.InfoContext(ctx, "Email not sent (no mail provider configured)",
		"to", to,
		"subject", subject,
		"bytes", len(text),
	)
	return nil
}
