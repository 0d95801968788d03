package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailMessage is one email handed to a Sender.
type EmailMessage struct {
	To      []string
	From    string
	Subject string
	HTML    string
}

// Sender delivers one email and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg EmailMessage) (string, error)
}

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
}

// NewResendSender creates a new ResendSender with the given API key.
// PRE: apiKey is a valid Resend API key
func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey)}
}

// Send sends a single email via Resend.
// PRE: msg has at least one recipient, a sender and a subject
// POST: Email is queued for delivery; returns the Resend message ID
func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend send failed: %w", err)
	}
	return sent.Id, nil
}

// DefaultSendTimeout bounds one email delivery.
const DefaultSendTimeout = 10 * time.Second

// Email forwards notifications at or above a minimum severity as emails.
type Email struct {
	sender  Sender
	from    string
	to      []string
	min     Severity
	timeout time.Duration
}

// NewEmail creates an email notifier.
// PRE: sender is non-nil; from and to are set
func NewEmail(sender Sender, from string, to []string, threshold Severity) *Email {
	return &Email{sender: sender, from: from, to: to, min: threshold, timeout: DefaultSendTimeout}
}

// Notify emails n when it meets the minimum severity. Delivery errors are logged.
func (e *Email) Notify(ctx context.Context, n Notification) {
	if n.Severity < e.min {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	msg := EmailMessage{
		To:      e.to,
		From:    e.from,
		Subject: fmt.Sprintf("[Treasure Cove] %s", n.Severity),
		HTML:    "<p>" + html.EscapeString(n.Message) + "</p>",
	}
	id, err := e.sender.Send(ctx, msg)
	if err != nil {
		slog.Error("notify_event", "event", "email_failed", "severity", n.Severity.String(), "error", err)
		return
	}
	slog.Info("notify_event", "event", "email_sent", "message_id", id, "severity", n.Severity.String())
}
