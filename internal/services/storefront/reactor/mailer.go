// Package reactor runs side effects in response to committed events.
package reactor

import (
	"context"

	"github.com/louisbranch/storefront/internal/platform/logging"
)

// Message is one outbound customer notification.
type Message struct {
	CustomerID string
	OrderID    string
	Subject    string
	Text       string
	HTML       string
}

// Mailer delivers customer notifications.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailerFunc adapts a function into a Mailer.
type MailerFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f MailerFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	log *logging.Logger
}

// NewLogMailer creates a mailer that logs at info level.
func NewLogMailer(log *logging.Logger) LogMailer {
	return LogMailer{log: logging.OrNop(log).Named("mailer")}
}

// Send logs msg.
func (m LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("customer notification",
		"customer_id", msg.CustomerID,
		"order_id", msg.OrderID,
		"subject", msg.Subject,
		"text", msg.Text,
		"html_bytes", len(msg.HTML),
	)
	return nil
}
