// Package mail sends the outbound invite messages.
package mail

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/orgauth/pkg/slogx"
)

// Message is one outbound HTML email.
type Message struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

// Transport delivers a single message. Each call fails or succeeds on its own.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// LogTransport logs messages instead of sending them. It is used when no SMTP
// host is configured.
type LogTransport struct{}

func (LogTransport) Send(ctx context.Context, msg Message) error {
	slogx.FromContext(ctx).Info("mail not sent, no smtp host configured",
		slog.String("from", msg.From),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("body_bytes", len(msg.HTMLBody)),
	)
	return nil
}
