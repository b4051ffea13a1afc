// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email sends outbound mail through an SMTP relay.
package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/Zercerium/zero2prod/internal/config"
	"github.com/Zercerium/zero2prod/internal/i18n"
)

// Dispatcher performs one outbound send attempt per call. There is no
// retrying or queueing behind this interface; a returned error means
// the attempt failed.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// SMTPDispatcher delivers mail via SMTP using go-mail.
type SMTPDispatcher struct {
	cfg *config.SMTPConfig
}

// NewSMTPDispatcher creates a dispatcher for the configured relay.
func NewSMTPDispatcher(cfg *config.SMTPConfig) (*SMTPDispatcher, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}
	return &SMTPDispatcher{cfg: cfg}, nil
}

// Send makes a single delivery attempt. The context aborts an in-flight
// dial or transfer; it never affects anything already handed to the relay.
func (d *SMTPDispatcher) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	msg := mail.NewMsg()

	if d.cfg.FromName != "" {
		if err := msg.FromFormat(d.cfg.FromName, d.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(d.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(d.cfg.Port),
	}

	if d.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Use implicit TLS (SSL) for port 465, STARTTLS for others
		if d.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if d.cfg.Username != "" && d.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(d.cfg.Username),
			mail.WithPassword(d.cfg.Password),
		)
	}

	client, err := mail.NewClient(d.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

// Service composes the application's emails on top of a Dispatcher.
type Service struct {
	dispatcher Dispatcher
	baseURL    string
}

// NewService creates a new email service. baseURL is the public address
// confirmation links are built against.
func NewService(dispatcher Dispatcher, baseURL string) *Service {
	return &Service{
		dispatcher: dispatcher,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// ConfirmationURL builds the link embedded in a confirmation email.
func (s *Service) ConfirmationURL(token string) string {
	return fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, url.QueryEscape(token))
}

// SendConfirmation makes one attempt to deliver the confirmation email
// for a freshly registered subscriber.
func (s *Service) SendConfirmation(ctx context.Context, to, token string) error {
	link := s.ConfirmationURL(token)

	subject := i18n.T(ctx, "confirmation_email_subject")
	textBody := i18n.TData(ctx, "confirmation_email_text", map[string]any{
		"ConfirmationLink": link,
	})
	htmlBody := i18n.TData(ctx, "confirmation_email_html", map[string]any{
		"ConfirmationLink": link,
	})

	return s.dispatcher.Send(ctx, to, subject, htmlBody, textBody)
}
