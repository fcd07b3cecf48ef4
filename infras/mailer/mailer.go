package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"errors"
	"excursions/config"
	"excursions/infras/otel"
	"excursions/shared/constant"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrSubject = "mail.subject"
	otelAttrMailID  = "mail.id"
)

var ErrNotConfigured = errors.New("mail transport is not configured")

// Message is one transactional email. From falls back to the configured sender.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Tags    map[string]string
}

type Mailer interface {
	Send(ctx context.Context, message Message) (id string, err error)
	Configured() bool
}

type resendMailer struct {
	client *resend.Client
	from   string
	otel   otel.Otel
}

// New returns a Resend-backed mailer. Without MAIL_RESEND_API_KEY the mailer reports
// itself unconfigured and every Send fails with ErrNotConfigured.
func New(cfg *config.Config, otel otel.Otel) Mailer {
	if cfg.Mail.Resend.APIKey == "" {
		log.Warn().Msg("MAIL_RESEND_API_KEY is empty, booking emails are disabled")

		return NewWithClient(cfg, nil, otel)
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.Mail.TimeoutSeconds) * time.Second}

	return NewWithClient(cfg, resend.NewCustomClient(httpClient, cfg.Mail.Resend.APIKey), otel)
}

func NewWithClient(cfg *config.Config, client *resend.Client, otel otel.Otel) Mailer {
	from := cfg.Mail.FromAddress
	if cfg.Mail.FromName != "" {
		from = (&mail.Address{Name: cfg.Mail.FromName, Address: cfg.Mail.FromAddress}).String()
	}

	return &resendMailer{
		client: client,
		from:   from,
		otel:   otel,
	}
}

func (m *resendMailer) Configured() bool {
	return m.client != nil
}

func (m *resendMailer) Send(ctx context.Context, message Message) (id string, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelMailScopeName, constant.OtelMailScopeName+".Send")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !m.Configured() {
		return constant.Empty, ErrNotConfigured
	}

	scope.SetAttribute(otelAttrSubject, message.Subject)

	from := message.From
	if from == "" {
		from = m.from
	}

	request := &resend.SendEmailRequest{
		From:    from,
		To:      []string{message.To},
		ReplyTo: message.ReplyTo,
		Subject: message.Subject,
		Html:    message.HTML,
	}

	for name, value := range message.Tags {
		request.Tags = append(request.Tags, resend.Tag{Name: name, Value: value})
	}

	sent, err := m.client.Emails.SendWithContext(ctx, request)
	if err != nil {
		log.Error().Err(err).Str("subject", message.Subject).Msg("failed to send email")

		return constant.Empty, fmt.Errorf("failed to send email: %w", err)
	}

	scope.SetAttribute(otelAttrMailID, sent.Id)

	return sent.Id, nil
}
